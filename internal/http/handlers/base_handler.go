// README: Base handler utilities (JSON helpers, id parsing, error mapping).
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hexride/internal/modules/matching"
	"hexride/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func parseID(v string) (types.ID, bool) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return types.ID(n), true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeMatchError(c *gin.Context, err error) {
	switch err {
	case matching.ErrAlreadyExists:
		writeError(c, http.StatusConflict, err.Error())
	case matching.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case matching.ErrNotOffered, matching.ErrAlreadyClosed:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
