// README: Fare estimate handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hexride/internal/modules/pricing"
	"hexride/internal/types"
)

type FareHandler struct {
	pricing *pricing.Service
}

func NewFareHandler(svc *pricing.Service) *FareHandler {
	return &FareHandler{pricing: svc}
}

func (h *FareHandler) Estimate(c *gin.Context) {
	fromLat, ok1 := parseFloatQuery(c, "from_lat")
	fromLng, ok2 := parseFloatQuery(c, "from_lng")
	toLat, ok3 := parseFloatQuery(c, "to_lat")
	toLng, ok4 := parseFloatQuery(c, "to_lng")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		writeError(c, http.StatusBadRequest, "from_lat, from_lng, to_lat, to_lng are required")
		return
	}
	quote, err := h.pricing.Estimate(
		types.Point{Lat: fromLat, Lng: fromLng},
		types.Point{Lat: toLat, Lng: toLng},
	)
	if err == pricing.ErrNoRoute {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, quote)
}
