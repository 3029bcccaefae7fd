// README: Rider handlers (post request, cancel, status).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hexride/internal/modules/matching"
	"hexride/internal/types"
)

type RiderHandler struct {
	matching *matching.Engine
}

func NewRiderHandler(engine *matching.Engine) *RiderHandler {
	return &RiderHandler{matching: engine}
}

type createRiderReq struct {
	ID  int64   `json:"id"`
	Bid float64 `json:"bid"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *RiderHandler) Create(c *gin.Context) {
	var req createRiderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID < 0 || req.Bid < 0 {
		writeError(c, http.StatusBadRequest, "id and bid must be non-negative")
		return
	}
	err := h.matching.AddRider(types.ID(req.ID), req.Bid, types.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"rider_id": req.ID, "state": matching.StateOpen.String()})
}

func (h *RiderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid rider id")
		return
	}
	if err := h.matching.RiderCancel(id); err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"rider_id": id, "state": matching.StateCancelled.String()})
}

func (h *RiderHandler) Get(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid rider id")
		return
	}
	rider, ok := h.matching.RiderSnapshot(id)
	if !ok {
		writeError(c, http.StatusNotFound, "rider not found")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"rider_id":        rider.ID,
		"bid":             rider.Bid,
		"state":           rider.State.String(),
		"pending_drivers": rider.PendingDrivers,
	})
}
