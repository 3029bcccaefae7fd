// README: Driver handlers (register, accept, cancel, status).
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hexride/internal/modules/location"
	"hexride/internal/modules/matching"
	"hexride/internal/types"
)

type DriverHandler struct {
	matching *matching.Engine
	tracker  *location.Tracker
}

func NewDriverHandler(engine *matching.Engine, tracker *location.Tracker) *DriverHandler {
	return &DriverHandler{matching: engine, tracker: tracker}
}

type createDriverReq struct {
	ID  int64   `json:"id"`
	Ask float64 `json:"ask"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *DriverHandler) Create(c *gin.Context) {
	var req createDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID < 0 || req.Ask < 0 {
		writeError(c, http.StatusBadRequest, "id and ask must be non-negative")
		return
	}
	loc := types.Point{Lat: req.Lat, Lng: req.Lng}
	err := h.matching.AddDriver(types.ID(req.ID), req.Ask, loc)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	if err := h.tracker.Set(c.Request.Context(), types.ID(req.ID), loc); err != nil {
		log.Printf("geo mirror set driver %d: %v", req.ID, err)
	}
	writeJSON(c, http.StatusCreated, map[string]any{"driver_id": req.ID, "state": matching.StateOpen.String()})
}

func (h *DriverHandler) Accept(c *gin.Context) {
	driverID, ok := parseID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	riderID, ok := parseID(c.Query("rider_id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "missing or invalid rider_id")
		return
	}
	if err := h.matching.DriverAccept(driverID, riderID); err != nil {
		writeMatchError(c, err)
		return
	}
	if err := h.tracker.Remove(c.Request.Context(), driverID); err != nil {
		log.Printf("geo mirror remove driver %d: %v", driverID, err)
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"driver_id": driverID,
		"rider_id":  riderID,
		"state":     matching.StateMatched.String(),
	})
}

func (h *DriverHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	if err := h.matching.DriverCancel(id); err != nil {
		writeMatchError(c, err)
		return
	}
	if err := h.tracker.Remove(c.Request.Context(), id); err != nil {
		log.Printf("geo mirror remove driver %d: %v", id, err)
	}
	writeJSON(c, http.StatusOK, map[string]any{"driver_id": id, "state": matching.StateCancelled.String()})
}

func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	driver, ok := h.matching.DriverSnapshot(id)
	if !ok {
		writeError(c, http.StatusNotFound, "driver not found")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"driver_id": driver.ID,
		"ask":       driver.Ask,
		"state":     driver.State.String(),
		"inbox":     driver.Inbox,
	})
}
