// README: Routing handlers (route cost query, edge weight updates).
package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hexride/internal/modules/routing"
	"hexride/internal/routerapi"
	"hexride/internal/types"
)

type RoutingHandler struct {
	router *routerapi.Service
}

func NewRoutingHandler(router *routerapi.Service) *RoutingHandler {
	return &RoutingHandler{router: router}
}

func parseFloatQuery(c *gin.Context, key string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	return v, err == nil
}

func (h *RoutingHandler) Route(c *gin.Context) {
	fromLat, ok1 := parseFloatQuery(c, "from_lat")
	fromLng, ok2 := parseFloatQuery(c, "from_lng")
	toLat, ok3 := parseFloatQuery(c, "to_lat")
	toLng, ok4 := parseFloatQuery(c, "to_lng")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		writeError(c, http.StatusBadRequest, "from_lat, from_lng, to_lat, to_lng are required")
		return
	}
	cost := h.router.Route(
		types.Point{Lat: fromLat, Lng: fromLng},
		types.Point{Lat: toLat, Lng: toLng},
	)
	if cost < 0 {
		writeError(c, http.StatusServiceUnavailable, "road graph is empty")
		return
	}
	if math.IsInf(cost, 1) {
		writeError(c, http.StatusNotFound, "no route between points")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"cost": cost})
}

type updateByIDReq struct {
	EdgeID int     `json:"edge_id"`
	Weight float64 `json:"weight"`
}

func (h *RoutingHandler) UpdateByID(c *gin.Context) {
	var req updateByIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Weight < 0 {
		writeError(c, http.StatusBadRequest, "weight must be non-negative")
		return
	}
	h.router.UpdateEdgeByID(req.EdgeID, req.Weight)
	writeJSON(c, http.StatusOK, map[string]any{"edge_id": req.EdgeID, "weight": req.Weight})
}

type updateByNodesReq struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

func (h *RoutingHandler) UpdateByNodes(c *gin.Context) {
	var req updateByNodesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Weight < 0 {
		writeError(c, http.StatusBadRequest, "weight must be non-negative")
		return
	}
	h.router.UpdateEdgeByNodes(req.From, req.To, req.Weight)
	writeJSON(c, http.StatusOK, map[string]any{"from": req.From, "to": req.To, "weight": req.Weight})
}

type updateNearReq struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Weight    float64 `json:"weight"`
	Direction string  `json:"direction"`
}

func (h *RoutingHandler) UpdateNear(c *gin.Context) {
	var req updateNearReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Weight < 0 {
		writeError(c, http.StatusBadRequest, "weight must be non-negative")
		return
	}
	dir := routing.ParseDirection(req.Direction)
	h.router.UpdateEdgeNear(types.Point{Lat: req.Lat, Lng: req.Lng}, req.Weight, dir)
	writeJSON(c, http.StatusOK, map[string]any{
		"lat":       req.Lat,
		"lng":       req.Lng,
		"weight":    req.Weight,
		"direction": dir.String(),
	})
}
