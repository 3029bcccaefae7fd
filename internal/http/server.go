// README: API gateway; builds the gin engine and registers rider, driver, and routing routes.
package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hexride/internal/http/handlers"
	"hexride/internal/http/middleware"
	"hexride/internal/modules/location"
	"hexride/internal/modules/matching"
	"hexride/internal/modules/pricing"
	"hexride/internal/routerapi"
)

type ServerDeps struct {
	Matching *matching.Engine
	Tracker  *location.Tracker
	Router   *routerapi.Service
	Pricing  *pricing.Service
}

type Server struct {
	matching *matching.Engine
	tracker  *location.Tracker
	router   *routerapi.Service
	pricing  *pricing.Service
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		matching: deps.Matching,
		tracker:  deps.Tracker,
		router:   deps.Router,
		pricing:  deps.Pricing,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(cors.Default())

	riderHandler := handlers.NewRiderHandler(s.matching)
	r.POST("/api/riders", riderHandler.Create)
	r.POST("/api/riders/:id/cancel", riderHandler.Cancel)
	r.GET("/api/riders/:id", riderHandler.Get)

	driverHandler := handlers.NewDriverHandler(s.matching, s.tracker)
	r.POST("/api/drivers", driverHandler.Create)
	r.POST("/api/drivers/:id/accept", driverHandler.Accept)
	r.POST("/api/drivers/:id/cancel", driverHandler.Cancel)
	r.GET("/api/drivers/:id", driverHandler.Get)

	routingHandler := handlers.NewRoutingHandler(s.router)
	r.GET("/api/route", routingHandler.Route)
	r.POST("/api/edges/id", routingHandler.UpdateByID)
	r.POST("/api/edges/nodes", routingHandler.UpdateByNodes)
	r.POST("/api/edges/near", routingHandler.UpdateNear)

	fareHandler := handlers.NewFareHandler(s.pricing)
	r.GET("/api/fare", fareHandler.Estimate)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
