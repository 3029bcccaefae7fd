// README: Entry point; loads config, builds the road graph, wires the matching engine, starts HTTP.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hexride/internal/config"
	httptransport "hexride/internal/http"
	"hexride/internal/infra"
	"hexride/internal/modules/events"
	"hexride/internal/modules/location"
	"hexride/internal/modules/matching"
	"hexride/internal/modules/pricing"
	"hexride/internal/routerapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Map.Path == "" {
		log.Fatal("HEXRIDE_MAP_PATH is required")
	}
	if err := routerapi.Init(ctx, cfg.Map.Path); err != nil {
		log.Fatalf("road graph init: %v", err)
	}
	router := routerapi.Default()
	log.Printf("road graph loaded: %d nodes, %d edges",
		router.Graph().NumNodes(), router.Graph().NumEdges())

	var pub events.Publisher
	var tracker *location.Tracker
	if cfg.Redis.Addr != "" {
		redisClient := infra.NewRedis(cfg.Redis.Addr)
		pub = events.NewRedisPublisher(redisClient, cfg.Redis.Channel)
		tracker = location.NewTracker(redisClient)
	}

	engine := matching.NewEngine(cfg.Matching, router, pub)
	engine.Start(cfg.Matching.Workers)
	defer engine.Stop()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Matching: engine,
		Tracker:  tracker,
		Router:   router,
		Pricing:  pricing.NewService(router, pricing.DefaultRate),
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
