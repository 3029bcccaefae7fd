// README: Benchmark scenarios; synthetic grid graph, bulk registration, match draining.
package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hexride/internal/config"
	"hexride/internal/modules/matching"
	"hexride/internal/modules/routing"
	"hexride/internal/types"
)

type Result struct {
	Name    string
	Latency time.Duration
	Note    string
}

// buildGrid lays a size x size street grid around a city center with two-way
// edges between neighbors. Spacing is roughly 100 meters.
func buildGrid(size int) *routing.Graph {
	const baseLat, baseLng, step = 40.7, -74.0, 0.001
	g := routing.NewGraph()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			g.AddNode(r*size+c, types.Point{Lat: baseLat + float64(r)*step, Lng: baseLng + float64(c)*step})
		}
	}
	edgeID := 0
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			n := r*size + c
			if c+1 < size {
				g.AddEdge(edgeID, n, n+1, 10)
				g.AddEdge(edgeID, n+1, n, 10)
				edgeID++
			}
			if r+1 < size {
				g.AddEdge(edgeID, n, n+size, 10)
				g.AddEdge(edgeID, n+size, n, 10)
				edgeID++
			}
		}
	}
	return g
}

func randomPoint(rng *rand.Rand, size int) types.Point {
	const baseLat, baseLng, step = 40.7, -74.0, 0.001
	return types.Point{
		Lat: baseLat + rng.Float64()*float64(size-1)*step,
		Lng: baseLng + rng.Float64()*float64(size-1)*step,
	}
}

func run(cfg Config) []Result {
	rng := rand.New(rand.NewSource(1))
	graph := buildGrid(cfg.GridSize)
	router := routing.NewEngine(graph)

	mcfg := config.MatchingConfig{Workers: cfg.Workers, TimeoutSec: int(cfg.Timeout / time.Second), Resolution: 9}
	engine := matching.NewEngine(mcfg, router, nil)
	engine.Start(cfg.Workers)
	defer engine.Stop()

	var results []Result

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < cfg.Drivers; i++ {
			engine.AddDriver(types.ID(i), rng.Float64()*50, randomPoint(rng, cfg.GridSize))
		}
	}()
	wg.Wait()
	results = append(results, Result{
		Name:    "register_drivers",
		Latency: time.Since(start),
		Note:    fmt.Sprintf("%d drivers", cfg.Drivers),
	})

	start = time.Now()
	for i := 0; i < cfg.Riders; i++ {
		engine.AddRider(types.ID(cfg.Drivers+i), 25+rng.Float64()*50, randomPoint(rng, cfg.GridSize))
	}
	results = append(results, Result{
		Name:    "post_riders",
		Latency: time.Since(start),
		Note:    fmt.Sprintf("%d riders", cfg.Riders),
	})

	start = time.Now()
	deadline := time.Now().Add(cfg.Timeout)
	for engine.QueueLen() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	results = append(results, Result{
		Name:    "drain_offer_queue",
		Latency: time.Since(start),
		Note:    fmt.Sprintf("queue=%d", engine.QueueLen()),
	})

	start = time.Now()
	matched := 0
	for _, driver := range engine.OpenDrivers() {
		if len(driver.Inbox) == 0 {
			continue
		}
		if err := engine.DriverAccept(driver.ID, driver.Inbox[0]); err == nil {
			matched++
		}
	}
	elapsed := time.Since(start)
	note := fmt.Sprintf("%d matches", matched)
	if matched > 0 {
		note = fmt.Sprintf("%d matches, %.0f/s", matched, float64(matched)/elapsed.Seconds())
	}
	results = append(results, Result{Name: "accept_offers", Latency: elapsed, Note: note})

	return results
}
