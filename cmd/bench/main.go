// README: Benchmark runner; drives the matching engine in-process and prints throughput numbers.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Riders   int
	Drivers  int
	Workers  int
	GridSize int
	Timeout  time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.IntVar(&cfg.Riders, "riders", envOrDefaultInt("HEXRIDE_BENCH_RIDERS", 2000), "riders to post")
	flag.IntVar(&cfg.Drivers, "drivers", envOrDefaultInt("HEXRIDE_BENCH_DRIVERS", 2000), "drivers to register")
	flag.IntVar(&cfg.Workers, "workers", envOrDefaultInt("HEXRIDE_BENCH_WORKERS", 4), "offer workers")
	flag.IntVar(&cfg.GridSize, "grid", envOrDefaultInt("HEXRIDE_BENCH_GRID", 40), "synthetic road grid side length")
	flag.DurationVar(&cfg.Timeout, "timeout", 60*time.Second, "total run timeout")
	flag.Parse()
	return cfg
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := loadConfig()

	fmt.Printf("grid=%dx%d riders=%d drivers=%d workers=%d\n",
		cfg.GridSize, cfg.GridSize, cfg.Riders, cfg.Drivers, cfg.Workers)

	results := run(cfg)

	fmt.Println("\n== Summary ==")
	for _, r := range results {
		fmt.Printf("%-28s %10s  %s\n", r.Name, r.Latency.Round(time.Microsecond), r.Note)
	}
}
