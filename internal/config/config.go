// README: Config loader with env defaults for HTTP, Redis, map path, and matching settings.
package config

import (
	"os"
	"strconv"
)

type MatchingConfig struct {
	Workers    int
	TimeoutSec int
	Resolution int
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		Addr    string
		Channel string
	}
	Map struct {
		Path string
	}
	Matching MatchingConfig
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("HEXRIDE_HTTP_ADDR", ":8080")
	cfg.Redis.Addr = envOrDefault("HEXRIDE_REDIS_ADDR", "")
	cfg.Redis.Channel = envOrDefault("HEXRIDE_REDIS_CHANNEL", "hexride:events")
	cfg.Map.Path = envOrDefault("HEXRIDE_MAP_PATH", "")
	cfg.Matching.Workers = envOrDefaultInt("HEXRIDE_MATCH_WORKERS", 4)
	cfg.Matching.TimeoutSec = envOrDefaultInt("HEXRIDE_MATCH_TIMEOUT_SEC", 60)
	cfg.Matching.Resolution = envOrDefaultInt("HEXRIDE_H3_RESOLUTION", 9)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
