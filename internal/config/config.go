// Package config loads server configuration from the environment and the
// graph catalog from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultHTTPAddr     = ":8080"
	DefaultCatalogPath  = "config/catalog.yml"
	DefaultCacheSize    = 128
	DefaultPlaybackTick = 500 * time.Millisecond
)

// ServerConfig holds the process-level configuration of the API server.
type ServerConfig struct {
	// HTTPAddr is the listen address of the HTTP API.
	HTTPAddr string

	// CatalogPath points at the YAML graph catalog.
	CatalogPath string

	// LogLevel and LogFormat configure the structured logger.
	LogLevel  string
	LogFormat string

	// CacheSize bounds the per-graph shortest-path LRU.
	CacheSize int

	// PlaybackTick is the wall-clock interval between replayed simulation
	// ticks on the websocket playback endpoint.
	PlaybackTick time.Duration
}

// FromEnv reads the server configuration from the environment. A .env file
// in the working directory is merged in first; a missing file is fine.
func FromEnv() (ServerConfig, error) {
	_ = godotenv.Load()

	cfg := ServerConfig{
		HTTPAddr:     envOr("FIRESIM_HTTP_ADDR", DefaultHTTPAddr),
		CatalogPath:  envOr("FIRESIM_CATALOG", DefaultCatalogPath),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
		CacheSize:    DefaultCacheSize,
		PlaybackTick: DefaultPlaybackTick,
	}

	if raw := os.Getenv("FIRESIM_DIJKSTRA_CACHE_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return ServerConfig{}, fmt.Errorf("invalid FIRESIM_DIJKSTRA_CACHE_SIZE %q", raw)
		}
		cfg.CacheSize = size
	}
	if raw := os.Getenv("FIRESIM_PLAYBACK_TICK"); raw != "" {
		tick, err := time.ParseDuration(raw)
		if err != nil || tick <= 0 {
			return ServerConfig{}, fmt.Errorf("invalid FIRESIM_PLAYBACK_TICK %q", raw)
		}
		cfg.PlaybackTick = tick
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
