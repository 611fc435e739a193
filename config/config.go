// Package config loads the engine's three runtime knobs (cache capacity,
// worker thread count, log level) from the environment via a plain
// godotenv.Load()+os.Getenv pattern rather than a heavier structured-config
// library — this module has three knobs, not a service's worth of sections.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the optional defaults a voltrace.Manager can be
// constructed with.
type Config struct {
	CacheCapacity int
	Threads       int
	LogLevel      string
}

const (
	envCapacity = "VOLTRACE_CAPACITY"
	envThreads  = "VOLTRACE_THREADS"
	envLogLevel = "VOLTRACE_LOG_LEVEL"
)

// Load reads a .env file if present (a missing file is not an error;
// every field below has a sane default, so the engine degrades
// silently) and returns a Config populated from the environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		CacheCapacity: 128,
		Threads:       0, // 0 lets the pool auto-size
		LogLevel:      "info",
	}

	if v := os.Getenv(envCapacity); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheCapacity = n
		}
	}
	if v := os.Getenv(envThreads); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Threads = n
		}
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}
