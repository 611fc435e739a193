// Package obslog wraps a process-wide zap.Logger, constructed once and
// reused by pool, greeks, cache, and the voltrace Manager. The pure
// computational core (bsm, lattice, grid) stays silent — those packages
// are terse numerical helpers that never log internally.
package obslog

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// Init configures the global logger from a level string ("debug", "info",
// "warn", "error"). Safe to call multiple times; only the first call
// takes effect.
func Init(level string) {
	once.Do(func() {
		lvl := parseLevel(level)
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
		}
		logger = l
	})
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// L returns the global logger, lazily initialized at info level if Init
// was never called.
func L() *zap.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Sync flushes any buffered log entries. Call during process shutdown.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
