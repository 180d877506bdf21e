package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger/oteladapters"
)

// NewLogger creates the JSON slog logger of the binaries.
func NewLogger(w io.Writer, cfg LogConfig) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(cfg.Level)}))
}

// ParseLogLevel maps debug|info|warn|error to a slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewContextualLogger returns a trace-correlated logger when observability is enabled,
// otherwise the plain logger.
func NewContextualLogger(cfg Config, logger *slog.Logger) *slog.Logger {
	if !cfg.Observability.Enabled {
		return logger
	}

	return oteladapters.NewSlogBridgeLogger(cfg.Observability.ServiceName).Logger()
}
