package app

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger. Production emits JSON regardless of
// LOG_FORMAT so log shippers never see the pretty handler; elsewhere the
// format is opt-in. Source locations are attached only at debug level, they
// are noise in routine report-compilation logs.
func NewLogger(cfg *Config) *slog.Logger {
	level := parseLogLevel(cfg)
	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}
	if cfg.IsProduction() || (cfg != nil && cfg.LogFormat == "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLogLevel(cfg *Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
