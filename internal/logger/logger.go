package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rustyeddy/debtbook/config"
)

// New creates and configures a new slog.Logger writing to stderr, so command
// output on stdout stays clean.
func New(cfg config.LoggingConfig) *slog.Logger {
	return NewTo(os.Stderr, cfg)
}

// NewTo is New with an explicit destination.
func NewTo(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := ParseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	logger.Debug("logger initialized", "level", level, "format", cfg.Format)
	return logger
}

// ParseLevel maps a config level name to a slog level. Unknown names mean
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// Discard drops everything; components default to it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
