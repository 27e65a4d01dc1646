// Package logging configures structured logging: colored output with tint
// for terminals, JSON for log collectors.
//
// Usage:
//
//	logging.Setup()                          // from LOG_LEVEL and LOG_FORMAT env
//	logging.SetupWithLevel(slog.LevelDebug)  // colored, explicit level
//	logger := logging.New(os.Stdout, "json", slog.LevelInfo)
//
// Environment variables:
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text, json (default: text)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger described by LOG_LEVEL and LOG_FORMAT
// and returns it.
func Setup() *slog.Logger {
	return Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) *slog.Logger {
	logger := New(os.Stderr, "text", level)
	slog.SetDefault(logger)
	return logger
}

// Configure installs a default logger with the given level and format names.
func Configure(level, format string) *slog.Logger {
	logger := New(os.Stderr, format, ParseLevel(level))
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w. Format "json" selects the JSON handler;
// anything else gets tint's colored text output.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// ParseLevel maps a level name to a slog level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
