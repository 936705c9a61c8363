// Package logger builds the slog loggers used across teso and holds the
// process-wide default.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Default is the process-wide logger. It writes JSON at info level to
// stderr until SetDefault replaces it.
var Default = New("info", os.Stderr)

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func handlerOptions(level string) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: ParseLevel(level)}
}

// New creates a JSON logger
func New(level string, output io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(output, handlerOptions(level)))
}

// NewText creates a logfmt-style text logger
func NewText(level string, output io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(output, handlerOptions(level)))
}

// NewWithFormat creates a logger in the named format: "json" or "text".
// An empty format selects text.
func NewWithFormat(format, level string, output io.Writer) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewText(level, output), nil
	case "json":
		return New(level, output), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (must be json or text)", format)
	}
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// SetDefault replaces Default and the slog package default
func SetDefault(l *slog.Logger) {
	Default = l
	slog.SetDefault(l)
}

func Debug(msg string, args ...any) { Default.Debug(msg, args...) }
func Info(msg string, args ...any)  { Default.Info(msg, args...) }
func Warn(msg string, args ...any)  { Default.Warn(msg, args...) }
func Error(msg string, args ...any) { Default.Error(msg, args...) }

// With returns Default with additional attributes
func With(args ...any) *slog.Logger {
	return Default.With(args...)
}
