// Package logger provides logging utilities for the scraper.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger provides structured logging functionality.
type Logger struct {
	internal *slog.Logger
}

// NewLogger creates a new text logger on stderr with the specified level.
func NewLogger(level string) *Logger {
	return New(os.Stderr, level, "text")
}

// New creates a logger writing to w. Format is "json" or "text"; anything
// else falls back to text.
func New(w io.Writer, level, format string) *Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		internal: slog.New(handler),
	}
}

// Discard returns a logger that drops everything, for tests and library callers.
func Discard() *Logger {
	return New(io.Discard, "error", "text")
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Info logs an info level message.
func (l *Logger) Info(msg string, args ...any) {
	l.internal.Info(msg, args...)
}

// Error logs an error level message.
func (l *Logger) Error(msg string, args ...any) {
	l.internal.Error(msg, args...)
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debug(msg, args...)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warn(msg, args...)
}

// With creates a child logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		internal: l.internal.With(args...),
	}
}

// WithRun tags every line of one scrape run with a fresh run_id.
func (l *Logger) WithRun() *Logger {
	return l.With("run_id", uuid.NewString())
}
