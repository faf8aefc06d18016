// Package logging wraps log/slog with lexicon-specific helpers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with consistent field names for lexicon
// operations.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler logs
// text to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger writing JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger writing human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// New builds a logger from textual settings as they appear in config:
// format is "text" or "json", level one of debug, info, warn, error.
func New(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextLogger(w, lvl), nil
	case "json":
		return NewJSONLogger(w, lvl), nil
	}
	return nil, fmt.Errorf("logging: unknown format %q", format)
}

// ParseLevel parses a slog level name; empty means info.
func ParseLevel(level string) (slog.Level, error) {
	if level == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

// WithStore tags records with the store driver.
func (l *Logger) WithStore(driver string) *Logger {
	return &Logger{Logger: l.Logger.With("store", driver)}
}

// LogUpsert logs a single record write.
func (l *Logger) LogUpsert(ctx context.Context, key, category string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upsert failed",
			"key", key,
			"category", category,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "upsert completed",
		"key", key,
		"category", category,
	)
}

// LogBatch logs the outcome of a batch ingestion.
func (l *Logger) LogBatch(ctx context.Context, total, failed int, atomic bool) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"total", total,
			"failed", failed,
			"success", total-failed,
			"atomic", atomic,
		)
		return
	}
	l.InfoContext(ctx, "batch completed",
		"count", total,
		"atomic", atomic,
	)
}

// LogSearch logs a query.
func (l *Logger) LogSearch(ctx context.Context, kind string, limit, found int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"kind", kind,
			"limit", limit,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"kind", kind,
		"limit", limit,
		"results", found,
	)
}

// LogFallback logs an encoding that resolved to a category default.
func (l *Logger) LogFallback(ctx context.Context, key, category, particle string) {
	l.DebugContext(ctx, "encoding fell back to category default",
		"key", key,
		"category", category,
		"particle_class", particle,
	)
}
