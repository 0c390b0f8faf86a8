// Package logging initializes the structured loggers used across the service.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger *slog.Logger
	levelVar      slog.LevelVar
	initOnce      sync.Once
)

// Init configures the default slog logger. Logs go to stderr as text;
// when logFile is non-empty a JSON copy is written to a rotating file.
func Init(level, logFile string, debug bool) {
	initOnce.Do(func() {
		levelVar.Set(parseLevel(level, debug))

		var handler slog.Handler
		textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar})

		if logFile != "" {
			fileWriter := &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			handler = slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{Level: &levelVar})
			// Human-readable copy still goes to stderr via the default logger below.
			defaultLogger = slog.New(newTeeHandler(textHandler, handler))
		} else {
			defaultLogger = slog.New(textHandler)
		}

		slog.SetDefault(defaultLogger)
	})
}

// ForService returns a child logger tagged with the given service name.
func ForService(service string) *slog.Logger {
	if defaultLogger == nil {
		return slog.Default().With("service", service)
	}
	return defaultLogger.With("service", service)
}

// SetLevel adjusts the minimum level of all loggers created by this package.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

func parseLevel(level string, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
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

// teeHandler fans a record out to multiple handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func newTeeHandler(handlers ...slog.Handler) slog.Handler {
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
