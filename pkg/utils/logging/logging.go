package logging

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/m-mizutani/clog"
)

type ctxLoggerKey struct{}

var (
	defaultLogger *slog.Logger
	mutex         sync.RWMutex
)

func init() {
	defaultLogger = slog.New(clog.New(
		clog.WithWriter(os.Stderr),
		clog.WithLevel(slog.LevelInfo),
		clog.WithColor(true),
	))
}

// Default returns the process-wide logger
func Default() *slog.Logger {
	mutex.RLock()
	defer mutex.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger. Called once from the
// CLI after flags are parsed.
func SetDefault(logger *slog.Logger) {
	mutex.Lock()
	defer mutex.Unlock()
	defaultLogger = logger
}

// With embeds a logger into the context
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From extracts the logger from the context, falling back to the
// default logger
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
