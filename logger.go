package querycache

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/querycache/model"
	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with cache-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger

	// collisions throttles hash collision warnings.
	collisions *rate.Sometimes
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newLogger(slog.New(handler))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

func newLogger(l *slog.Logger) *Logger {
	return &Logger{
		Logger:     l,
		collisions: &rate.Sometimes{First: 1, Interval: time.Second},
	}
}

// WithDatabase adds a database field to the logger.
func (l *Logger) WithDatabase(database string) *Logger {
	return &Logger{
		Logger:     l.Logger.With("database", database),
		collisions: l.collisions,
	}
}

// LogStore logs a store operation.
func (l *Logger) LogStore(ctx context.Context, database string, hash model.Hash, replaced bool, evicted int) {
	l.DebugContext(ctx, "result stored",
		"database", database,
		"hash", hash.String(),
		"replaced", replaced,
		"evicted", evicted,
	)
}

// LogStoreRejected logs a store skipped because the memory budget is exhausted.
func (l *Logger) LogStoreRejected(ctx context.Context, database string, hash model.Hash, sizeBytes int64) {
	l.DebugContext(ctx, "result not cached, memory budget exhausted",
		"database", database,
		"hash", hash.String(),
		"size_bytes", sizeBytes,
	)
}

// LogInvalidate logs an invalidation.
// sources is nil when a whole database or the whole cache was invalidated.
func (l *Logger) LogInvalidate(ctx context.Context, database string, sources []model.DataSource, removed int) {
	l.DebugContext(ctx, "results invalidated",
		"database", database,
		"sources", sources,
		"removed", removed,
	)
}

// LogEviction logs entries evicted by a ceiling change.
func (l *Logger) LogEviction(ctx context.Context, maxResults, evicted int) {
	if evicted == 0 {
		return
	}
	l.InfoContext(ctx, "results evicted",
		"max_results", maxResults,
		"evicted", evicted,
	)
}

// LogPropertiesChange logs a change of the administrative settings.
func (l *Logger) LogPropertiesChange(ctx context.Context, old, updated Properties) {
	l.InfoContext(ctx, "query cache properties changed",
		"old_mode", old.Mode.String(),
		"mode", updated.Mode.String(),
		"old_max_results", old.MaxResults,
		"max_results", updated.MaxResults,
	)
}

// LogCollision logs a hash collision, at most once per second.
func (l *Logger) LogCollision(ctx context.Context, database string, hash model.Hash) {
	l.collisions.Do(func() {
		l.WarnContext(ctx, "query hash collision, treating as miss",
			"database", database,
			"hash", hash.String(),
		)
	})
}
