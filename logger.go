package icpgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with registration-specific helpers so the
// pipeline logs consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogIteration logs one ICP iteration's evaluation.
func (l *Logger) LogIteration(ctx context.Context, iteration int, fitness, inlierRMSE float64) {
	l.DebugContext(ctx, "ICP iteration",
		"iteration", iteration,
		"fitness", fitness,
		"inlier_rmse", inlierRMSE,
	)
}

// LogSearch logs a correspondence search.
func (l *Logger) LogSearch(ctx context.Context, queries, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "correspondence search failed",
			"queries", queries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "correspondence search completed",
			"queries", queries,
			"matches", matches,
		)
	}
}

// LogEstimation logs a transform estimation step.
func (l *Logger) LogEstimation(ctx context.Context, method string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "transform estimation failed",
			"method", method,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "transform estimation completed",
			"method", method,
		)
	}
}

// LogConverged logs loop termination.
func (l *Logger) LogConverged(ctx context.Context, iteration int, converged bool, fitness, inlierRMSE float64) {
	l.InfoContext(ctx, "registration finished",
		"iteration", iteration,
		"converged", converged,
		"fitness", fitness,
		"inlier_rmse", inlierRMSE,
	)
}
