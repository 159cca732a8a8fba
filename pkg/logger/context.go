package logger

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// With returns a new context that includes a logger with fields.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, loggerKey{}, l)
}

// From returns the logger stored in context, or the process logger if missing.
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return LoggerWrapper()
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}

// Discard is a logger that drops everything. Handy for tests and CLI helpers.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
