// Package logger is the process-wide structured logger: one JSON object per
// line on stdout, ready for the log collector. Request metadata (request id,
// authenticated user, service name) travels in the context; the *Context
// helpers lift it into log attributes so every line from a request carries
// the same correlation fields.
package logger

import (
	"context"
	"log/slog"
	"os"
)

type contextKey string

// Context keys populated by the HTTP middleware and auth layer.
const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	ServiceKey   contextKey = "service"
)

var contextKeys = []contextKey{RequestIDKey, UserIDKey, ServiceKey}

var base *slog.Logger

func init() {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// WithContext returns the base logger enriched with whichever correlation
// fields ctx carries.
func WithContext(ctx context.Context) *slog.Logger {
	l := base
	for _, key := range contextKeys {
		if v := ctx.Value(key); v != nil {
			l = l.With(string(key), v)
		}
	}
	return l
}

func Info(msg string, args ...any)  { base.Info(msg, args...) }
func Error(msg string, args ...any) { base.Error(msg, args...) }
func Debug(msg string, args ...any) { base.Debug(msg, args...) }
func Warn(msg string, args ...any)  { base.Warn(msg, args...) }

func InfoContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}
