package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const requestIDKey contextKey = iota

// GenerateRequestID returns a UUIDv7 string. One id is generated per CLI
// invocation, so the log lines of one run sort together.
func GenerateRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// WithRequestID returns a copy of ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// NewRequestContext returns a background context with a fresh request id.
func NewRequestContext() context.Context {
	return WithRequestID(context.Background(), GenerateRequestID())
}

// RequestIDFromContext returns the request id of ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LoggerFromContext returns the global logger, tagged with the request id
// of ctx when there is one.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With(KeyRequestID, id)
	}
	return logger
}
