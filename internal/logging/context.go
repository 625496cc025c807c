package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

// contextKey is a type for context keys used by this package.
type contextKey int

const (
	traceIDKey contextKey = iota
)

// GenerateTraceID creates a new trace ID.
// Format: 16 character hex string (8 random bytes).
func GenerateTraceID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}

// WithTraceID returns a new context carrying the given trace ID. Each poll
// pass and each user action gets its own ID so device calls can be grouped.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// NewTraceContext derives a context with a fresh trace ID.
func NewTraceContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return WithTraceID(parent, GenerateTraceID())
}

// TraceIDFromContext extracts the trace ID from the context.
// Returns empty string if none is set.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

// LoggerFromContext returns a logger tagged with the context's trace ID.
// If no trace ID is in the context, returns the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		logger = logger.With(KeyTraceID, traceID)
	}
	return logger
}
