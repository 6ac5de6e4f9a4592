package shared

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/aicms/aicms-api/internal/domain"
)

// ContextKey is the type of request context keys set by the API layer.
type ContextKey string

// Context keys for request-scoped values.
const (
	// UserContextKey holds the authenticated *domain.User.
	UserContextKey ContextKey = "user"

	// TraceIDKey holds the request trace ID.
	TraceIDKey ContextKey = "traceID"

	// DebugKey marks requests whose error responses include debug detail.
	DebugKey ContextKey = "debug"
)

// SetTraceID adds a new trace ID to the context.
// Trace IDs are ULIDs, so they sort by request start time.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, ulid.Make().String())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok && user != nil
}

// WithDebug marks the context so error responses carry stack and method.
func WithDebug(ctx context.Context) context.Context {
	return context.WithValue(ctx, DebugKey, true)
}

// IsDebug reports whether WithDebug was applied.
func IsDebug(ctx context.Context) bool {
	debug, _ := ctx.Value(DebugKey).(bool)
	return debug
}
