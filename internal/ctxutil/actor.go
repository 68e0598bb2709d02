// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the acting technician.
type ActorKey struct{}

// RequestIDKey is the context key for the outbound request ID.
type RequestIDKey struct{}

// WithActor returns a context carrying the technician name used for claims
// and work-record ownership checks.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ActorKey{}, name)
}

// ActorFromContext returns the technician name, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID pins the X-Request-ID sent on every backend call made with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, id)
}

// RequestIDFromContext returns the pinned request ID, or empty string.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return v
	}
	return ""
}
