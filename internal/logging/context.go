package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// HeaderRequestID is the header used to carry request IDs between tiers.
const HeaderRequestID = "X-Request-ID"

// ContextWithRequestID stores id on ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// RequestIDFromContext returns the request ID stored on ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// Ctx returns base enriched with the request ID found on ctx.
func Ctx(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	l := base
	if id := RequestIDFromContext(ctx); id != "" {
		l = base.With().Str("request_id", id).Logger()
	}
	return &l
}
