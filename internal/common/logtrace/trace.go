package logtrace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// WithRequestId returns a context carrying the given request id.
func WithRequestId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIdFromContext extracts the request ID from the context.
// Returns an empty string if the context is nil or if no request ID is found.
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return ""
	}
	return r
}

// EnsureRequestId returns ctx and its request id, generating and attaching a new
// one when ctx has none.
func EnsureRequestId(ctx context.Context) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id := RequestIdFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestId(ctx, id), id
}
