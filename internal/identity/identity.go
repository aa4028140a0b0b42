// Package identity carries the acting user through a request context.
// Authentication happens upstream; this package only transports the result.
package identity

import "context"

type ctxKey struct{}

// WithUser returns a context carrying userID. An empty id leaves ctx unchanged.
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, userID)
}

// FromContext returns the acting user, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
