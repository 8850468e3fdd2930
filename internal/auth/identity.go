// Package auth carries the caller identity derived from a bearer token through a request context.
package auth

import "context"

type identityKey struct{}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity attached to ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// IsAuthenticated reports whether ctx carries a caller identity.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}
