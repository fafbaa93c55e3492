package domain

import (
	"context"
	"time"
)

// Identity is the authenticated caller as asserted by the identity provider.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// TokenVerifier validates a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// TokenIssuer issues tokens for an identity. Used by tooling and tests; end
// users obtain tokens from the external identity provider.
type TokenIssuer interface {
	Issue(identity Identity, expiry time.Duration) (string, error)
}

type identityKey struct{}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity set by WithIdentity.
// It returns ErrUnauthorized when the context carries none.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}
