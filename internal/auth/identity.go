package auth

import (
	"context"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
