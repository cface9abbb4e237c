package service

import (
	"context"

	"transcatalog/internal/model"
)

type identityKey struct{}

// ContextWithIdentity attaches the authenticated caller to ctx.
func ContextWithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller attached by ContextWithIdentity.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(model.Identity)
	return id, ok
}

func requireIdentity(ctx context.Context) (model.Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.UserID == 0 {
		return model.Identity{}, ErrUnauthenticated
	}
	return id, nil
}
