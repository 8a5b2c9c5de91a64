package gate

import (
	"context"

	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

type identityKey struct{}

// WithIdentity attaches the identity of an allowed request to ctx.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}
