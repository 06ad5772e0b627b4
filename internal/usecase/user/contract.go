package user

import (
	"context"

	domuser "github.com/kailas-cloud/msgsearch/internal/domain/user"
)

// Directory resolves a user id against the external user directory.
// token, when non-empty, replaces the configured credentials for that call.
type Directory interface {
	LookupUser(ctx context.Context, id, token string) (domuser.User, error)
}

// Cache stores resolved and fallback identities.
type Cache interface {
	Get(ctx context.Context, id string) (domuser.User, bool)
	Put(ctx context.Context, u domuser.User)
}
