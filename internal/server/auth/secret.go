package auth

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/vault"
)

// SecretProvider supplies the key used to sign and verify session tokens.
type SecretProvider interface {
	SigningSecret(ctx context.Context) ([]byte, error)
}

// SecretCache memoizes the first successful vault fetch for the life of the
// process. Concurrent first callers may each fetch; any of their results is
// acceptable because the vault returns the same value. Failures are not
// cached.
type SecretCache struct {
	source vault.Source
	secret atomic.Pointer[[]byte]
}

func NewSecretCache(source vault.Source) *SecretCache {
	return &SecretCache{source: source}
}

func (c *SecretCache) SigningSecret(ctx context.Context) ([]byte, error) {
	if p := c.secret.Load(); p != nil {
		return *p, nil
	}

	s, err := c.source.FetchSecret(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch signing secret: %w", err)
	}
	if s == "" {
		return nil, common.ErrEmptySecret
	}

	b := []byte(s)
	if !c.secret.CompareAndSwap(nil, &b) {
		return *c.secret.Load(), nil
	}
	return b, nil
}
