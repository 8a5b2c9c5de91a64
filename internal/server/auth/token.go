// Package auth holds the credential primitives: bcrypt password hashing, the
// memoized signing secret and the session token issuer.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserName  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TokenIssuer signs and verifies HS256 session tokens that expire ttl after
// issuance.
type TokenIssuer struct {
	secrets SecretProvider
	ttl     time.Duration
	now     func() time.Time
}

type TokenOption func(*TokenIssuer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) { t.now = now }
}

func NewTokenIssuer(secrets SecretProvider, ttl time.Duration, opts ...TokenOption) *TokenIssuer {
	t := &TokenIssuer{secrets: secrets, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue returns a token carrying id.
func (t *TokenIssuer) Issue(ctx context.Context, id models.Identity) (string, error) {
	secret, err := t.secrets.SigningSecret(ctx)
	if err != nil {
		return "", err
	}

	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserName:  id.UserName,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the identity carried by a valid token. Expired tokens fail
// with common.ErrTokenExpired, everything else that is not a valid token
// with common.ErrInvalidToken. Secret fetch failures are returned as is.
func (t *TokenIssuer) Verify(ctx context.Context, tokenString string) (models.Identity, error) {
	if tokenString == "" {
		return models.Identity{}, common.ErrMissingToken
	}

	secret, err := t.secrets.SigningSecret(ctx)
	if err != nil {
		return models.Identity{}, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, common.ErrTokenExpired
		}
		return models.Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserName == "" {
		return models.Identity{}, common.ErrInvalidToken
	}

	return models.Identity{
		UserName:  claims.UserName,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
