// Package vault fetches the session signing secret from where it is kept:
// AWS Secrets Manager, an S3 object, or a static value for development.
//
// The stored value is either a JSON document {"secret": "..."} or the bare
// secret. Sources never cache; caching belongs to the caller.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storypoint/internal/common"
)

// Source returns the current signing secret.
type Source interface {
	FetchSecret(ctx context.Context) (string, error)
}

type secretDocument struct {
	Secret *string `json:"secret"`
}

// ParseSecret extracts the secret from a stored value.
func ParseSecret(raw string) (string, error) {
	var doc secretDocument
	if err := json.Unmarshal([]byte(raw), &doc); err == nil && doc.Secret != nil {
		if *doc.Secret == "" {
			return "", common.ErrEmptySecret
		}
		return *doc.Secret, nil
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return "", common.ErrEmptySecret
	}
	return s, nil
}

// StaticSource serves a fixed secret from configuration.
type StaticSource string

func (s StaticSource) FetchSecret(ctx context.Context) (string, error) {
	secret, err := ParseSecret(string(s))
	if err != nil {
		return "", fmt.Errorf("static secret: %w", err)
	}
	return secret, nil
}
