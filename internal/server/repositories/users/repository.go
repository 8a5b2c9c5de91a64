// Package users is the credential store gateway: the only code allowed to
// write user records and their email uniqueness markers.
//
// Email uniqueness is not enforced by any storage engine relationship. It
// holds because Register is the single write path for both keyspaces and
// commits them together, conditional on neither key existing. No other
// method may create or delete either record.
package users

import (
	"context"

	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

type Repository interface {
	// Register atomically stores user and its email marker. It fails with
	// common.ErrUsernameExists or common.ErrEmailExists (username wins when
	// both collide) and leaves nothing behind on any failure.
	Register(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns common.ErrorNotFound for unknown usernames.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)

	// UpdatePassword replaces the stored hash of an existing user and
	// returns common.ErrorNotFound otherwise. It never creates a record.
	UpdatePassword(ctx context.Context, userName string, passwordHash string) error
}
