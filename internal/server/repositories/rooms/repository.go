// Package rooms stores estimation rooms created by signed-in users.
package rooms

import (
	"context"

	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, room *models.Room) (*models.Room, error)
	// GetByID returns common.ErrorNotFound for unknown rooms.
	GetByID(ctx context.Context, roomID string) (*models.Room, error)
}
