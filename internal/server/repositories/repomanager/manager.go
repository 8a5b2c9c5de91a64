// Package repomanager vends the user and room stores for the configured
// backend and owns the backend's lifecycle (migrations and shutdown).
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storypoint/internal/server/repositories/rooms"
	"github.com/dmitrijs2005/storypoint/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Rooms() rooms.Repository
	Close() error
}
