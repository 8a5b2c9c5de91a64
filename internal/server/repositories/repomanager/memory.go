package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storypoint/internal/server/repositories/rooms"
	"github.com/dmitrijs2005/storypoint/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. Data is lost
// on restart.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
	rooms *rooms.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		rooms: rooms.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Users() users.Repository                 { return m.users }
func (m *InMemoryRepositoryManager) Rooms() rooms.Repository                 { return m.rooms }
func (m *InMemoryRepositoryManager) Close() error                            { return nil }
