package rooms

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rooms: make(map[string]models.Room)}
}

func (r *MemoryRepository) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.RoomID] = *room
	return room, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &room, nil
}
