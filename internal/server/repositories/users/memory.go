package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

// MemoryRepository is a process-local store for development and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]models.User
	emails map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
	}
}

func (r *MemoryRepository) Register(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserName]; ok {
		return nil, common.ErrUsernameExists
	}
	if _, ok := r.emails[user.Email]; ok {
		return nil, common.ErrEmailExists
	}

	r.users[user.UserName] = *user
	r.emails[user.Email] = user.UserName

	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, userName string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userName]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	r.users[userName] = u

	return nil
}

// Counts reports how many user records and email markers are stored.
func (r *MemoryRepository) Counts() (users int, emails int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), len(r.emails)
}
