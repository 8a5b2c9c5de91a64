package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegister(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Register(ctx, alice())
	require.NoError(t, err)

	tests := []struct {
		name string
		user *models.User
		want error
	}{
		{"same username", &models.User{UserName: "alice", Email: "other@b.com"}, common.ErrUsernameExists},
		{"same email", &models.User{UserName: "bob", Email: "a@b.com"}, common.ErrEmailExists},
		{"both collide", &models.User{UserName: "alice", Email: "a@b.com"}, common.ErrUsernameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Register(ctx, tt.user)
			require.ErrorIs(t, err, tt.want)

			users, emails := r.Counts()
			assert.Equal(t, 1, users)
			assert.Equal(t, 1, emails)
		})
	}
}

func TestMemoryRegister_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	const n = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Register(ctx, &models.User{UserName: fmt.Sprintf("user%d", i), Email: "same@b.com"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, common.ErrEmailExists):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	users, emails := r.Counts()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, emails)
}

func TestMemoryGetAndUpdate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.GetUserByLogin(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, r.UpdatePassword(ctx, "alice", "h"), common.ErrorNotFound)

	users, _ := r.Counts()
	require.Equal(t, 0, users, "update must not create records")

	_, err = r.Register(ctx, alice())
	require.NoError(t, err)

	require.NoError(t, r.UpdatePassword(ctx, "alice", "newhash"))
	got, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.Equal(t, "a@b.com", got.Email)

	got.PasswordHash = "mutated"
	again, _ := r.GetUserByLogin(ctx, "alice")
	assert.Equal(t, "newhash", again.PasswordHash)
}
