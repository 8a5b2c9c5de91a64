package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storypoint/internal/server/repositories/rooms"
	"github.com/dmitrijs2005/storypoint/internal/server/repositories/users"
)

// Tables names the DynamoDB tables backing each store.
type Tables struct {
	Users      string
	UserEmails string
	Rooms      string
}

// DynamoRepositoryManager vends DynamoDB-backed repositories. Tables are
// provisioned outside the service, so there is nothing to migrate.
type DynamoRepositoryManager struct {
	users *users.DynamoRepository
	rooms *rooms.DynamoRepository
}

func NewDynamoRepositoryManager(client users.DynamoAPI, tables Tables) *DynamoRepositoryManager {
	return &DynamoRepositoryManager{
		users: users.NewDynamoRepository(client, tables.Users, tables.UserEmails),
		rooms: rooms.NewDynamoRepository(client, tables.Rooms),
	}
}

func (m *DynamoRepositoryManager) RunMigrations(ctx context.Context) error { return nil }
func (m *DynamoRepositoryManager) Users() users.Repository                 { return m.users }
func (m *DynamoRepositoryManager) Rooms() rooms.Repository                 { return m.rooms }
func (m *DynamoRepositoryManager) Close() error                            { return nil }
