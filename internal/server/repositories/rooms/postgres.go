package rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/dbx"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

const (
	insertRoomQuery = `INSERT INTO rooms (room_id, name, owner_username, created_at, status)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	selectRoomQuery = `SELECT room_id, name, owner_username, created_at, status FROM rooms
		 WHERE room_id = $1
		 `
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	_, err := r.db.ExecContext(ctx, insertRoomQuery,
		room.RoomID, room.Name, room.OwnerUserName, room.CreatedAt, string(room.Status))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return room, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	room := &models.Room{}
	var status string
	err := r.db.QueryRowContext(ctx, selectRoomQuery, roomID).
		Scan(&room.RoomID, &room.Name, &room.OwnerUserName, &room.CreatedAt, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	room.Status = models.RoomStatus(status)
	return room, nil
}
