package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/dmitrijs2005/storypoint/internal/server/repositories/rooms"
	"github.com/google/uuid"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomService struct {
	rooms        rooms.Repository
	logger       logging.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

func NewRoomService(repo rooms.Repository, logger logging.Logger, opts ...Option) *RoomService {
	o := buildOptions(opts)
	return &RoomService{
		rooms:        repo,
		logger:       logger.With("module", "rooms"),
		storeTimeout: o.storeTimeout,
		now:          o.now,
	}
}

func (s *RoomService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout > 0 {
		return context.WithTimeout(ctx, s.storeTimeout)
	}
	return ctx, func() {}
}

// CreateRoom opens a new room owned by owner.
func (s *RoomService) CreateRoom(ctx context.Context, owner string, req CreateRoomRequest) (*models.Room, error) {
	if err := check(req, createRoomRules); err != nil {
		return nil, err
	}

	room := &models.Room{
		RoomID:        uuid.NewString(),
		Name:          req.Name,
		OwnerUserName: owner,
		CreatedAt:     s.now().UnixMilli(),
		Status:        models.RoomStatusOpen,
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if _, err := s.rooms.Create(sctx, room); err != nil {
		s.logger.Error(ctx, "room creation failed", "owner", owner, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "room created", "roomId", room.RoomID, "owner", owner)
	return room, nil
}

// GetRoom returns ErrRoomNotFound for unknown or malformed ids.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	if _, err := uuid.Parse(roomID); err != nil {
		return nil, ErrRoomNotFound
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	room, err := s.rooms.GetByID(sctx, roomID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error(ctx, "room lookup failed", "roomId", roomID, "error", err)
		return nil, common.ErrorInternal
	}
	return room, nil
}
