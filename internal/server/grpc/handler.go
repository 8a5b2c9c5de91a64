package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/gate"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/dmitrijs2005/storypoint/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// toStatus maps a flow error onto a gRPC status with a public message.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var ve *services.ValidationError
	var ce *services.ConflictError

	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Message)
	case errors.As(err, &ce):
		return status.Error(codes.AlreadyExists, ce.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.InvalidArgument, services.MsgInvalidCredentials)
	}

	if !errors.Is(err, common.ErrorInternal) {
		s.logger.Error(ctx, "unhandled error", "error", err)
	}
	return status.Error(codes.Internal, services.MsgInternal)
}

func (s *GRPCServer) sendSessionCookie(ctx context.Context, token string) {
	c := s.cookie.Cookie(token)
	if err := grpc.SetHeader(ctx, metadata.Pairs("set-cookie", c.String())); err != nil {
		s.logger.Warn(ctx, "set-cookie header not sent", "error", err)
	}
}

func (s *GRPCServer) SignUp(ctx context.Context, req *services.SignUpRequest) (*SessionReply, error) {
	sess, err := s.users.SignUp(ctx, *req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.sendSessionCookie(ctx, sess.Token)
	return &SessionReply{Message: "User registered successfully", User: sess.User}, nil
}

func (s *GRPCServer) LogIn(ctx context.Context, req *services.LogInRequest) (*SessionReply, error) {
	sess, err := s.users.LogIn(ctx, *req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.sendSessionCookie(ctx, sess.Token)
	return &SessionReply{Message: "Logged in successfully", User: sess.User}, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *services.ChangePasswordRequest) (*MessageReply, error) {
	id, ok := gate.IdentityFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, msgUnauthorized)
	}

	if err := s.users.ChangePassword(ctx, id.UserName, *req); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &MessageReply{Message: "Password updated successfully"}, nil
}

func (s *GRPCServer) CreateRoom(ctx context.Context, req *services.CreateRoomRequest) (*models.Room, error) {
	id, ok := gate.IdentityFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, msgUnauthorized)
	}

	room, err := s.rooms.CreateRoom(ctx, id.UserName, *req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return room, nil
}
