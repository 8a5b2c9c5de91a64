package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/services"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	s := newTestServer(&recordingGate{})

	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"validation", &services.ValidationError{Message: services.MsgInvalidEmail}, codes.InvalidArgument, services.MsgInvalidEmail},
		{"username conflict", &services.ConflictError{Field: "username"}, codes.AlreadyExists, "Username already exists"},
		{"email conflict", &services.ConflictError{Field: "email"}, codes.AlreadyExists, "Email already exists"},
		{"credentials", common.ErrInvalidCredentials, codes.InvalidArgument, services.MsgInvalidCredentials},
		{"internal", common.ErrorInternal, codes.Internal, services.MsgInternal},
		{"wrapped unknown", fmt.Errorf("boom: %w", errors.New("connection reset")), codes.Internal, services.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.toStatus(context.Background(), tt.err)
			st := status.Convert(err)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestProtectedHandlers_RequireIdentity(t *testing.T) {
	s := newTestServer(&recordingGate{})

	_, err := s.ChangePassword(context.Background(), &services.ChangePasswordRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = s.CreateRoom(context.Background(), &services.CreateRoomRequest{Name: "x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
