// Package grpc exposes the account and room flows as the storypoint.Auth
// gRPC service, with the authorization gate as a unary interceptor.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/gate"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/dmitrijs2005/storypoint/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type UserFlows interface {
	SignUp(ctx context.Context, req services.SignUpRequest) (*services.Session, error)
	LogIn(ctx context.Context, req services.LogInRequest) (*services.Session, error)
	ChangePassword(ctx context.Context, userName string, req services.ChangePasswordRequest) error
}

type RoomFlows interface {
	CreateRoom(ctx context.Context, owner string, req services.CreateRoomRequest) (*models.Room, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, headers map[string]string) gate.Decision
}

type GRPCServer struct {
	address string
	users   UserFlows
	rooms   RoomFlows
	gate    Authorizer
	cookie  gate.CookiePolicy
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us UserFlows, rs RoomFlows, g Authorizer, cookie gate.CookiePolicy) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		rooms:   rs,
		gate:    g,
		cookie:  cookie,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.sessionInterceptor))
	registerAuthServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
