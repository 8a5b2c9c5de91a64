package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/storypoint/internal/server/gate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const msgUnauthorized = "Unauthorized"

// sessionInterceptor runs the gate for protected methods using the incoming
// metadata as request headers.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	headers := map[string]string{}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for k, v := range md {
			headers[k] = strings.Join(v, "; ")
		}
	}

	d := s.gate.Authorize(ctx, headers)
	if !d.Allow {
		return nil, status.Error(codes.Unauthenticated, msgUnauthorized)
	}

	return handler(gate.WithIdentity(ctx, d.Identity), req)
}
