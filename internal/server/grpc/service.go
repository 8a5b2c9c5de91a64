package grpc

import (
	"context"

	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/dmitrijs2005/storypoint/internal/server/services"
	"google.golang.org/grpc"
)

const serviceName = "storypoint.Auth"

const (
	methodSignUp         = "/" + serviceName + "/SignUp"
	methodLogIn          = "/" + serviceName + "/LogIn"
	methodChangePassword = "/" + serviceName + "/ChangePassword"
	methodCreateRoom     = "/" + serviceName + "/CreateRoom"
)

// protectedMethods pass through the authorization gate.
var protectedMethods = map[string]bool{
	methodChangePassword: true,
	methodCreateRoom:     true,
}

type SessionReply struct {
	Message string          `json:"message"`
	User    models.Identity `json:"user"`
}

type MessageReply struct {
	Message string `json:"message"`
}

// AuthServer is the server API of the storypoint.Auth service.
type AuthServer interface {
	SignUp(ctx context.Context, req *services.SignUpRequest) (*SessionReply, error)
	LogIn(ctx context.Context, req *services.LogInRequest) (*SessionReply, error)
	ChangePassword(ctx context.Context, req *services.ChangePasswordRequest) (*MessageReply, error)
	CreateRoom(ctx context.Context, req *services.CreateRoomRequest) (*models.Room, error)
}

func registerAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&authServiceDesc, srv)
}

// unary adapts a typed method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](fullMethod string, call func(AuthServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unary(methodSignUp, AuthServer.SignUp)},
		{MethodName: "LogIn", Handler: unary(methodLogIn, AuthServer.LogIn)},
		{MethodName: "ChangePassword", Handler: unary(methodChangePassword, AuthServer.ChangePassword)},
		{MethodName: "CreateRoom", Handler: unary(methodCreateRoom, AuthServer.CreateRoom)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storypoint/auth",
}

// AuthClient calls storypoint.Auth over an established connection.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) SignUp(ctx context.Context, req *services.SignUpRequest, opts ...grpc.CallOption) (*SessionReply, error) {
	return invoke[SessionReply](ctx, c.cc, methodSignUp, req, opts...)
}

func (c *AuthClient) LogIn(ctx context.Context, req *services.LogInRequest, opts ...grpc.CallOption) (*SessionReply, error) {
	return invoke[SessionReply](ctx, c.cc, methodLogIn, req, opts...)
}

func (c *AuthClient) ChangePassword(ctx context.Context, req *services.ChangePasswordRequest, opts ...grpc.CallOption) (*MessageReply, error) {
	return invoke[MessageReply](ctx, c.cc, methodChangePassword, req, opts...)
}

func (c *AuthClient) CreateRoom(ctx context.Context, req *services.CreateRoomRequest, opts ...grpc.CallOption) (*models.Room, error) {
	return invoke[models.Room](ctx, c.cc, methodCreateRoom, req, opts...)
}
