package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// GatewayManagementServer is implemented by the world process; it answers
// the gateway's account/session-independent management calls.
type GatewayManagementServer interface {
	AuthenticateGateway(context.Context, *AuthenticateGatewayRequest) (*AuthenticateGatewayResponse, error)
	GatewayHeartbeat(context.Context, *GatewayHeartbeatRequest) (*GatewayHeartbeatResponse, error)
	CheckUsername(context.Context, *CheckUsernameRequest) (*CheckUsernameResponse, error)
	CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error)
	FetchServerStatistics(context.Context, *FetchServerStatisticsRequest) (*FetchServerStatisticsResponse, error)
}

// SessionToWorldServer is implemented by the world process; it answers the
// per-connection calls a gateway session makes on behalf of a player.
type SessionToWorldServer interface {
	AuthenticateSession(context.Context, *AuthenticateSessionRequest) (*AuthenticateSessionResponse, error)
	SendInput(context.Context, *SendInputRequest) (*SendInputResponse, error)
}

func gatewayManagementAuthenticateGatewayHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AuthenticateGatewayRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayManagementServer).AuthenticateGateway(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/wyldlands.GatewayManagement/AuthenticateGateway"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GatewayManagementServer).AuthenticateGateway(ctx, req.(*AuthenticateGatewayRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func gatewayManagementGatewayHeartbeatHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GatewayHeartbeatRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayManagementServer).GatewayHeartbeat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/wyldlands.GatewayManagement/GatewayHeartbeat"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GatewayManagementServer).GatewayHeartbeat(ctx, req.(*GatewayHeartbeatRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func gatewayManagementCheckUsernameHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CheckUsernameRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayManagementServer).CheckUsername(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/wyldlands.GatewayManagement/CheckUsername"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GatewayManagementServer).CheckUsername(ctx, req.(*CheckUsernameRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func gatewayManagementCreateAccountHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateAccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayManagementServer).CreateAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/wyldlands.GatewayManagement/CreateAccount"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GatewayManagementServer).CreateAccount(ctx, req.(*CreateAccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func gatewayManagementFetchServerStatisticsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FetchServerStatisticsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayManagementServer).FetchServerStatistics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/wyldlands.GatewayManagement/FetchServerStatistics"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GatewayManagementServer).FetchServerStatistics(ctx, req.(*FetchServerStatisticsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// GatewayManagementServiceDesc is the hand-written grpc.ServiceDesc that a
// protoc-generated *_grpc.pb.go would otherwise supply. RegisterGatewayManagementServer
// is its registration helper.
var GatewayManagementServiceDesc = grpc.ServiceDesc{
	ServiceName: "wyldlands.GatewayManagement",
	HandlerType: (*GatewayManagementServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AuthenticateGateway", Handler: gatewayManagementAuthenticateGatewayHandler},
		{MethodName: "GatewayHeartbeat", Handler: gatewayManagementGatewayHeartbeatHandler},
		{MethodName: "CheckUsername", Handler: gatewayManagementCheckUsernameHandler},
		{MethodName: "CreateAccount", Handler: gatewayManagementCreateAccountHandler},
		{MethodName: "FetchServerStatistics", Handler: gatewayManagementFetchServerStatisticsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wyldlands.proto",
}

// RegisterGatewayManagementServer registers srv on s the way a generated
// RegisterGatewayManagementServer function would.
func RegisterGatewayManagementServer(s grpc.ServiceRegistrar, srv GatewayManagementServer) {
	s.RegisterService(&GatewayManagementServiceDesc, srv)
}

func sessionToWorldAuthenticateSessionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AuthenticateSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionToWorldServer).AuthenticateSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/wyldlands.SessionToWorld/AuthenticateSession"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionToWorldServer).AuthenticateSession(ctx, req.(*AuthenticateSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func sessionToWorldSendInputHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SendInputRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionToWorldServer).SendInput(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/wyldlands.SessionToWorld/SendInput"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionToWorldServer).SendInput(ctx, req.(*SendInputRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SessionToWorldServiceDesc is the hand-written grpc.ServiceDesc for the
// per-connection session calls.
var SessionToWorldServiceDesc = grpc.ServiceDesc{
	ServiceName: "wyldlands.SessionToWorld",
	HandlerType: (*SessionToWorldServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AuthenticateSession", Handler: sessionToWorldAuthenticateSessionHandler},
		{MethodName: "SendInput", Handler: sessionToWorldSendInputHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wyldlands.proto",
}

// RegisterSessionToWorldServer registers srv on s the way a generated
// RegisterSessionToWorldServer function would.
func RegisterSessionToWorldServer(s grpc.ServiceRegistrar, srv SessionToWorldServer) {
	s.RegisterService(&SessionToWorldServiceDesc, srv)
}
