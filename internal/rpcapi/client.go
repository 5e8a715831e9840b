package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// callOpts forces every invocation through the gob codec rather than grpc's
// default proto codec, since the messages in this package are plain structs.
var callOpts = []grpc.CallOption{grpc.CallContentSubtype(codecName)}

// GatewayManagementClient is the gateway-side stub for GatewayManagementServiceDesc.
type GatewayManagementClient struct {
	conn grpc.ClientConnInterface
}

// NewGatewayManagementClient wraps a dialed connection with the stub methods.
func NewGatewayManagementClient(conn grpc.ClientConnInterface) *GatewayManagementClient {
	return &GatewayManagementClient{conn: conn}
}

func (c *GatewayManagementClient) AuthenticateGateway(ctx context.Context, req *AuthenticateGatewayRequest) (*AuthenticateGatewayResponse, error) {
	out := new(AuthenticateGatewayResponse)
	if err := c.conn.Invoke(ctx, "/wyldlands.GatewayManagement/AuthenticateGateway", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GatewayManagementClient) GatewayHeartbeat(ctx context.Context, req *GatewayHeartbeatRequest) (*GatewayHeartbeatResponse, error) {
	out := new(GatewayHeartbeatResponse)
	if err := c.conn.Invoke(ctx, "/wyldlands.GatewayManagement/GatewayHeartbeat", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GatewayManagementClient) CheckUsername(ctx context.Context, req *CheckUsernameRequest) (*CheckUsernameResponse, error) {
	out := new(CheckUsernameResponse)
	if err := c.conn.Invoke(ctx, "/wyldlands.GatewayManagement/CheckUsername", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GatewayManagementClient) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreateAccountResponse, error) {
	out := new(CreateAccountResponse)
	if err := c.conn.Invoke(ctx, "/wyldlands.GatewayManagement/CreateAccount", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GatewayManagementClient) FetchServerStatistics(ctx context.Context, req *FetchServerStatisticsRequest) (*FetchServerStatisticsResponse, error) {
	out := new(FetchServerStatisticsResponse)
	if err := c.conn.Invoke(ctx, "/wyldlands.GatewayManagement/FetchServerStatistics", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionToWorldClient is the gateway-side stub for SessionToWorldServiceDesc.
type SessionToWorldClient struct {
	conn grpc.ClientConnInterface
}

// NewSessionToWorldClient wraps a dialed connection with the stub methods.
func NewSessionToWorldClient(conn grpc.ClientConnInterface) *SessionToWorldClient {
	return &SessionToWorldClient{conn: conn}
}

func (c *SessionToWorldClient) AuthenticateSession(ctx context.Context, req *AuthenticateSessionRequest) (*AuthenticateSessionResponse, error) {
	out := new(AuthenticateSessionResponse)
	if err := c.conn.Invoke(ctx, "/wyldlands.SessionToWorld/AuthenticateSession", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionToWorldClient) SendInput(ctx context.Context, req *SendInputRequest) (*SendInputResponse, error) {
	out := new(SendInputResponse)
	if err := c.conn.Invoke(ctx, "/wyldlands.SessionToWorld/SendInput", req, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}
