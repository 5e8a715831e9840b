// Package rpcapi defines the gateway<->world RPC contract: the message
// types, the gob wire codec, and the two hand-written grpc.ServiceDesc
// values (GatewayManagement, SessionToWorld) that stand in for protoc
// output in an environment where protoc/buf cannot run. See
// wyldlands.proto for the canonical service definition and DESIGN.md
// for why the transport is built this way.
package rpcapi

import "github.com/google/uuid"

// AuthenticateGatewayRequest is GatewayManagement.AuthenticateGateway's input.
type AuthenticateGatewayRequest struct {
	AuthKey string
}

// AuthenticateGatewayResponse is GatewayManagement.AuthenticateGateway's output.
type AuthenticateGatewayResponse struct {
	Success bool
	Error   string
}

// GatewayHeartbeatRequest is GatewayManagement.GatewayHeartbeat's input.
type GatewayHeartbeatRequest struct {
	GatewayID string
}

// GatewayHeartbeatResponse is GatewayManagement.GatewayHeartbeat's output.
type GatewayHeartbeatResponse struct {
	Success bool
	Error   string
}

// CheckUsernameRequest is GatewayManagement.CheckUsername's input.
type CheckUsernameRequest struct {
	Username string
}

// CheckUsernameResponse is GatewayManagement.CheckUsername's output.
type CheckUsernameResponse struct {
	Available bool
	Error     string
}

// AccountProperties carries the optional account fields collected during
// the NewAccount login substate sequence.
type AccountProperties struct {
	Email    string
	Display  string
	Discord  string
	Timezone string
}

// CreateAccountRequest is GatewayManagement.CreateAccount's input.
type CreateAccountRequest struct {
	Address    string
	Username   string
	Password   string
	Properties AccountProperties
}

// CreateAccountResponse is GatewayManagement.CreateAccount's output.
type CreateAccountResponse struct {
	Success bool
	Account uuid.UUID
	Error   string
}

// FetchServerStatisticsRequest is GatewayManagement.FetchServerStatistics's input.
// An empty Names selects every published statistic.
type FetchServerStatisticsRequest struct {
	Names []string
}

// FetchServerStatisticsResponse is GatewayManagement.FetchServerStatistics's output.
type FetchServerStatisticsResponse struct {
	Statistics map[string]float64
}

// AuthenticateSessionRequest is SessionToWorld.AuthenticateSession's input.
type AuthenticateSessionRequest struct {
	SessionID  string
	Username   string
	Password   string
	ClientAddr string
}

// AuthenticateSessionResponse is SessionToWorld.AuthenticateSession's output.
type AuthenticateSessionResponse struct {
	Success bool
	Account uuid.UUID
	Error   string
}

// SendInputRequest is SessionToWorld.SendInput's input.
type SendInputRequest struct {
	SessionID string
	Command   string
}

// SendInputResponse is SessionToWorld.SendInput's output.
type SendInputResponse struct {
	Success bool
	Error   string
}
