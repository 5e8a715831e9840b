// Package rpcserver implements the world process's two gRPC-shaped
// services (internal/rpcapi.GatewayManagementServer,
// internal/rpcapi.SessionToWorldServer), dispatching into
// internal/world/command.Registry the way the teacher's
// internal/net/server.go dispatches accepted connections into
// internal/handler.
package rpcserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/huhlig/wyldlands-go/internal/rpcapi"
	"github.com/huhlig/wyldlands-go/internal/world/command"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/persist"
)

// sessionBinding is what a successfully authenticated session_id resolves to.
type sessionBinding struct {
	entity ecs.EntityID
	role   command.Role
}

// Server implements both rpcapi service interfaces over one world process.
type Server struct {
	authKey  string
	world    *ecs.World
	registry *command.Registry
	deps     *command.Deps
	persist  *persist.Manager
	log      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]sessionBinding
}

// New builds a Server. authKey is the shared secret AuthenticateGateway
// validates (spec §6); deps/registry/persist wire straight into the command
// dispatcher and the persistence manager built at boot.
func New(authKey string, world *ecs.World, registry *command.Registry, deps *command.Deps, pm *persist.Manager, log *zap.Logger) *Server {
	return &Server{
		authKey:  authKey,
		world:    world,
		registry: registry,
		deps:     deps,
		persist:  pm,
		log:      log,
		sessions: make(map[string]sessionBinding),
	}
}

func (s *Server) AuthenticateGateway(ctx context.Context, req *rpcapi.AuthenticateGatewayRequest) (*rpcapi.AuthenticateGatewayResponse, error) {
	if s.authKey == "" || req.AuthKey != s.authKey {
		return &rpcapi.AuthenticateGatewayResponse{Success: false, Error: "invalid auth key"}, nil
	}
	return &rpcapi.AuthenticateGatewayResponse{Success: true}, nil
}

func (s *Server) GatewayHeartbeat(ctx context.Context, req *rpcapi.GatewayHeartbeatRequest) (*rpcapi.GatewayHeartbeatResponse, error) {
	s.log.Debug("gateway heartbeat", zap.String("gateway_id", req.GatewayID))
	return &rpcapi.GatewayHeartbeatResponse{Success: true}, nil
}

func (s *Server) CheckUsername(ctx context.Context, req *rpcapi.CheckUsernameRequest) (*rpcapi.CheckUsernameResponse, error) {
	available, err := s.persist.AccountAvailable(ctx, req.Username)
	if err != nil {
		return &rpcapi.CheckUsernameResponse{Error: err.Error()}, nil
	}
	return &rpcapi.CheckUsernameResponse{Available: available}, nil
}

func (s *Server) CreateAccount(ctx context.Context, req *rpcapi.CreateAccountRequest) (*rpcapi.CreateAccountResponse, error) {
	acct, err := s.persist.CreateAccount(ctx, req.Address, req.Username, req.Password, req.Properties)
	if err != nil {
		if errors.Is(err, persist.ErrUsernameTaken) {
			return &rpcapi.CreateAccountResponse{Error: err.Error()}, nil
		}
		s.log.Warn("create_account failed", zap.Error(err))
		return &rpcapi.CreateAccountResponse{Error: "internal error"}, nil
	}
	return &rpcapi.CreateAccountResponse{Success: true, Account: acct.ID}, nil
}

func (s *Server) FetchServerStatistics(ctx context.Context, req *rpcapi.FetchServerStatisticsRequest) (*rpcapi.FetchServerStatisticsResponse, error) {
	all := map[string]float64{
		"entities_registered": float64(s.world.Registry().Len()),
	}
	if len(req.Names) == 0 {
		return &rpcapi.FetchServerStatisticsResponse{Statistics: all}, nil
	}
	out := make(map[string]float64, len(req.Names))
	for _, n := range req.Names {
		if v, ok := all[n]; ok {
			out[n] = v
		}
	}
	return &rpcapi.FetchServerStatisticsResponse{Statistics: out}, nil
}

// AuthenticateSession validates credentials, then binds the session id to
// the account's avatar entity, creating one on first login. This is the
// clean resolution of the placeholder-id open question in DESIGN.md:
// CreateCharacter returns the real entity id, which is what gets bound.
func (s *Server) AuthenticateSession(ctx context.Context, req *rpcapi.AuthenticateSessionRequest) (*rpcapi.AuthenticateSessionResponse, error) {
	acct, err := s.persist.Authenticate(ctx, req.ClientAddr, req.Username, req.Password)
	if err != nil {
		return &rpcapi.AuthenticateSessionResponse{Error: err.Error()}, nil
	}

	stableID, found, err := s.persist.FindAvatarEntity(ctx, acct.ID)
	if err != nil {
		s.log.Warn("find avatar entity failed", zap.Error(err))
		return &rpcapi.AuthenticateSessionResponse{Error: "internal error"}, nil
	}
	if !found {
		stableID, err = s.persist.CreateCharacter(ctx, acct.ID, acct.Username)
		if err != nil {
			s.log.Warn("create_character failed", zap.Error(err))
			return &rpcapi.AuthenticateSessionResponse{Error: "internal error"}, nil
		}
	}

	s.world.RLock()
	handle, alreadyBound := s.world.Registry().Resolve(stableID)
	s.world.RUnlock()
	if !alreadyBound {
		handle = s.persist.BindAvatar(stableID, s.world)
	}

	s.mu.Lock()
	s.sessions[req.SessionID] = sessionBinding{entity: handle, role: acct.Role}
	s.mu.Unlock()

	return &rpcapi.AuthenticateSessionResponse{Success: true, Account: acct.ID}, nil
}

// SendInput is the fast path every Playing-state keystroke takes (spec
// §4.1). An empty trimmed line is a no-op, matching the gateway's contract
// so idle newlines never reach the command dispatcher.
func (s *Server) SendInput(ctx context.Context, req *rpcapi.SendInputRequest) (*rpcapi.SendInputResponse, error) {
	line := strings.TrimSpace(req.Command)
	if line == "" {
		return &rpcapi.SendInputResponse{Success: true}, nil
	}

	s.mu.RLock()
	binding, ok := s.sessions[req.SessionID]
	s.mu.RUnlock()
	if !ok {
		return &rpcapi.SendInputResponse{Error: "session not authenticated"}, nil
	}

	fields := strings.Fields(line)
	verb, args := fields[0], fields[1:]

	cmdCtx := &command.Context{Deps: s.deps, AccountRole: binding.role}
	output, err := s.registry.Execute(cmdCtx, binding.entity, verb, args)
	if err != nil {
		if errors.Is(err, command.ErrUnknownCommand) || errors.Is(err, command.ErrPermissionDenied) {
			return &rpcapi.SendInputResponse{Error: err.Error()}, nil
		}
		return &rpcapi.SendInputResponse{Error: fmt.Sprintf("command failed: %v", err)}, nil
	}
	_ = output // delivered to the player over the gateway's own push channel, not this RPC's return value
	return &rpcapi.SendInputResponse{Success: true}, nil
}
