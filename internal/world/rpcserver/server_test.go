package rpcserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huhlig/wyldlands-go/internal/rpcapi"
	"github.com/huhlig/wyldlands-go/internal/world/command"
	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
	"github.com/huhlig/wyldlands-go/internal/world/event"
)

func TestAuthenticateGatewayRejectsWrongKey(t *testing.T) {
	world := ecs.NewWorld()
	reg := command.NewRegistry()
	deps := &command.Deps{World: world, Stores: component.NewStores(world.Registry()), Bus: event.NewBus()}
	s := New("correct-key", world, reg, deps, nil, zap.NewNop())

	resp, err := s.AuthenticateGateway(context.Background(), &rpcapi.AuthenticateGatewayRequest{AuthKey: "wrong"})
	require.NoError(t, err)
	require.False(t, resp.Success)
}

func TestSendInputRejectsUnauthenticatedSession(t *testing.T) {
	world := ecs.NewWorld()
	reg := command.NewRegistry()
	deps := &command.Deps{World: world, Stores: component.NewStores(world.Registry()), Bus: event.NewBus()}
	s := New("key", world, reg, deps, nil, zap.NewNop())

	resp, err := s.SendInput(context.Background(), &rpcapi.SendInputRequest{SessionID: "nope", Command: "look"})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "not authenticated")
}

func TestSendInputEmptyLineIsNoOp(t *testing.T) {
	world := ecs.NewWorld()
	reg := command.NewRegistry()
	deps := &command.Deps{World: world, Stores: component.NewStores(world.Registry()), Bus: event.NewBus()}
	s := New("key", world, reg, deps, nil, zap.NewNop())

	resp, err := s.SendInput(context.Background(), &rpcapi.SendInputRequest{SessionID: "anything", Command: "   "})
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func TestSendInputDispatchesRegisteredVerb(t *testing.T) {
	world := ecs.NewWorld()
	reg := command.NewRegistry()
	var invoked bool
	reg.Register(command.Verb{Canonical: "look", Handler: func(ctx *command.Context, e ecs.EntityID, c string, args []string) (string, error) {
		invoked = true
		return "a room", nil
	}})
	deps := &command.Deps{World: world, Stores: component.NewStores(world.Registry()), Bus: event.NewBus()}
	s := New("key", world, reg, deps, nil, zap.NewNop())

	handle := world.CreateEntity()
	s.mu.Lock()
	s.sessions["sess-1"] = sessionBinding{entity: handle, role: command.Player}
	s.mu.Unlock()

	resp, err := s.SendInput(context.Background(), &rpcapi.SendInputRequest{SessionID: "sess-1", Command: "look"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.True(t, invoked)
}
