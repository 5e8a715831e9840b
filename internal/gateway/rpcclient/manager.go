// Package rpcclient owns the gateway's single logical connection to the
// world process: two multiplexed client handles, a reconnection loop, a
// heartbeat loop, and a bounded command queue with head-drop backpressure
// (spec §4.2). The per-concern-goroutine shape mirrors the teacher's
// Session.Start (internal/net/session.go: one goroutine for reading, one
// for writing, each touching only the state it owns).
package rpcclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/huhlig/wyldlands-go/internal/config"
	"github.com/huhlig/wyldlands-go/internal/rpcapi"
)

// State is the manager's connection state machine.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// queuedCommand is one FIFO entry awaiting delivery.
type queuedCommand struct {
	sessionID string
	command   string
	queuedAt  time.Time
}

// QueueStats is the read-only snapshot queue_stats() exposes.
type QueueStats struct {
	Depth   int
	Dropped uint64
}

// Manager is the gateway's RPC client manager. Its mutable concerns are
// guarded by three separate locks (one shared by the two client handles,
// one for the connection state, one for the command queue) to minimize
// contention between the session goroutines issuing fast-path calls and
// the two background loops.
type Manager struct {
	cfg config.WorldConnConfig
	log *zap.Logger

	clientsMu sync.RWMutex
	conn      *grpc.ClientConn
	gateway   *rpcapi.GatewayManagementClient
	session   *rpcapi.SessionToWorldClient

	stateMu sync.RWMutex
	state   State

	queueMu sync.Mutex
	queue   []queuedCommand
	dropped uint64
}

// New builds a disconnected Manager. Call Run to start its background loops.
func New(cfg config.WorldConnConfig, log *zap.Logger) *Manager {
	return &Manager{cfg: cfg, log: log, state: Disconnected}
}

func (m *Manager) State() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *Manager) IsConnected() bool {
	return m.State() == Connected
}

func (m *Manager) setState(s State) {
	m.stateMu.Lock()
	m.state = s
	m.stateMu.Unlock()
}

// GatewayClient returns the GatewayManagement stub, or nil if disconnected.
func (m *Manager) GatewayClient() *rpcapi.GatewayManagementClient {
	m.clientsMu.RLock()
	defer m.clientsMu.RUnlock()
	return m.gateway
}

// SessionClient returns the SessionToWorld stub, or nil if disconnected.
func (m *Manager) SessionClient() *rpcapi.SessionToWorldClient {
	m.clientsMu.RLock()
	defer m.clientsMu.RUnlock()
	return m.session
}

// QueueStats returns a snapshot of the command queue's depth and lifetime drop count.
func (m *Manager) QueueStats() QueueStats {
	m.queueMu.Lock()
	defer m.queueMu.Unlock()
	return QueueStats{Depth: len(m.queue), Dropped: m.dropped}
}

// dial opens the connection and authenticates the gateway, matching the
// keepalive/window-size/timeout parameters spec §7.1 derives from the
// channel configuration. Grounded on
// louisbranch-fracturing.space/internal/platform/grpc/dial.go's
// DefaultClientDialOptions/DialWithHealth shape, minus the OTel handler
// (no tracing dependency is wired in this pack) and swapped to the gob
// codec this contract uses instead of protobuf.
func (m *Manager) dial(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, m.cfg.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype("gob")),
		grpc.WithInitialWindowSize(m.cfg.WindowSizeBytes),
		grpc.WithInitialConnWindowSize(m.cfg.WindowSizeBytes),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                m.cfg.HTTP2KeepaliveTime,
			Timeout:             m.cfg.HTTP2KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return fmt.Errorf("dial world: %w", err)
	}

	gatewayClient := rpcapi.NewGatewayManagementClient(conn)
	authCtx, authCancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
	defer authCancel()
	resp, err := gatewayClient.AuthenticateGateway(authCtx, &rpcapi.AuthenticateGatewayRequest{AuthKey: m.cfg.AuthKey})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("authenticate gateway: %w", err)
	}
	if !resp.Success {
		_ = conn.Close()
		return fmt.Errorf("authenticate gateway: %s", resp.Error)
	}

	m.clientsMu.Lock()
	m.conn = conn
	m.gateway = gatewayClient
	m.session = rpcapi.NewSessionToWorldClient(conn)
	m.clientsMu.Unlock()
	return nil
}

// isTransientDialError classifies a dial/authenticate failure per spec's
// §4.2 reconnection loop and the §7 error-handling table: gRPC Unavailable
// or Unimplemented is a transient transport failure (the world process is
// unreachable or doesn't yet recognize this RPC), everything else is not.
// status.Code unwraps through the %w chain dial() builds, so this sees the
// real grpc status even though dial() wraps it with added context.
func isTransientDialError(err error) bool {
	code := status.Code(err)
	return code == codes.Unavailable || code == codes.Unimplemented
}

func (m *Manager) closeConn() {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()
	if m.conn != nil {
		_ = m.conn.Close()
	}
	m.conn, m.gateway, m.session = nil, nil, nil
}

// Run starts the reconnection and heartbeat loops and blocks until ctx is
// canceled. Call it from its own goroutine.
func (m *Manager) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); m.startReconnectionLoop(ctx) }()
	go func() { defer wg.Done(); m.startHeartbeatLoop(ctx) }()
	wg.Wait()
}

// connectRetrySleep and connectedPollSleep are spec §4.2's fixed
// inter-attempt sleeps: 1 s while (re)connecting, 5 s as the liveness
// probe cadence once Connected. Reconnection retries are unbounded by
// default and never back off.
const (
	connectRetrySleep  = 1 * time.Second
	connectedPollSleep = 5 * time.Second
)

// startReconnectionLoop dials whenever disconnected, with the configured
// attempt cap (0 = unbounded), then drains the queue once Connected.
func (m *Manager) startReconnectionLoop(ctx context.Context) {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			m.closeConn()
			return
		default:
		}

		if m.IsConnected() {
			select {
			case <-ctx.Done():
				m.closeConn()
				return
			case <-time.After(connectedPollSleep):
			}
			continue
		}

		m.setState(Connecting)
		if err := m.dial(ctx); err != nil {
			attempts++
			// Classify per spec §4.2/§7: Unavailable/Unimplemented is
			// transient transport failure (stay Disconnected, keep
			// retrying); anything else is Failed for this attempt.
			if isTransientDialError(err) {
				m.setState(Disconnected)
			} else {
				m.setState(Failed)
			}
			m.log.Warn("reconnect attempt failed", zap.Int("attempt", attempts),
				zap.Bool("transient", isTransientDialError(err)), zap.Error(err))
			if m.cfg.ReconnectAttempts > 0 && attempts >= m.cfg.ReconnectAttempts {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(connectRetrySleep):
			}
			continue
		}

		attempts = 0
		m.setState(Connected)
		m.log.Info("connected to world", zap.String("address", m.cfg.Address))
		m.drainQueue(ctx)
	}
}

// startHeartbeatLoop calls gateway_heartbeat on the configured interval,
// demoting to Disconnected on any failure so the reconnection loop takes
// over (spec §4.2).
func (m *Manager) startHeartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.IsConnected() {
				continue
			}
			client := m.GatewayClient()
			if client == nil {
				continue
			}
			callCtx, cancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
			resp, err := client.GatewayHeartbeat(callCtx, &rpcapi.GatewayHeartbeatRequest{GatewayID: m.cfg.Address})
			cancel()
			if err != nil || !resp.Success {
				m.log.Warn("heartbeat failed, marking disconnected", zap.Error(err))
				m.setState(Disconnected)
				m.closeConn()
			}
		}
	}
}
