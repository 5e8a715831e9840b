package rpcclient

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/huhlig/wyldlands-go/internal/rpcapi"
)

// defaultMaxQueueSize bounds the FIFO command queue when the caller passes a
// maxQueueSize of 0 or less, rather than disabling the bound outright.
const defaultMaxQueueSize = 64

// errNotConnected is returned by the synchronous call wrappers when no
// connection is currently established.
var errNotConnected = errors.New("rpcclient: not connected")

// SendOrQueueInput implements spec §4.2's send_or_queue_input: if Connected,
// attempt send_input synchronously; otherwise (or on failure) enqueue. The
// queue is FIFO with head-drop overflow — the oldest entry is evicted to
// make room for the newest, and a drop counter increments. This is the
// chosen backpressure policy and must not change.
func (m *Manager) SendOrQueueInput(ctx context.Context, sessionID, command string, maxQueueSize int) {
	if m.IsConnected() {
		client := m.SessionClient()
		if client != nil {
			callCtx, cancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
			_, err := client.SendInput(callCtx, &rpcapi.SendInputRequest{SessionID: sessionID, Command: command})
			cancel()
			if err == nil {
				return
			}
			m.log.Warn("send_input failed, queuing", zap.Error(err))
			m.setState(Disconnected)
			m.closeConn()
		}
	}
	m.enqueue(sessionID, command, maxQueueSize)
}

// QueueCommand is the explicit enqueue-only half of spec §4.2's public
// surface: unlike SendOrQueueInput it never attempts a synchronous send,
// even if currently Connected. Callers that already know they want FIFO
// ordering against other queued work (rather than the fast path) use this.
func (m *Manager) QueueCommand(sessionID, command string, maxQueueSize int) {
	m.enqueue(sessionID, command, maxQueueSize)
}

func (m *Manager) enqueue(sessionID, command string, maxQueueSize int) {
	if maxQueueSize <= 0 {
		maxQueueSize = defaultMaxQueueSize
	}
	m.queueMu.Lock()
	defer m.queueMu.Unlock()
	if len(m.queue) >= maxQueueSize {
		m.queue = m.queue[1:]
		m.dropped++
	}
	m.queue = append(m.queue, queuedCommand{sessionID: sessionID, command: command, queuedAt: time.Now()})
}

// drainQueue pops from the head and calls send_input per entry, in enqueue
// order. An RPC error mid-drain reinserts the entry at the head and aborts
// the drain — the reconnection loop will retry on the next Connected pass
// (spec §8 testable property 6: reconnection eventual delivery).
func (m *Manager) drainQueue(ctx context.Context) {
	client := m.SessionClient()
	if client == nil {
		return
	}
	for {
		m.queueMu.Lock()
		if len(m.queue) == 0 {
			m.queueMu.Unlock()
			return
		}
		head := m.queue[0]
		m.queueMu.Unlock()

		if !m.IsConnected() {
			return
		}

		callCtx, cancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
		_, err := client.SendInput(callCtx, &rpcapi.SendInputRequest{SessionID: head.sessionID, Command: head.command})
		cancel()
		if err != nil {
			m.log.Warn("drain send_input failed, aborting drain", zap.Error(err))
			m.setState(Disconnected)
			return
		}

		m.queueMu.Lock()
		if len(m.queue) > 0 {
			m.queue = m.queue[1:]
		}
		m.queueMu.Unlock()
	}
}

// AuthenticateSession is the synchronous authentication call: a single
// attempt, no queuing, since an RPC error here must surface to the user
// immediately rather than being silently retried later (spec §4.1: "an RPC
// error during authentication produces a user-visible failure").
func (m *Manager) AuthenticateSession(ctx context.Context, req *rpcapi.AuthenticateSessionRequest) (*rpcapi.AuthenticateSessionResponse, error) {
	client := m.SessionClient()
	if client == nil {
		return nil, errNotConnected
	}
	callCtx, cancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
	defer cancel()
	return client.AuthenticateSession(callCtx, req)
}

// CheckUsername, CreateAccount, and FetchServerStatistics are the
// administrative call wrappers spec §4.2 names; each is a single bounded
// attempt against the current connection.
func (m *Manager) CheckUsername(ctx context.Context, req *rpcapi.CheckUsernameRequest) (*rpcapi.CheckUsernameResponse, error) {
	client := m.GatewayClient()
	if client == nil {
		return nil, errNotConnected
	}
	callCtx, cancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
	defer cancel()
	return client.CheckUsername(callCtx, req)
}

func (m *Manager) CreateAccount(ctx context.Context, req *rpcapi.CreateAccountRequest) (*rpcapi.CreateAccountResponse, error) {
	client := m.GatewayClient()
	if client == nil {
		return nil, errNotConnected
	}
	callCtx, cancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
	defer cancel()
	return client.CreateAccount(callCtx, req)
}

func (m *Manager) FetchServerStatistics(ctx context.Context, req *rpcapi.FetchServerStatisticsRequest) (*rpcapi.FetchServerStatisticsResponse, error) {
	client := m.GatewayClient()
	if client == nil {
		return nil, errNotConnected
	}
	callCtx, cancel := context.WithTimeout(ctx, m.cfg.OperationTimeout)
	defer cancel()
	return client.FetchServerStatistics(callCtx, req)
}

// ExecuteSessionWithRetry implements spec §4.2's execute_session_with_retry:
// up to 3 attempts at f, waiting 1s between attempts and forcing the
// connection to Disconnected each time so the reconnection loop has a
// chance to re-dial before the next attempt.
func (m *Manager) ExecuteSessionWithRetry(ctx context.Context, f func(*rpcapi.SessionToWorldClient) error) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			m.setState(Disconnected)
		}
		client := m.SessionClient()
		if client == nil {
			lastErr = errNotConnected
			continue
		}
		if err := f(client); err != nil {
			lastErr = err
			m.setState(Disconnected)
			continue
		}
		return nil
	}
	return lastErr
}
