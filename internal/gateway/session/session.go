// Package session implements the gateway's per-connection state machine
// (spec §4.1): Unauthenticated{Welcome,Username,Password,NewAccount},
// Authenticated{Playing,Editing}, Disconnected. One Session per accepted
// connection, in the teacher's one-struct-per-connection shape
// (internal/net.Session), but carrying login/editor state instead of a
// binary packet cipher.
package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/huhlig/wyldlands-go/internal/config"
	"github.com/huhlig/wyldlands-go/internal/gateway/rpcclient"
	"github.com/huhlig/wyldlands-go/internal/rpcapi"
)

// State is the session's top-level state.
type State int

const (
	StateWelcome State = iota
	StateUsername
	StatePassword
	StateNewAccountUsername
	StateNewAccountPassword
	StateNewAccountConfirm
	StateNewAccountEmail
	StateNewAccountDiscord
	StateNewAccountTimezone
	StatePlaying
	StateEditing
	StateDisconnected
)

// InputMode selects how the gateway's line codec delivers bytes: whole
// lines, or individual characters (only during Editing, per spec §4.1).
type InputMode int

const (
	LineMode InputMode = iota
	CharacterMode
)

// pendingAccount accumulates the NewAccount substate sequence's fields
// before the final create_account RPC.
type pendingAccount struct {
	username string
	password string
	email    string
	discord  string
}

// Session is one connection's state machine.
type Session struct {
	ID         string
	State      State
	ClientAddr string

	editor  *Editor
	pending pendingAccount
	account string // username candidate collected in Username, reused in Password

	rpc *rpcclient.Manager
	cfg config.GatewayServerConfig
	log *zap.Logger
}

// New builds a Session in its initial Welcome state.
func New(id, clientAddr string, rpc *rpcclient.Manager, cfg config.GatewayServerConfig, log *zap.Logger) *Session {
	return &Session{ID: id, ClientAddr: clientAddr, State: StateWelcome, rpc: rpc, cfg: cfg, log: log.With(zap.String("session", id))}
}

// Prompt returns the prompt text for the session's current state (spec §4.1).
func (s *Session) Prompt() string {
	switch s.State {
	case StatePlaying:
		return "> "
	case StateEditing:
		return s.editor.Prompt()
	case StateUsername, StateNewAccountUsername:
		return "Username: "
	case StatePassword, StateNewAccountPassword:
		return "Password: "
	case StateNewAccountConfirm:
		return "Confirm password: "
	case StateNewAccountEmail:
		return "Email (optional): "
	case StateNewAccountDiscord:
		return "Discord (optional): "
	case StateNewAccountTimezone:
		return "Timezone (optional): "
	default:
		return ""
	}
}

// InputMode reports the codec mode the current state requires: Character
// only while Editing, Line everywhere else (spec §4.1).
func (s *Session) InputMode() InputMode {
	if s.State == StateEditing {
		return CharacterMode
	}
	return LineMode
}

// HandleLine drives one line of client input through the state machine and
// returns the text to send back to the client.
func (s *Session) HandleLine(ctx context.Context, line string) string {
	trimmed := strings.TrimSpace(line)

	// Fast path: Playing forwards directly to send_input without touching
	// any other state — this is an observable performance contract (spec
	// §4.1) and must stay the first branch in this function.
	if s.State == StatePlaying {
		if trimmed == "" {
			return ""
		}
		if strings.HasPrefix(trimmed, ".edit ") {
			return s.enterEditor(trimmed)
		}
		s.rpc.SendOrQueueInput(ctx, s.ID, trimmed, 0)
		return ""
	}

	switch s.State {
	case StateWelcome:
		s.State = StateUsername
		return "Welcome to Wyldlands.\r\n" + s.Prompt()

	case StateUsername:
		if strings.EqualFold(trimmed, "n") || strings.EqualFold(trimmed, "new") {
			s.State = StateNewAccountUsername
			return "Creating a new account.\r\n" + s.Prompt()
		}
		if trimmed == "" {
			return "Username cannot be empty.\r\n" + s.Prompt()
		}
		s.account = trimmed
		s.State = StatePassword
		return s.Prompt()

	case StatePassword:
		return s.attemptLogin(ctx, trimmed)

	case StateNewAccountUsername:
		if trimmed == "" {
			return "Username cannot be empty.\r\n" + s.Prompt()
		}
		resp, err := s.rpc.CheckUsername(ctx, &rpcapi.CheckUsernameRequest{Username: trimmed})
		if err != nil || !resp.Available {
			return "That username is taken or unavailable.\r\n" + s.Prompt()
		}
		s.pending.username = trimmed
		s.State = StateNewAccountPassword
		return s.Prompt()

	case StateNewAccountPassword:
		if trimmed == "" {
			return "Password cannot be empty.\r\n" + s.Prompt()
		}
		s.pending.password = trimmed
		s.State = StateNewAccountConfirm
		return s.Prompt()

	case StateNewAccountConfirm:
		if trimmed != s.pending.password {
			s.State = StateNewAccountUsername
			return "Passwords did not match. Let's try again.\r\n" + s.Prompt()
		}
		s.State = StateNewAccountEmail
		return s.Prompt()

	case StateNewAccountEmail:
		s.pending.email = trimmed
		s.State = StateNewAccountDiscord
		return s.Prompt()

	case StateNewAccountDiscord:
		s.pending.discord = trimmed
		s.State = StateNewAccountTimezone
		return s.Prompt()

	case StateNewAccountTimezone:
		return s.finishAccountCreation(ctx, trimmed)

	case StateEditing:
		out, done := s.editor.HandleLine(trimmed, s.cfg.EditorWidthMin, s.cfg.EditorWidthMax)
		if done {
			content := s.editor.Content()
			title := s.editor.Title
			s.editor = nil
			s.State = StatePlaying
			if trimmed != ".q" && trimmed != ".quit" {
				s.rpc.SendOrQueueInput(ctx, s.ID, ".editor_save "+title+" "+content, 0)
			}
			return s.Prompt()
		}
		if out != "" {
			return out + "\r\n" + s.Prompt()
		}
		return s.Prompt()

	default:
		return ""
	}
}

func (s *Session) attemptLogin(ctx context.Context, password string) string {
	resp, err := s.rpc.AuthenticateSession(ctx, &rpcapi.AuthenticateSessionRequest{
		SessionID:  s.ID,
		Username:   s.account,
		Password:   password,
		ClientAddr: s.ClientAddr,
	})
	if err != nil || !resp.Success {
		s.State = StateUsername
		return "Login failed.\r\n" + s.Prompt()
	}
	s.State = StatePlaying
	return "Welcome back, " + s.account + "!\r\n" + s.Prompt()
}

func (s *Session) finishAccountCreation(ctx context.Context, timezone string) string {
	resp, err := s.rpc.CreateAccount(ctx, &rpcapi.CreateAccountRequest{
		Address:  s.ClientAddr,
		Username: s.pending.username,
		Password: s.pending.password,
		Properties: rpcapi.AccountProperties{
			Email:    s.pending.email,
			Discord:  s.pending.discord,
			Timezone: timezone,
		},
	})
	if err != nil || !resp.Success {
		s.State = StateNewAccountUsername
		return "Account creation failed.\r\n" + s.Prompt()
	}
	s.account = s.pending.username
	s.State = StatePlaying
	return "Account created. Welcome, " + s.account + "!\r\n" + s.Prompt()
}

// enterEditor handles a server-triggered ".edit <title>" (normally this
// arrives pushed from the world, but the fast path forwards it here too
// since the editor can also be opened from the Playing state directly).
func (s *Session) enterEditor(trigger string) string {
	title := strings.TrimSpace(strings.TrimPrefix(trigger, ".edit "))
	width := clampWidth(80, s.cfg.EditorWidthMin, s.cfg.EditorWidthMax)
	s.editor = NewEditor(title, "", width)
	s.State = StateEditing
	return s.Prompt()
}

// Disconnect marks the session terminal. An RPC error while Playing does
// not reach this: SendOrQueueInput marks the RPC client manager
// Disconnected and queues the input there, and the session stays Playing.
func (s *Session) Disconnect() {
	s.State = StateDisconnected
}
