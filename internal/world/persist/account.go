package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/huhlig/wyldlands-go/internal/rpcapi"
	"github.com/huhlig/wyldlands-go/internal/world/command"
)

// ErrUsernameTaken is returned by CreateAccount when the username already
// exists (GatewayManagement.CreateAccount's error surface, spec §6).
var ErrUsernameTaken = errors.New("username already taken")

// ErrBadCredentials is returned by Authenticate on an unknown username or a
// password mismatch. Both cases collapse to the same error so failed login
// attempts can't be used to enumerate usernames.
var ErrBadCredentials = errors.New("invalid username or password")

// Account is a row from wyldlands.accounts.
type Account struct {
	ID       uuid.UUID
	Username string
	Role     command.Role
}

// AccountAvailable reports whether a username is free, directly grounding
// GatewayManagement.CheckUsername.
func (m *Manager) AccountAvailable(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := m.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wyldlands.accounts WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !exists, nil
}

// CreateAccount hashes the password with bcrypt (matching the teacher's
// internal/persist/account_repo.go) and inserts a new account row.
func (m *Manager) CreateAccount(ctx context.Context, address, username, password string, props rpcapi.AccountProperties) (Account, error) {
	available, err := m.AccountAvailable(ctx, username)
	if err != nil {
		return Account{}, err
	}
	if !available {
		return Account{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New()
	_, err = m.db.Pool.Exec(ctx, `
		INSERT INTO wyldlands.accounts
			(id, username, password_hash, email, display, discord, timezone, last_address, last_login_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())`,
		id, username, string(hash), props.Email, props.Display, props.Discord, props.Timezone, address)
	if err != nil {
		return Account{}, fmt.Errorf("insert account: %w", err)
	}
	return Account{ID: id, Username: username, Role: command.Player}, nil
}

// Authenticate validates a username/password pair and records the login
// address and timestamp on success.
func (m *Manager) Authenticate(ctx context.Context, address, username, password string) (Account, error) {
	var id uuid.UUID
	var hash string
	var role int16
	err := m.db.Pool.QueryRow(ctx,
		`SELECT id, password_hash, role FROM wyldlands.accounts WHERE username = $1`, username,
	).Scan(&id, &hash, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrBadCredentials
	}
	if err != nil {
		return Account{}, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Account{}, ErrBadCredentials
	}

	_, err = m.db.Pool.Exec(ctx,
		`UPDATE wyldlands.accounts SET last_address = $2, last_login_at = $3 WHERE id = $1`,
		id, address, time.Now())
	if err != nil {
		return Account{}, fmt.Errorf("record login: %w", err)
	}
	return Account{ID: id, Username: username, Role: command.Role(role)}, nil
}
