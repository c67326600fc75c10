// Package session owns the authenticated-user state: who is logged in,
// where the bearer token lives, and whether a view may be entered.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"eventxplore/internal/api"
	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/models"
)

var (
	// ErrLoginRequired means the caller is anonymous and should be sent
	// to login.
	ErrLoginRequired = errors.New("login required")
	// ErrForbidden means the caller is authenticated but lacks the
	// required role. Deliberately distinct from ErrLoginRequired: asking
	// an already-authenticated user to log in again would be wrong.
	ErrForbidden = errors.New("access denied")
)

type Status int

const (
	StatusUnknown Status = iota
	StatusLoading
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Boundary is the slice of the API the session needs.
type Boundary interface {
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (models.AuthResponse, error)
	Profile(ctx context.Context) (models.User, error)
}

// TokenStore persists the bearer token between runs. Token returns ""
// when nothing is stored; Clear on an empty store is a no-op.
type TokenStore interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}

// Manager is the single writer of session state. Every operation holds
// one mutex across its boundary call, so concurrent logins serialize
// instead of interleaving; there is no further de-duplication.
type Manager struct {
	log      *slog.Logger
	boundary Boundary
	tokens   TokenStore

	mu     sync.Mutex
	user   *models.User
	status Status
}

func New(log *slog.Logger, boundary Boundary, tokens TokenStore) *Manager {
	return &Manager{
		log:      log,
		boundary: boundary,
		tokens:   tokens,
		status:   StatusUnknown,
	}
}

// Login authenticates against the boundary and, on success, persists the
// returned token and sets the session user. Boundary failures propagate
// with their message intact.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, err := m.boundary.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return m.establish(resp)
}

// Register creates an account; the boundary logs the new user in
// immediately, so the contract matches Login.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, err := m.boundary.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	return m.establish(resp)
}

func (m *Manager) establish(resp models.AuthResponse) (*models.User, error) {
	const op = "session.Manager.establish"

	if err := m.tokens.Save(resp.Token); err != nil {
		return nil, fmt.Errorf("%s: persist token: %w", op, err)
	}

	u := resp.User
	m.user = &u
	m.status = StatusAuthenticated

	m.log.Info("session established",
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)),
	)

	return &u, nil
}

// Restore rebuilds the session from a persisted token at startup. A
// rejected or unreadable token downgrades to anonymous and clears the
// store; that path is recovery, not an error, and is never surfaced.
// Returns nil when the session ends up anonymous.
func (m *Manager) Restore(ctx context.Context) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = StatusLoading

	token, err := m.tokens.Token()
	if err != nil {
		m.log.Warn("token store unreadable, starting anonymous", sl.Err(err))
		m.status = StatusAnonymous

		return nil
	}

	if token == "" {
		m.status = StatusAnonymous

		return nil
	}

	user, err := m.boundary.Profile(ctx)
	if err != nil {
		m.log.Debug("stored token rejected, starting anonymous", sl.Err(err))

		if err := m.tokens.Clear(); err != nil {
			m.log.Warn("failed to clear stale token", sl.Err(err))
		}

		m.user = nil
		m.status = StatusAnonymous

		return nil
	}

	m.user = &user
	m.status = StatusAuthenticated

	m.log.Debug("session restored", slog.String("user_id", user.ID))

	return &user
}

// Logout drops the in-memory user and the persisted token. Purely local,
// no boundary call.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.user = nil
	m.status = StatusAnonymous

	if err := m.tokens.Clear(); err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}

	m.log.Info("session cleared")

	return nil
}

func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil
	}

	u := *m.user

	return &u
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.status
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.user != nil
}

// Guard admits the caller iff authenticated and, when roles are given,
// holding one of them.
func (m *Manager) Guard(roles ...models.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return ErrLoginRequired
	}

	if len(roles) == 0 {
		return nil
	}

	for _, r := range roles {
		if m.user.Role == r {
			return nil
		}
	}

	return ErrForbidden
}
