// Package session tracks who is signed in to the portal and keeps the
// credential store in sync with that answer.
package session

import (
	"context"
	"sync"

	"go-ems/internal/domain"
	"go-ems/internal/portal/credstore"

	"go.uber.org/zap"
)

type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusVerifying       Status = "verifying"
	StatusAuthenticated   Status = "authenticated"
)

// User is the authenticated identity as confirmed by the server.
type User struct {
	ID         string
	Name       string
	Email      string
	Role       domain.Role
	EmployeeID string
}

// State is an immutable snapshot of the session. User is set only when
// Status is StatusAuthenticated.
type State struct {
	Status Status
	User   *User
}

// Verifier asks the server whether a stored token still identifies a live
// account.
type Verifier interface {
	Verify(ctx context.Context, token string) (User, error)
}

// Manager owns the session state machine. All mutations are serialized;
// subscribers are invoked synchronously after each state change.
type Manager struct {
	mu          sync.Mutex
	store       credstore.Store
	verifier    Verifier
	state       State
	generation  uint64
	subscribers []func(State)
	logger      *zap.Logger
}

func NewManager(store credstore.Store, verifier Verifier, logger ...*zap.Logger) *Manager {
	l := zap.L().Named("portal.session")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Manager{
		store:    store,
		verifier: verifier,
		state:    State{Status: StatusUnauthenticated},
		logger:   l,
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the stored credential, if any.
func (m *Manager) Token() (string, bool) {
	return m.store.Read()
}

// Subscribe registers a callback invoked synchronously on every state
// change, and immediately with the current state.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, fn)
	current := m.state
	m.mu.Unlock()

	fn(current)
}

// Bootstrap resolves the stored token exactly once at startup. A missing
// token settles unauthenticated immediately; a present token passes through
// verifying while the server is consulted. A failed or stale verification
// clears the store so the dead token is never retried.
func (m *Manager) Bootstrap(ctx context.Context) State {
	token, ok := m.store.Read()
	if !ok {
		m.setState(State{Status: StatusUnauthenticated})
		return m.State()
	}

	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	m.setState(State{Status: StatusVerifying})

	user, err := m.verifier.Verify(ctx, token)

	m.mu.Lock()
	stale := gen != m.generation
	m.mu.Unlock()
	if stale {
		// Logout or a newer login happened while the verify was in
		// flight; its outcome no longer applies.
		return m.State()
	}

	if err != nil {
		m.logger.Warn("stored token rejected", zap.Error(err))
		_ = m.store.Clear()
		m.setState(State{Status: StatusUnauthenticated})
		return m.State()
	}

	m.setState(State{Status: StatusAuthenticated, User: &user})
	return m.State()
}

// Login installs a server-confirmed identity and persists its token.
func (m *Manager) Login(user User, token string) error {
	if err := m.store.Save(token); err != nil {
		return err
	}

	m.mu.Lock()
	m.generation++
	m.mu.Unlock()

	m.setState(State{Status: StatusAuthenticated, User: &user})
	return nil
}

// Logout clears the credential and settles unauthenticated. Calling it
// while already signed out is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.generation++
	alreadyOut := m.state.Status == StatusUnauthenticated
	m.mu.Unlock()

	_ = m.store.Clear()
	if alreadyOut {
		return
	}
	m.setState(State{Status: StatusUnauthenticated})
}

func (m *Manager) setState(next State) {
	m.mu.Lock()
	m.state = next
	subs := make([]func(State), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
