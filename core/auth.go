package core

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// State is the authentication state of the client.
type State int

const (
	// StateAnonymous is the initial state: no session is held.
	StateAnonymous State = iota
	// StateAuthenticated means a token and cached user are both present.
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}

// AuthManager is the single source of truth for who is using the client,
// and the only component that mutates the stored user.
//
// It moves between exactly two states. Anonymous -> Authenticated on a
// successful login/registration or on restoring a persisted session at
// startup. Authenticated -> Anonymous on explicit logout or on any backend
// response signalling 401 - the latter is a global policy wired through
// Client.OnUnauthorized.
//
// Role and ownership checks here gate UI convenience only. The backend
// enforces authorization independently; nothing in this type is a security
// boundary.
type AuthManager struct {
	mu        sync.RWMutex
	store     SessionStore
	user      *User
	log       *zap.Logger
	listeners []func(State)
}

// NewAuthManager builds a manager in the Anonymous state. Call Restore to
// pick up a previously persisted session.
func NewAuthManager(store SessionStore, log *zap.Logger) *AuthManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthManager{store: store, log: log}
}

// Restore loads a persisted session, if any, and transitions to
// Authenticated. With nothing persisted the manager stays Anonymous and no
// error is returned; a corrupt record is cleared and reported.
func (m *AuthManager) Restore() error {
	s, err := m.store.Load()
	if errors.Is(err, ErrNoSession) {
		// Stores may wrap the sentinel; a missing session is still not an error.
		return nil
	}
	if err != nil {
		// Half a session is worse than none.
		_ = m.store.Clear()
		return err
	}

	m.mu.Lock()
	m.user = s.User
	m.mu.Unlock()

	m.log.Debug("session restored", zap.Int64("user_id", s.User.ID), zap.String("role", s.User.Role))
	m.notify(StateAuthenticated)
	return nil
}

// SetSession installs a freshly issued token and user, persisting both
// together, and transitions to Authenticated.
func (m *AuthManager) SetSession(token string, user *User) error {
	if token == "" || user == nil {
		return ErrSessionCorrupt
	}
	if err := m.store.Save(&Session{Token: token, User: user}); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	m.notify(StateAuthenticated)
	return nil
}

// ApplyProfile folds an updated profile into the cached user. Only name and
// avatar are taken from the update; id, email and role stay as issued at
// login. The token is re-persisted together with the updated user.
func (m *AuthManager) ApplyProfile(updated *User) error {
	if updated == nil {
		return ErrSessionCorrupt
	}

	s, err := m.store.Load()
	if err != nil {
		return err
	}

	s.User.Name = updated.Name
	s.User.Avatar = updated.Avatar
	if err := m.store.Save(s); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = s.User
	m.mu.Unlock()
	return nil
}

// Logout clears the session and transitions to Anonymous. Safe to call in
// any state.
func (m *AuthManager) Logout() {
	m.mu.Lock()
	wasAuthenticated := m.user != nil
	m.user = nil
	m.mu.Unlock()

	_ = m.store.Clear()

	if wasAuthenticated {
		m.log.Debug("logged out")
		m.notify(StateAnonymous)
	}
}

// HandleUnauthorized is the global 401 policy: force a logout. The
// transition happens exactly once per authenticated session - repeated 401s
// from racing in-flight requests do not loop.
func (m *AuthManager) HandleUnauthorized() {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	m.user = nil
	m.mu.Unlock()

	_ = m.store.Clear()
	m.log.Debug("session rejected by backend, logged out")
	m.notify(StateAnonymous)
}

// State returns the current authentication state.
func (m *AuthManager) State() State {
	if m.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// IsAuthenticated reports whether a user and token are both held.
func (m *AuthManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// CurrentUser returns a copy of the cached user, or nil when Anonymous.
func (m *AuthManager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// HasRole reports whether the cached user's role equals role. Always false
// when Anonymous.
func (m *AuthManager) HasRole(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.Role == role
}

// IsAdmin reports whether the cached user is an administrator.
func (m *AuthManager) IsAdmin() bool {
	return m.HasRole(RoleAdmin)
}

// IsOwner reports whether the cached user owns the resource identified by
// its owning-user id.
func (m *AuthManager) IsOwner(resourceUserID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.ID == resourceUserID
}

// RequireAuth runs action only when authenticated; otherwise it returns
// ErrLoginRequired so the caller can present its login surface.
func (m *AuthManager) RequireAuth(action func() error) error {
	if !m.IsAuthenticated() {
		return ErrLoginRequired
	}
	return action()
}

// RequireAdmin runs action only for administrators; otherwise it returns
// ErrAdminRequired. Unlike RequireAuth this is a plain permission error,
// not a prompt to sign in.
func (m *AuthManager) RequireAdmin(action func() error) error {
	if !m.IsAdmin() {
		return ErrAdminRequired
	}
	return action()
}

// OnChange registers a listener invoked after every state transition. This
// is the hook UI layers project visibility from.
func (m *AuthManager) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *AuthManager) notify(s State) {
	m.mu.RLock()
	listeners := make([]func(State), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(s)
	}
}
