package store

import (
	"sync"

	"github.com/dmalakhov/spravka/core"
)

// Memory is a process-local session store. It is the default when no
// durable store is configured, and the store of choice in tests.
type Memory struct {
	mu      sync.RWMutex
	session *core.Session
}

var _ core.SessionStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

// Save replaces the stored session with a copy of s.
func (m *Memory) Save(s *core.Session) error {
	if !s.Valid() {
		return core.ErrSessionCorrupt
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = copySession(s)
	return nil
}

// Load returns a copy of the stored session.
func (m *Memory) Load() (*core.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, core.ErrNoSession
	}
	return copySession(m.session), nil
}

// Clear removes the stored session.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// copySession keeps callers from mutating the store's record through a
// shared *User.
func copySession(s *core.Session) *core.Session {
	user := *s.User
	return &core.Session{Token: s.Token, User: &user}
}
