package services

import (
	"sync"

	"github.com/dmalakhov/spravka/core"
)

// FakeSessionStore is a test-only store implementing core.SessionStore.
// It keeps the session in memory and exposes error fields for behavior
// injection.
type FakeSessionStore struct {
	mu       sync.RWMutex
	session  *core.Session
	saveErr  error
	loadErr  error
	clearErr error

	Saves  int
	Clears int
}

var _ core.SessionStore = (*FakeSessionStore)(nil)

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{}
}

func (f *FakeSessionStore) Save(s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	user := *s.User
	f.session = &core.Session{Token: s.Token, User: &user}
	f.Saves++
	return nil
}

func (f *FakeSessionStore) Load() (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.session == nil {
		return nil, core.ErrNoSession
	}
	user := *f.session.User
	return &core.Session{Token: f.session.Token, User: &user}, nil
}

func (f *FakeSessionStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.session = nil
	f.Clears++
	return nil
}
