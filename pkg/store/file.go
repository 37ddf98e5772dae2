package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmalakhov/spravka/core"
)

var ErrPathRequired = errors.New("session file path is required")

// Sealer encrypts the session record at rest. pkg/crypto provides the
// passphrase-based implementation.
type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(box []byte) ([]byte, error)
}

// FileConfig configures a file-backed session store.
type FileConfig struct {
	// Path of the session file, e.g. ~/.config/spravka/session.json.
	Path string

	// Optional. When set, the record is encrypted at rest.
	Sealer Sealer
}

// File persists the session as a single JSON record on disk - the
// process-restart analog of per-origin browser storage. Token and user are
// written in one atomic rename, so the pairing invariant holds even across
// crashes mid-save.
type File struct {
	mu     sync.Mutex
	path   string
	sealer Sealer
}

var _ core.SessionStore = (*File)(nil)

func NewFile(cfg FileConfig) (*File, error) {
	if cfg.Path == "" {
		return nil, ErrPathRequired
	}
	return &File{path: cfg.Path, sealer: cfg.Sealer}, nil
}

func (f *File) Save(s *core.Session) error {
	if !s.Valid() {
		return core.ErrSessionCorrupt
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if f.sealer != nil {
		if data, err = f.sealer.Seal(data); err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// Write-then-rename so a crash never leaves a torn record behind.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *File) Load() (*core.Session, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	if f.sealer != nil {
		if data, err = f.sealer.Open(data); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrSessionCorrupt, err)
		}
	}

	var s core.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSessionCorrupt, err)
	}
	if !s.Valid() {
		return nil, core.ErrSessionCorrupt
	}
	return &s, nil
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
