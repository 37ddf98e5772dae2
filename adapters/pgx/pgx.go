package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmalakhov/spravka/core"
)

// Store persists the client session in Postgres, one row per named profile.
// Meant for headless consumers (bots, workers, schedulers) that share one
// session across processes; interactive tools usually want the file store.
type Store struct {
	pool    *pgxpool.Pool
	profile string
}

var _ core.SessionStore = (*Store)(nil)

const defaultProfile = "default"

// Token and user live in one row, written by one upsert, so the pairing
// invariant survives concurrent writers.
const schema = `
CREATE TABLE IF NOT EXISTS client_sessions (
	profile    TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	user_data  JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// New builds a store bound to one profile name. An empty profile selects
// "default".
func New(pool *pgxpool.Pool, profile string) *Store {
	if profile == "" {
		profile = defaultProfile
	}
	return &Store{pool: pool, profile: profile}
}

// EnsureSchema creates the session table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create client_sessions table: %w", err)
	}
	return nil
}

func (s *Store) Save(sess *core.Session) error {
	if !sess.Valid() {
		return core.ErrSessionCorrupt
	}

	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	const upsert = `
		INSERT INTO client_sessions (profile, token, user_data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (profile)
		DO UPDATE SET token = EXCLUDED.token, user_data = EXCLUDED.user_data, updated_at = now()`

	if _, err := s.pool.Exec(context.Background(), upsert, s.profile, sess.Token, userData); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Load() (*core.Session, error) {
	const query = `SELECT token, user_data FROM client_sessions WHERE profile = $1`

	var token string
	var userData []byte
	err := s.pool.QueryRow(context.Background(), query, s.profile).Scan(&token, &userData)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var user core.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSessionCorrupt, err)
	}

	sess := &core.Session{Token: token, User: &user}
	if !sess.Valid() {
		return nil, core.ErrSessionCorrupt
	}
	return sess, nil
}

func (s *Store) Clear() error {
	const del = `DELETE FROM client_sessions WHERE profile = $1`
	if _, err := s.pool.Exec(context.Background(), del, s.profile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
