package core

// Session is the client-held credential: the opaque bearer token issued by
// the backend plus the cached profile of the user it belongs to.
//
// The two fields live and die together. A token without a user, or a user
// without a token, is a bug state - SessionStore implementations persist
// and clear the whole record in one operation so the pairing can never be
// observed half-updated.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Valid reports whether the session holds both halves of the pair.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// SessionStore persists a session across process restarts. It is the Go
// counterpart of per-origin browser storage: two logical entries (token and
// serialized user) written and removed as one record.
//
// Implementations must be safe for concurrent use. Operations are
// synchronous; none of them performs network I/O.
type SessionStore interface {
	// Save replaces the stored session. The token and user are persisted
	// together - partial writes must not be observable.
	Save(s *Session) error

	// Load returns the stored session, or ErrNoSession when nothing is
	// stored. A record missing either half is reported as ErrSessionCorrupt.
	Load() (*Session, error)

	// Clear removes the stored session. Clearing an empty store is not an
	// error.
	Clear() error
}
