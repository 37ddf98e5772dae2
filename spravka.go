// Package spravka is a Go client for the directory/review/forum backend:
// company catalog, user reviews, forum articles with comments, full-text
// search with suggestions, and the admin moderation workflow.
//
// Construct one Spravka per backend with New. All state lives on the
// instance (no package-level singletons), so independent clients can hold
// independent sessions.
package spravka

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dmalakhov/spravka/core"
	"github.com/dmalakhov/spravka/pkg/cache"
	"github.com/dmalakhov/spravka/pkg/store"
	"github.com/dmalakhov/spravka/services"
)

// interfaces
type (
	SessionStore = core.SessionStore
)

// structs
type (
	Session = core.Session
	User    = core.User
	Company = core.Company
	Review  = core.Review
	Article = core.Article
	Comment = core.Comment

	Guard  = core.Guard
	Ticket = core.Ticket
)

type (
	ModerationStatus = core.ModerationStatus
	State            = core.State
	SearchType       = services.SearchType
	PendingType      = services.PendingType
)

const (
	StatusPending  = core.StatusPending
	StatusApproved = core.StatusApproved
	StatusRejected = core.StatusRejected

	RoleUser  = core.RoleUser
	RoleAdmin = core.RoleAdmin

	StateAnonymous     = core.StateAnonymous
	StateAuthenticated = core.StateAuthenticated

	SearchAll       = services.SearchAll
	SearchCompanies = services.SearchCompanies
	SearchArticles  = services.SearchArticles
	SearchReviews   = services.SearchReviews

	PendingCompanies = services.PendingCompanies
	PendingArticles  = services.PendingArticles
	PendingComments  = services.PendingComments
	PendingReviews   = services.PendingReviews
)

// Constructors & helpers (convenience re-exports)
var (
	NewMemoryStore = store.NewMemory
	NewFileStore   = store.NewFile
)

var (
	ErrLoginRequired     = core.ErrLoginRequired
	ErrAdminRequired     = core.ErrAdminRequired
	ErrServerUnreachable = core.ErrServerUnreachable
	ErrNoSession         = core.ErrNoSession
	ErrBaseURLRequired   = core.ErrBaseURLRequired
)

var (
	IsUnauthorized = core.IsUnauthorized
	IsNotFound     = core.IsNotFound
)

// Config wires one client instance.
type Config struct {
	// BaseURL of the backend API, including the prefix,
	// e.g. "https://example.org/api".
	BaseURL string

	// Optional config
	Store              core.SessionStore // defaults to an in-memory store
	HTTPClient         *http.Client      // defaults to a client with a 30s timeout
	Timeout            time.Duration     // per-request bound when HTTPClient is nil
	Logger             *zap.Logger       // defaults to a no-op logger
	LookupTTL          time.Duration     // cache TTL for categories/cities/tags
	DisableLookupCache bool
}

// Spravka aggregates the per-resource services around one request client
// and one auth manager.
type Spravka struct {
	// Auth answers who is signed in and gates actions on role/ownership.
	Auth *core.AuthManager

	// Account performs login, registration and profile operations.
	Account *services.AuthService

	Catalog    *services.CatalogService
	Reviews    *services.ReviewService
	Forum      *services.ForumService
	Search     *services.SearchService
	Moderation *services.ModerationService
	Uploads    *services.UploadService

	client *core.Client
}

// New builds a client and restores any persisted session from the store.
// An unreadable stored session is discarded; the client starts anonymous
// rather than failing.
func New(config Config) (*Spravka, error) {
	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	// Set Defaults
	sessionStore := config.Store
	if sessionStore == nil {
		sessionStore = store.NewMemory()
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var lookups *cache.Memory[[]string]
	if !config.DisableLookupCache {
		lookups = cache.NewMemory[[]string](cache.Config{
			TTL:     config.LookupTTL,
			MaxSize: 16,
		})
	}

	httpc := config.HTTPClient
	if httpc == nil && config.Timeout > 0 {
		httpc = &http.Client{Timeout: config.Timeout}
	}

	client := core.NewClient(config.BaseURL, httpc, sessionStore, logger)
	auth := core.NewAuthManager(sessionStore, logger)

	// Every 401, from any endpoint, forces a logout. Explicit interceptor
	// rather than an ambient error listener.
	client.OnUnauthorized(auth.HandleUnauthorized)

	if err := auth.Restore(); err != nil {
		logger.Warn("discarding unusable stored session", zap.Error(err))
	}

	return &Spravka{
		Auth:       auth,
		Account:    services.NewAuth(client, auth),
		Catalog:    services.NewCatalog(client, lookups),
		Reviews:    services.NewReviews(client),
		Forum:      services.NewForum(client, lookups),
		Search:     services.NewSearch(client),
		Moderation: services.NewModeration(client),
		Uploads:    services.NewUpload(client),
		client:     client,
	}, nil
}

// Client exposes the underlying request client for callers that need raw
// access to endpoints this SDK does not wrap.
func (s *Spravka) Client() *core.Client {
	return s.client
}
