// Package fakeapi is an in-memory stand-in for the directory/review/forum
// backend. It implements the REST surface the client consumes - auth,
// catalog, reviews, forum, search, moderation and upload - with the same
// payload shapes and error bodies, so integration tests and examples can
// run against a real HTTP server without the real backend.
package fakeapi

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/dmalakhov/spravka/core"
)

// Server holds all state behind one mutex; handler bodies are short enough
// that a single lock is simpler than fine-grained ones.
type Server struct {
	app *fiber.App
	ln  net.Listener

	mu        sync.Mutex
	nextID    int64
	users     map[int64]*core.User
	passwords map[int64]string
	emails    map[string]int64
	tokens    map[string]int64 // bearer token -> user id
	companies map[int64]*core.Company
	reviews   map[int64]*core.Review
	articles  map[int64]*core.Article
	comments  map[int64]*core.Comment
}

func New() *Server {
	s := &Server{
		app:       fiber.New(),
		users:     make(map[int64]*core.User),
		passwords: make(map[int64]string),
		emails:    make(map[string]int64),
		tokens:    make(map[string]int64),
		companies: make(map[int64]*core.Company),
		reviews:   make(map[int64]*core.Review),
		articles:  make(map[int64]*core.Article),
		comments:  make(map[int64]*core.Comment),
	}
	s.registerRoutes()
	return s
}

// Start binds an ephemeral localhost port and returns the API base URL
// (including the /api prefix) for a client Config.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	s.ln = ln

	go func() {
		_ = s.app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	return fmt.Sprintf("http://%s/api", ln.Addr().String()), nil
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)
	api.Get("/auth/profile", s.requireAuth, s.handleGetProfile)
	api.Put("/auth/profile", s.requireAuth, s.handleUpdateProfile)

	api.Get("/catalog", s.handleListCompanies)
	api.Get("/catalog/categories", s.handleCategories)
	api.Get("/catalog/cities", s.handleCities)
	api.Get("/catalog/:id", s.handleGetCompany)
	api.Post("/catalog", s.requireAuth, s.handleCreateCompany)
	api.Put("/catalog/:id", s.requireAuth, s.handleUpdateCompany)
	api.Delete("/catalog/:id", s.requireAuth, s.handleDeleteCompany)

	api.Post("/reviews", s.requireAuth, s.handleCreateReview)
	api.Get("/reviews/company/:id", s.handleCompanyReviews)
	api.Get("/reviews/user", s.requireAuth, s.handleUserReviews)
	api.Get("/reviews/:id", s.handleGetReview)
	api.Put("/reviews/:id", s.requireAuth, s.handleUpdateReview)
	api.Delete("/reviews/:id", s.requireAuth, s.handleDeleteReview)

	api.Get("/forum/articles", s.handleListArticles)
	api.Get("/forum/tags", s.handleTags)
	api.Get("/forum/articles/:id", s.handleGetArticle)
	api.Post("/forum/articles", s.requireAuth, s.handleCreateArticle)
	api.Put("/forum/articles/:id", s.requireAuth, s.handleUpdateArticle)
	api.Delete("/forum/articles/:id", s.requireAuth, s.handleDeleteArticle)
	api.Post("/forum/articles/:id/comments", s.requireAuth, s.handleCreateComment)
	api.Get("/forum/comments/:id", s.handleGetComment)
	api.Put("/forum/comments/:id", s.requireAuth, s.handleUpdateComment)
	api.Delete("/forum/comments/:id", s.requireAuth, s.handleDeleteComment)

	api.Get("/search", s.handleSearch)
	api.Get("/search/suggestions", s.handleSuggestions)

	api.Post("/moderation/companies/:id/moderate", s.requireAuth, s.requireAdmin, s.handleModerateCompany)
	api.Get("/moderation/companies", s.requireAuth, s.requireAdmin, s.handleModerationCompanies)
	api.Post("/forum/articles/:id/moderate", s.requireAuth, s.requireAdmin, s.handleModerateArticle)
	api.Post("/forum/comments/:id/moderate", s.requireAuth, s.requireAdmin, s.handleModerateComment)
	api.Post("/catalog/reviews/:id/moderate", s.requireAuth, s.requireAdmin, s.handleModerateReview)
	api.Get("/moderation/:type", s.requireAuth, s.requireAdmin, s.handlePendingQueue)

	api.Post("/upload", s.requireAuth, s.handleUpload)
}

// requireAuth validates the bearer token and stores the caller in the
// request context for downstream handlers.
func (s *Server) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing authorization header",
		})
	}

	s.mu.Lock()
	userID, ok := s.tokens[token]
	user := s.users[userID]
	s.mu.Unlock()

	if !ok || user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or expired token",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// requireAdmin gates the moderation endpoints.
func (s *Server) requireAdmin(c fiber.Ctx) error {
	user := c.Locals("user").(*core.User)
	if user.Role != core.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
	return c.Next()
}

// extractToken pulls the bearer token from the Authorization header.
func extractToken(c fiber.Ctx) string {
	const prefix = "Bearer "
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return ""
	}
	return header[len(prefix):]
}

func currentUser(c fiber.Ctx) *core.User {
	return c.Locals("user").(*core.User)
}

// id allocates the next entity id. Callers must hold s.mu.
func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// Seed creates a user directly, bypassing the HTTP surface. Useful for
// arranging fixtures in tests.
func (s *Server) Seed(name, email, password, role string) *core.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &core.User{ID: s.id(), Name: name, Email: email, Role: role}
	s.users[u.ID] = u
	s.passwords[u.ID] = password
	s.emails[email] = u.ID
	return u
}

// RevokeAll invalidates every issued token. Subsequent authenticated calls
// answer 401, which is how tests simulate an expired session.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]int64)
}

func (s *Server) issueToken(userID int64) string {
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func pathID(c fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func queryInt(c fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// pageWindow slices [0,total) into the requested page and fills the shared
// pagination metadata.
func pageWindow(total, page, perPage int) (lo, hi int, meta core.Page) {
	pages := (total + perPage - 1) / perPage
	lo = (page - 1) * perPage
	if lo > total {
		lo = total
	}
	hi = lo + perPage
	if hi > total {
		hi = total
	}
	return lo, hi, core.Page{Total: total, Pages: pages, CurrentPage: page, PerPage: perPage}
}

func errJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
