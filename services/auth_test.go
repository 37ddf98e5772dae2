package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmalakhov/spravka/core"
)

// newTestClient wires a client, auth manager and fake store against handler.
// The server is closed on test cleanup.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*core.Client, *core.AuthManager, *FakeSessionStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := NewFakeSessionStore()
	client := core.NewClient(server.URL, nil, store, nil)
	manager := core.NewAuthManager(store, nil)
	client.OnUnauthorized(manager.HandleUnauthorized)
	return client, manager, store
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// Requirement: login validates locally, then installs the returned token and
// user into the store as one record.
func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantNet  bool
	}{
		{
			name:     "signs in and persists the session",
			email:    "alice@example.com",
			password: "secret",
			wantNet:  true,
		},
		{
			name:     "rejects an empty email without a network call",
			email:    "",
			password: "secret",
			wantErr:  core.ErrEmailRequired,
		},
		{
			name:    "rejects an empty password without a network call",
			email:   "alice@example.com",
			wantErr: core.ErrPasswordRequired,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			calls := 0
			client, manager, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
					t.Errorf("request = %s %s, want POST /auth/login", r.Method, r.URL.Path)
				}
				writeJSON(t, w, http.StatusOK, map[string]any{
					"message":      "Login successful",
					"access_token": "tok-login",
					"user":         core.User{ID: 1, Name: "Alice", Email: test.email, Role: core.RoleUser},
				})
			})
			service := NewAuth(client, manager)

			// Act
			user, err := service.Login(context.Background(), test.email, test.password)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, test.wantErr)
			}
			if test.wantNet != (calls == 1) {
				t.Errorf("server calls = %d, wantNet %v", calls, test.wantNet)
			}
			if test.wantErr != nil {
				return
			}
			if user == nil || user.Name != "Alice" {
				t.Errorf("Login() user = %+v, want Alice", user)
			}
			if !manager.IsAuthenticated() {
				t.Error("manager should be authenticated after login")
			}
			saved, err := store.Load()
			if err != nil {
				t.Fatalf("store.Load() error = %v", err)
			}
			if saved.Token != "tok-login" || saved.User.Name != "Alice" {
				t.Errorf("persisted session = %+v, want token and user together", saved)
			}
		})
	}
}

// Requirement: registration needs name, email and password, and signs the new
// account in on success.
func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "creates the account and signs in", userName: "Bob", email: "bob@example.com", password: "pw"},
		{name: "rejects a missing name", email: "bob@example.com", password: "pw", wantErr: core.ErrNameRequired},
		{name: "rejects a missing email", userName: "Bob", password: "pw", wantErr: core.ErrEmailRequired},
		{name: "rejects a missing password", userName: "Bob", email: "bob@example.com", wantErr: core.ErrPasswordRequired},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			client, manager, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/register" {
					t.Errorf("path = %s, want /auth/register", r.URL.Path)
				}
				var body map[string]string
				_ = json.NewDecoder(r.Body).Decode(&body)
				writeJSON(t, w, http.StatusCreated, map[string]any{
					"message":      "User registered successfully",
					"access_token": "tok-reg",
					"user":         core.User{ID: 2, Name: body["name"], Email: body["email"], Role: core.RoleUser},
				})
			})
			service := NewAuth(client, manager)

			// Act
			user, err := service.Register(context.Background(), test.userName, test.email, test.password)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr != nil {
				return
			}
			if user == nil || user.Name != "Bob" {
				t.Errorf("Register() user = %+v, want Bob", user)
			}
			if !manager.IsAuthenticated() {
				t.Error("manager should be authenticated after registration")
			}
		})
	}
}

// Requirement: a backend rejection surfaces as an APIError carrying the
// server's message and leaves the manager anonymous.
func TestAuthService_Login_BadCredentials(t *testing.T) {
	// Arrange
	client, manager, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	})
	service := NewAuth(client, manager)

	// Act
	_, err := service.Login(context.Background(), "alice@example.com", "wrong")

	// Assert
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Fatalf("Login() error = %v, want APIError with the server message", err)
	}
	if manager.IsAuthenticated() {
		t.Error("manager should stay anonymous after a failed login")
	}
}

// Requirement: a store that cannot persist the session fails the login; a
// token the client would immediately lose is worse than no login.
func TestAuthService_Login_StoreFailure(t *testing.T) {
	// Arrange
	client, manager, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token": "tok",
			"user":         core.User{ID: 1, Name: "A", Email: "a@x", Role: core.RoleUser},
		})
	})
	store.saveErr = errors.New("disk full")
	service := NewAuth(client, manager)

	// Act
	_, err := service.Login(context.Background(), "a@x", "pw")

	// Assert
	if err == nil || !errors.Is(err, store.saveErr) {
		t.Fatalf("Login() error = %v, want the store failure", err)
	}
	if manager.IsAuthenticated() {
		t.Error("manager should stay anonymous when persistence fails")
	}
}

// Requirement: a profile update is sent as PUT and the result is folded into
// the cached user, keeping token and user persisted together.
func TestAuthService_UpdateProfile(t *testing.T) {
	// Arrange
	client, manager, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/auth/profile" {
			t.Errorf("request = %s %s, want PUT /auth/profile", r.Method, r.URL.Path)
		}
		var update ProfileUpdate
		_ = json.NewDecoder(r.Body).Decode(&update)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"message": "Profile updated",
			"user":    core.User{ID: 1, Name: update.Name, Email: "alice@example.com", Role: core.RoleUser, Avatar: update.Avatar},
		})
	})
	if err := manager.SetSession("tok-1", &core.User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: core.RoleUser}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}
	service := NewAuth(client, manager)

	// Act
	updated, err := service.UpdateProfile(context.Background(), ProfileUpdate{Name: "Alice B", Avatar: "/a.png"})

	// Assert
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Alice B" {
		t.Errorf("updated.Name = %q, want Alice B", updated.Name)
	}
	if current := manager.CurrentUser(); current.Name != "Alice B" || current.Avatar != "/a.png" {
		t.Errorf("cached user = %+v, want the folded update", current)
	}
	saved, _ := store.Load()
	if saved.Token != "tok-1" {
		t.Error("token should survive a profile update")
	}
}

// Requirement: logout always lands in the anonymous state with the store
// emptied.
func TestAuthService_Logout(t *testing.T) {
	client, manager, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if err := manager.SetSession("tok", &core.User{ID: 1, Name: "A", Email: "a@x", Role: core.RoleUser}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}
	service := NewAuth(client, manager)

	service.Logout()

	if manager.IsAuthenticated() {
		t.Error("manager should be anonymous after logout")
	}
	if _, err := store.Load(); !errors.Is(err, core.ErrNoSession) {
		t.Errorf("store.Load() error = %v, want ErrNoSession", err)
	}
}
