package services

import (
	"context"
	"net/http"

	"github.com/dmalakhov/spravka/core"
)

// AuthService wraps the /auth endpoints and drives the AuthManager's state
// machine: the token and user returned by login/registration are installed
// into the session store together, never separately.
type AuthService struct {
	client  *core.Client
	manager *core.AuthManager
}

func NewAuth(client *core.Client, manager *core.AuthManager) *AuthService {
	return &AuthService{client: client, manager: manager}
}

// credentialsResponse is the login/registration payload.
type credentialsResponse struct {
	Message     string     `json:"message"`
	AccessToken string     `json:"access_token"`
	User        *core.User `json:"user"`
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*core.User, error) {
	if name == "" {
		return nil, core.ErrNameRequired
	}
	if email == "" {
		return nil, core.ErrEmailRequired
	}
	if password == "" {
		return nil, core.ErrPasswordRequired
	}

	var resp credentialsResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := s.client.Do(ctx, http.MethodPost, "/auth/register", nil, body, &resp); err != nil {
		return nil, err
	}

	if err := s.manager.SetSession(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Login authenticates with email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*core.User, error) {
	if email == "" {
		return nil, core.ErrEmailRequired
	}
	if password == "" {
		return nil, core.ErrPasswordRequired
	}

	var resp credentialsResponse
	body := map[string]string{"email": email, "password": password}
	if err := s.client.Do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}

	if err := s.manager.SetSession(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout discards the session. Purely client-side; the backend holds no
// revocable session state for bearer tokens.
func (s *AuthService) Logout() {
	s.manager.Logout()
}

// Profile fetches the authoritative profile from the backend.
func (s *AuthService) Profile(ctx context.Context) (*core.User, error) {
	var u core.User
	if err := s.client.Do(ctx, http.MethodGet, "/auth/profile", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ProfileUpdate carries the editable profile fields. Role and id are not
// editable through this endpoint.
type ProfileUpdate struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type profileResponse struct {
	Message string     `json:"message"`
	User    *core.User `json:"user"`
}

// UpdateProfile changes name and/or avatar, then folds the result into the
// cached user so authorization state stays consistent.
func (s *AuthService) UpdateProfile(ctx context.Context, update ProfileUpdate) (*core.User, error) {
	var resp profileResponse
	if err := s.client.Do(ctx, http.MethodPut, "/auth/profile", nil, update, &resp); err != nil {
		return nil, err
	}

	if resp.User != nil {
		if err := s.manager.ApplyProfile(resp.User); err != nil {
			return nil, err
		}
	}
	return resp.User, nil
}
