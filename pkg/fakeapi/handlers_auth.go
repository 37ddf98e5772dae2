package fakeapi

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dmalakhov/spravka/core"
)

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c fiber.Ctx) error {
	var in registerInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return errJSON(c, fiber.StatusBadRequest, "Email, password and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[in.Email]; exists {
		return errJSON(c, fiber.StatusBadRequest, "User already exists")
	}

	u := &core.User{ID: s.id(), Name: in.Name, Email: in.Email, Role: core.RoleUser}
	s.users[u.ID] = u
	s.passwords[u.ID] = in.Password
	s.emails[in.Email] = u.ID

	return c.JSON(fiber.Map{
		"message":      "User registered successfully",
		"access_token": s.issueToken(u.ID),
		"user":         u,
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c fiber.Ctx) error {
	var in loginInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.Email == "" || in.Password == "" {
		return errJSON(c, fiber.StatusBadRequest, "Email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.emails[in.Email]
	if !ok || s.passwords[userID] != in.Password {
		return errJSON(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(fiber.Map{
		"message":      "Login successful",
		"access_token": s.issueToken(userID),
		"user":         s.users[userID],
	})
}

func (s *Server) handleGetProfile(c fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

type profileInput struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

func (s *Server) handleUpdateProfile(c fiber.Ctx) error {
	var in profileInput
	if err := c.Bind().Body(&in); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)

	s.mu.Lock()
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	s.mu.Unlock()

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
