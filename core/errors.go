package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Authorization errors
var (
	ErrLoginRequired = errors.New("you must be signed in to perform this action") // 401
	ErrAdminRequired = errors.New("you do not have permission for this action")   // 403
)

// Transport errors
var (
	// ErrServerUnreachable is returned when the request never produced an
	// HTTP response at all. It is deliberately distinct from APIError so
	// callers can tell "server rejected" from "server unreachable".
	ErrServerUnreachable = errors.New("cannot reach the server, check that it is running")
)

// Session store errors
var (
	ErrNoSession      = errors.New("no stored session")
	ErrSessionCorrupt = errors.New("stored session is corrupt")
)

// Validation errors (caught before any request is issued)
var (
	ErrEmailRequired    = errors.New("email is required")              // 400
	ErrPasswordRequired = errors.New("password is required")           // 400
	ErrNameRequired     = errors.New("name is required")               // 400
	ErrCompanyRequired  = errors.New("company id is required")         // 400
	ErrCategoryRequired = errors.New("category is required")           // 400
	ErrCityRequired     = errors.New("city is required")               // 400
	ErrRatingInvalid    = errors.New("rating must be between 1 and 5") // 400
	ErrTitleRequired    = errors.New("title is required")              // 400
	ErrContentRequired  = errors.New("content is required")            // 400
	ErrTextRequired     = errors.New("text is required")               // 400
	ErrQueryRequired    = errors.New("search query is required")       // 400
	ErrStatusInvalid    = errors.New("invalid moderation status")      // 400
	ErrFileRequired     = errors.New("file is required")               // 400
)

// Config errors
var (
	ErrBaseURLRequired = errors.New("base URL is required")
)

// APIError is an HTTP-level rejection: the backend was reachable and
// answered with a non-success status.
//
// Message prefers the server-supplied "error" or "msg" field from the JSON
// error body. When the body is not parseable JSON the message falls back to
// "HTTP <code>: <status text>".
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError from a status code and the decoded error
// body fields. Empty message falls back to the numeric status line.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	return &APIError{Status: status, Message: message}
}

// IsUnauthorized reports whether err is an HTTP 401 rejection.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is an HTTP 404 rejection.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
