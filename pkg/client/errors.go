package client

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired is returned when the backend answers 401. The
	// session handler has already been notified by the time a caller
	// sees this error.
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidEmail is returned before any request when the email does
	// not look like local@domain.tld.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrPasswordTooShort is returned before any request when a signup
	// password has fewer than 8 characters.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrPasswordRequired is returned before any request when a login
	// password is empty.
	ErrPasswordRequired = errors.New("password is required")
)

// APIError carries a backend-reported failure: the HTTP status and the
// error string from the response envelope.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}
