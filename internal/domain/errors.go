package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserAlreadyExists = errors.New("user with this spotify id already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrSessionNotFound   = errors.New("session not found or expired")
)

// AuthError is returned when the provider's token endpoint rejects an
// exchange or refresh, or answers with a body we cannot parse. It is
// user-visible (redirect to login or an error payload) and never fatal.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("token exchange failed: %s", e.Message)
	}
	return fmt.Sprintf("token endpoint returned %d: %s", e.StatusCode, e.Message)
}

// UpstreamError is returned when a provider API call fails at the
// transport level or with a non-2xx status. Callers must treat it as
// "try again", not as "user has no data".
type UpstreamError struct {
	StatusCode int
	Endpoint   string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spotify request %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("spotify request %s returned status %d", e.Endpoint, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
