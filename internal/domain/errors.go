package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrClientNotReady indicates no actor handle is available yet
	ErrClientNotReady = errors.New("actor client is not ready")

	// ErrNotAuthenticated indicates a caller-scoped operation without an identity
	ErrNotAuthenticated = errors.New("caller is not authenticated")

	// ErrAlreadyAuthenticated is returned by the identity provider when login
	// is attempted while a session is active
	ErrAlreadyAuthenticated = errors.New("user is already authenticated")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("backend is unreachable")

	// ErrUnauthorized indicates the delegation was rejected
	ErrUnauthorized = errors.New("delegation is invalid or expired")

	// ErrLinkExpired indicates the login link code expired before approval
	ErrLinkExpired = errors.New("login link code has expired")

	// ErrIndexOutOfRange indicates a product index past the end of the list
	ErrIndexOutOfRange = errors.New("product index out of range")

	// ErrInvalidRole indicates an unknown role name
	ErrInvalidRole = errors.New("role must be one of admin, user, guest")
)

// RemoteError wraps a failure of a single actor method
type RemoteError struct {
	Method string
	Err    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
