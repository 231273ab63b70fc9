// Package error defines domain-specific errors for the community ledger service.
package error

import "errors"

// Auth errors raised by the token middleware.
var (
	// ErrInvalidToken is returned when the bearer token cannot be validated.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingCommunityScope is returned when a token is not scoped to the requested community.
	ErrMissingCommunityScope = errors.New("token is not scoped to this community")
)

// AuthErrorCode defines error codes for authentication errors.
type AuthErrorCode string

const (
	ErrCodeRateLimited  AuthErrorCode = "AUTH-020003"
	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"
)
