package auth

import "errors"

var (
	// ErrInvalidSecret is returned when the presented key does not match the configured secret.
	ErrInvalidSecret = errors.New("invalid secret")
	// ErrUnauthorized represents missing or invalid session tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
