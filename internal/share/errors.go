package share

import "errors"

var (
	// ErrNotFound is returned for unknown, revoked or malformed share ids.
	ErrNotFound = errors.New("share not found")
	// ErrInvalidInput signals a scope or relative path that is not a plain key prefix.
	ErrInvalidInput = errors.New("invalid share path")
	// ErrRegistry wraps key-value backend failures.
	ErrRegistry = errors.New("share registry failure")
)
