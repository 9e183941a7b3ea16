// Package kv provides small namespaced key-value stores used for share records
// and per-chat upload preferences.
package kv

import (
	"context"
	"errors"
)

// ListPageSize is the most keys List returns. Enumeration does not continue past
// one page; callers holding more entries than this see a truncated view.
const ListPageSize = 1000

// Namespaces used by the application.
const (
	NamespaceShares      = "shares"
	NamespaceUploadPaths = "upload_paths"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is a flat string-to-string map bound to a single namespace.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	// Delete succeeds when the key does not exist.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}
