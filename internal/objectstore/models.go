// Package objectstore adapts flat key-value object stores to the listing contract
// used by the gallery: put, delete and a one-level prefix/delimiter listing.
package objectstore

import (
	"context"
	"errors"
	"time"
)

// DefaultDelimiter groups keys one "directory" deep.
const DefaultDelimiter = "/"

// ErrUnsupportedDelimiter is returned by backends that can only group on "/".
var ErrUnsupportedDelimiter = errors.New("unsupported delimiter")

// ObjectInfo is the listing view of a stored object.
type ObjectInfo struct {
	Key        string
	Size       int64
	UploadedAt time.Time
}

// Listing is the result of a delimited listing. CommonPrefixes keep their trailing delimiter.
type Listing struct {
	CommonPrefixes []string
	Objects        []ObjectInfo
}

// Gateway is implemented by every backend.
type Gateway interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix, delimiter string) (Listing, error)
	Ping(ctx context.Context) error
}
