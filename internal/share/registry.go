package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abduss/imgdrive/internal/gallery"
	"github.com/abduss/imgdrive/internal/kv"
	"github.com/abduss/imgdrive/internal/token"
	"go.uber.org/zap"
)

const createAttempts = 3

// Registry persists share records in a key-value namespace keyed by share id.
type Registry struct {
	store     kv.Store
	logger    *zap.Logger
	tokenFunc func() (string, error)
}

// NewRegistry constructs a registry over store.
func NewRegistry(store kv.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:  store,
		logger: logger,
		tokenFunc: func() (string, error) {
			return token.Alphanumeric(IDLength)
		},
	}
}

// Create stores a new share for scope. The scope is normalized to end with "/"
// unless it denotes the root.
func (r *Registry) Create(ctx context.Context, scope string) (Record, error) {
	if err := ValidatePath(scope); err != nil {
		return Record{}, err
	}
	scope = gallery.NormalizePrefix(scope)

	value, err := json.Marshal(storedRecord{Path: scope})
	if err != nil {
		return Record{}, fmt.Errorf("encode share: %w", err)
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		id, err := r.tokenFunc()
		if err != nil {
			return Record{}, fmt.Errorf("generate share id: %w", err)
		}

		_, err = r.store.Get(ctx, id)
		switch {
		case err == nil:
			r.logger.Warn("share id collision", zap.Int("attempt", attempt+1))
			continue
		case !errors.Is(err, kv.ErrNotFound):
			return Record{}, fmt.Errorf("%w: %w", ErrRegistry, err)
		}

		if err := r.store.Put(ctx, id, string(value)); err != nil {
			return Record{}, fmt.Errorf("%w: %w", ErrRegistry, err)
		}
		r.logger.Info("share created", zap.String("share_id", id), zap.String("path", scope))
		return Record{ID: id, Path: scope}, nil
	}
	return Record{}, fmt.Errorf("%w: could not allocate a unique share id", ErrRegistry)
}

// Resolve returns the scope of id. Ids of the wrong shape are rejected as
// ErrNotFound before the store is consulted.
func (r *Registry) Resolve(ctx context.Context, id string) (string, error) {
	if !ValidID(id) {
		return "", ErrNotFound
	}

	value, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	return decodeScope(value)
}

// List enumerates share records. Only the first kv.ListPageSize ids are read.
func (r *Registry) List(ctx context.Context) ([]Record, error) {
	ids, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
	}

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		value, err := r.store.Get(ctx, id)
		if err != nil {
			// revoked between List and Get
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
		}
		scope, err := decodeScope(value)
		if err != nil {
			r.logger.Warn("skipping unreadable share record", zap.String("share_id", id), zap.Error(err))
			continue
		}
		records = append(records, Record{ID: id, Path: scope})
	}
	return records, nil
}

// Revoke deletes id. Revoking an unknown or malformed id succeeds.
func (r *Registry) Revoke(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	r.logger.Info("share revoked", zap.String("share_id", id))
	return nil
}

// ValidID reports whether id has the exact length and charset of a share id.
func ValidID(id string) bool {
	return token.IsAlphanumeric(id, IDLength)
}

// ValidatePath rejects paths that could step outside a prefix once
// concatenated: leading "/", backslashes, and "." or ".." segments.
func ValidatePath(p string) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return ErrInvalidInput
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == "." || segment == ".." {
			return ErrInvalidInput
		}
	}
	return nil
}

func decodeScope(value string) (string, error) {
	var rec storedRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return "", fmt.Errorf("%w: decode share: %w", ErrRegistry, err)
	}
	// records written without a trailing "/" still join cleanly
	return gallery.NormalizePrefix(rec.Path), nil
}
