package share

import (
	"context"
	"errors"

	"github.com/abduss/imgdrive/internal/gallery"
	"github.com/abduss/imgdrive/internal/metrics"
)

type pathLister interface {
	ListPath(ctx context.Context, prefix string, page, pageSize int) (gallery.Page, error)
}

// Service serves listings confined to a share's scope.
type Service struct {
	registry *Registry
	lister   pathLister
}

// NewService constructs a share service.
func NewService(registry *Registry, lister pathLister) *Service {
	return &Service{registry: registry, lister: lister}
}

// Registry exposes the underlying share registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// ListSharedPath lists scope+relativePath for the share id. The relative path
// is validated before concatenation so the listing stays inside the scope.
func (s *Service) ListSharedPath(ctx context.Context, id, relativePath string, page, pageSize int) (gallery.Page, error) {
	scope, err := s.registry.Resolve(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.ObserveShareLookup("not_found")
		} else {
			metrics.ObserveShareLookup("error")
		}
		return gallery.Page{}, err
	}

	if err := ValidatePath(relativePath); err != nil {
		metrics.ObserveShareLookup("rejected")
		return gallery.Page{}, err
	}

	metrics.ObserveShareLookup("found")
	return s.lister.ListPath(ctx, scope+gallery.NormalizePrefix(relativePath), page, pageSize)
}
