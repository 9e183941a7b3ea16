package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abduss/imgdrive/internal/config"
	"github.com/abduss/imgdrive/internal/media"
	"github.com/abduss/imgdrive/internal/metrics"
	"github.com/abduss/imgdrive/internal/objectstore"
	"github.com/abduss/imgdrive/internal/token"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type objectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix, delimiter string) (objectstore.Listing, error)
}

// Service implements uploads, listings, folder markers and bulk deletes over an object store.
type Service struct {
	store     objectStore
	cfg       config.GalleryConfig
	logger    *zap.Logger
	nowFunc   func() time.Time
	tokenFunc func() (string, error)
}

// NewService constructs a gallery service.
func NewService(store objectStore, cfg config.GalleryConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		nowFunc: time.Now,
		tokenFunc: func() (string, error) {
			return token.Alphanumeric(keyTokenLength)
		},
	}
}

// UploadObject classifies body by its signature and stores it under a derived key.
func (s *Service) UploadObject(ctx context.Context, body []byte, userPrefix string) (UploadResult, error) {
	if len(body) == 0 {
		return UploadResult{}, fmt.Errorf("%w: empty upload", ErrInvalidInput)
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(body)) > s.cfg.MaxUploadBytes {
		return UploadResult{}, ErrFileTooLarge
	}

	format, ok := media.Detect(body)
	if !ok {
		return UploadResult{}, ErrUnsupportedMediaType
	}

	tok, err := s.tokenFunc()
	if err != nil {
		return UploadResult{}, fmt.Errorf("generate key token: %w", err)
	}
	key := DeriveKey(s.nowFunc(), tok, format.Extension, userPrefix)

	if err := s.store.Put(ctx, key, body, format.MIME); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	metrics.ObserveUpload(format.Extension, len(body))
	s.logger.Info("object uploaded",
		zap.String("key", key),
		zap.String("mime", format.MIME),
		zap.String("size", humanize.Bytes(uint64(len(body)))),
	)

	url := DirectURL(s.cfg.BaseURL, key)
	return UploadResult{
		Key:      key,
		URL:      url,
		Markdown: fmt.Sprintf("![img](%s)", url),
		MIME:     format.MIME,
		Size:     len(body),
	}, nil
}

// ListPath returns one page of the directory view under prefix.
func (s *Service) ListPath(ctx context.Context, prefix string, page, pageSize int) (Page, error) {
	page, pageSize = s.normalizePaging(page, pageSize)

	listing, err := s.store.List(ctx, prefix, objectstore.DefaultDelimiter)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return Project(listing, prefix, page, pageSize, s.cfg.BaseURL), nil
}

// DeleteObjects removes every key concurrently and reports each outcome. It is
// best effort: failures on some keys never roll back the others.
func (s *Service) DeleteObjects(ctx context.Context, keys []string) (DeleteResult, error) {
	if len(keys) == 0 {
		return DeleteResult{}, fmt.Errorf("%w: no keys provided", ErrInvalidInput)
	}
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			return DeleteResult{}, fmt.Errorf("%w: empty key", ErrInvalidInput)
		}
	}

	errs := make([]error, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			errs[i] = s.store.Delete(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	result := DeleteResult{DeletedKeys: []string{}, Failed: []DeleteFailure{}}
	for i, key := range keys {
		if errs[i] != nil {
			metrics.ObserveDelete("failed")
			s.logger.Warn("delete object failed", zap.String("key", key), zap.Error(errs[i]))
			result.Failed = append(result.Failed, DeleteFailure{Key: key, Error: errs[i].Error()})
			continue
		}
		metrics.ObserveDelete("deleted")
		result.DeletedKeys = append(result.DeletedKeys, key)
	}
	return result, nil
}

// CreateFolder writes a zero-byte directory marker at "<path>/.null" and returns
// the normalized folder path.
func (s *Service) CreateFolder(ctx context.Context, path string) (string, error) {
	folder := NormalizePrefix(path)
	if folder == "" {
		return "", fmt.Errorf("%w: folder path is required", ErrInvalidInput)
	}

	if err := s.store.Put(ctx, folder+MarkerName, []byte{}, MarkerContentType); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}
	s.logger.Info("folder created", zap.String("path", folder))
	return folder, nil
}

func (s *Service) normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if s.cfg.MaxPageSize > 0 && pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}
	return page, pageSize
}
