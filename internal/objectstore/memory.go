package objectstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	body        []byte
	contentType string
	uploadedAt  time.Time
}

// MemoryStore is an in-process Gateway with S3 listing semantics (lexicographic key order).
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	nowFunc func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		nowFunc: time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := make([]byte, len(body))
	copy(buf, body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{body: buf, contentType: contentType, uploadedAt: s.nowFunc().UTC()}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix, delimiter string) (Listing, error) {
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}

	s.mu.RLock()
	snapshot := make(map[string]memoryObject)
	keys := make([]string, 0, len(s.objects))
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
			snapshot[key] = obj
		}
	}
	s.mu.RUnlock()
	sort.Strings(keys)

	var listing Listing
	seen := make(map[string]struct{})
	for _, key := range keys {
		rest := key[len(prefix):]
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				common := prefix + rest[:idx+len(delimiter)]
				if _, ok := seen[common]; !ok {
					seen[common] = struct{}{}
					listing.CommonPrefixes = append(listing.CommonPrefixes, common)
				}
				continue
			}
		}

		obj := snapshot[key]
		listing.Objects = append(listing.Objects, ObjectInfo{
			Key:        key,
			Size:       int64(len(obj.body)),
			UploadedAt: obj.uploadedAt,
		})
	}
	return listing, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ContentType returns the content type recorded for key.
func (s *MemoryStore) ContentType(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.contentType, ok
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
