package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abduss/imgdrive/internal/kv"
)

// PreferenceStore keeps the upload path chosen by each chat.
type PreferenceStore struct {
	store kv.Store
}

// NewPreferenceStore wraps a store bound to the upload_paths namespace.
func NewPreferenceStore(store kv.Store) *PreferenceStore {
	return &PreferenceStore{store: store}
}

// UploadPath returns the chat's upload prefix. Unset and "/" both mean the root
// and yield "".
func (p *PreferenceStore) UploadPath(ctx context.Context, chatID int64) (string, error) {
	path, err := p.store.Get(ctx, chatKey(chatID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load upload path: %w", err)
	}
	if strings.TrimSpace(path) == "/" {
		return "", nil
	}
	return path, nil
}

// SetUploadPath stores path for the chat.
func (p *PreferenceStore) SetUploadPath(ctx context.Context, chatID int64, path string) error {
	if err := p.store.Put(ctx, chatKey(chatID), path); err != nil {
		return fmt.Errorf("save upload path: %w", err)
	}
	return nil
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
