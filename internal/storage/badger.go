package storage

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens (or creates) the embedded registry database at path.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}
