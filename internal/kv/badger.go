package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore maps one namespace onto a shared embedded Badger database by
// prefixing every key with "<namespace>:".
type BadgerStore struct {
	db     *badger.DB
	prefix []byte
}

// NewBadgerStore binds namespace to db. The caller owns db and closes it.
func NewBadgerStore(db *badger.DB, namespace string) *BadgerStore {
	return &BadgerStore{db: db, prefix: []byte(namespace + ":")}
}

func (s *BadgerStore) key(k string) []byte {
	out := make([]byte, 0, len(s.prefix)+len(k))
	out = append(out, s.prefix...)
	return append(out, k...)
}

func (s *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("badger get: %w", err)
	}
	return string(value), nil
}

func (s *BadgerStore) Put(ctx context.Context, key, value string) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), []byte(value))
	}); err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(key))
	}); err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

func (s *BadgerStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = s.prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix) && len(keys) < ListPageSize; it.Next() {
			keys = append(keys, string(it.Item().Key()[len(s.prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list: %w", err)
	}
	return keys, nil
}
