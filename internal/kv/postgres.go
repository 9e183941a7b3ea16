package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const queryTimeout = 5 * time.Second

// PostgresStore keeps one namespace of the kv_entries table.
type PostgresStore struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostgresStore binds namespace to the pool.
func NewPostgresStore(pool *pgxpool.Pool, namespace string) *PostgresStore {
	return &PostgresStore{pool: pool, namespace: namespace}
}

func (r *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2;`,
		r.namespace, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get kv entry: %w", err)
	}
	return value, nil
}

func (r *PostgresStore) Put(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
INSERT INTO kv_entries (namespace, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (namespace, key)
DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();`

	if _, err := r.pool.Exec(ctx, query, r.namespace, key, value); err != nil {
		return fmt.Errorf("put kv entry: %w", err)
	}
	return nil
}

func (r *PostgresStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM kv_entries WHERE namespace = $1 AND key = $2;`,
		r.namespace, key,
	); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}

func (r *PostgresStore) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT key FROM kv_entries WHERE namespace = $1 ORDER BY key LIMIT $2;`,
		r.namespace, ListPageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("list kv entries: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan kv key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kv keys: %w", err)
	}
	return keys, nil
}
