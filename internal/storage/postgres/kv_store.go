package postgres

import (
	"context"
	"fmt"

	"github.com/ligun0805/token-inferno/internal/storage"
)

// Schema matches sql/postgres/001_kv_store.sql.
const Schema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// KVStore implements storage.Store on a single Postgres table. Values must
// be JSON documents.
type KVStore struct {
	pool *Pool
}

func NewKVStore(pool *Pool) *KVStore {
	return &KVStore{pool: pool}
}

var _ storage.Store = (*KVStore)(nil)

// EnsureSchema creates the table when it is missing.
func (s *KVStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if !storage.ValidKey(key) {
		return nil, storage.ErrInvalidInput
	}
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if !storage.ValidKey(key) {
		return storage.ErrInvalidInput
	}
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Clear(ctx context.Context, key string) error {
	if !storage.ValidKey(key) {
		return storage.ErrInvalidInput
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}
