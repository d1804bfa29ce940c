// Package file stores each key as a JSON document in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ligun0805/token-inferno/internal/storage"
)

type KVStore struct {
	dir string
}

var _ storage.Store = (*KVStore)(nil)

// NewKVStore creates dir if needed.
func NewKVStore(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &KVStore{dir: dir}, nil
}

func (s *KVStore) path(key string) string { return filepath.Join(s.dir, key+".json") }

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	if !storage.ValidKey(key) {
		return nil, storage.ErrInvalidInput
	}
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

// Set writes through a temp file and rename so readers never see a partial
// document.
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	if !storage.ValidKey(key) {
		return storage.ErrInvalidInput
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Clear(_ context.Context, key string) error {
	if !storage.ValidKey(key) {
		return storage.ErrInvalidInput
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}
