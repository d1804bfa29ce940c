package memory

import (
	"context"
	"sync"

	"github.com/ligun0805/token-inferno/internal/storage"
)

// KVStore is an in-memory implementation of storage.Store.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

// Compile-time interface check.
var _ storage.Store = (*KVStore)(nil)

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	if !storage.ValidKey(key) {
		return nil, storage.ErrInvalidInput
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	if !storage.ValidKey(key) {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *KVStore) Clear(_ context.Context, key string) error {
	if !storage.ValidKey(key) {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
