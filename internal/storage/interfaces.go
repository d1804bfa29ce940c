// Package storage defines the key-value store that persists client state
// between sessions.
package storage

import (
	"context"
	"strings"
)

// Store persists opaque values by key.
type Store interface {
	// Get returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}

// ValidKey rejects empty keys and keys that could escape a directory.
func ValidKey(key string) bool {
	if strings.TrimSpace(key) == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}
