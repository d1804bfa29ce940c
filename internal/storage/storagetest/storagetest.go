// Package storagetest holds behaviour checks shared by every storage.Store.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligun0805/token-inferno/internal/storage"
)

// Run exercises get/set/clear semantics against a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "absent")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "inferno-burn-storage", []byte(`{"state":{"totalBurned":1},"version":0}`)))
		got, err := s.Get(ctx, "inferno-burn-storage")
		require.NoError(t, err)
		assert.JSONEq(t, `{"state":{"totalBurned":1},"version":0}`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "k", []byte(`{"v":1}`)))
		require.NoError(t, s.Set(ctx, "k", []byte(`{"v":2}`)))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(got))
	})

	t.Run("clear", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "k", []byte(`{}`)))
		require.NoError(t, s.Clear(ctx, "k"))
		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		require.NoError(t, s.Clear(ctx, "k"))
	})

	t.Run("invalid keys", func(t *testing.T) {
		s := newStore(t)
		for _, key := range []string{"", "  ", "..", "a/b", `a\b`} {
			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, storage.ErrInvalidInput, "get %q", key)
			assert.ErrorIs(t, s.Set(ctx, key, []byte(`{}`)), storage.ErrInvalidInput, "set %q", key)
			assert.ErrorIs(t, s.Clear(ctx, key), storage.ErrInvalidInput, "clear %q", key)
		}
	})
}
