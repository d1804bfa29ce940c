package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligun0805/token-inferno/internal/storage"
	"github.com/ligun0805/token-inferno/internal/storage/storagetest"
)

func TestKVStore(t *testing.T) {
	storagetest.Run(t, func(*testing.T) storage.Store { return NewKVStore() })
}

func TestKVStore_CopiesValues(t *testing.T) {
	s := NewKVStore()
	v := []byte(`{"a":1}`)
	require.NoError(t, s.Set(context.Background(), "k", v))
	v[0] = 'X'

	got, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}
