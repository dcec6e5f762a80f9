package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopStore(t *testing.T) {
	var store Store = NopStore{}
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dest map[string]int
	found, err := store.GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dest)

	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}
