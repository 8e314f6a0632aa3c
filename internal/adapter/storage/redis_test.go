package storage_test

import (
	"testing"
	"time"

	"github.com/niksmo/local-market/internal/adapter/storage"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a Redis on localhost:6379; skipped otherwise.
func TestRedisKeyValueStoreIntegration(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "localhost:6379",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	if err := rdb.Ping(t.Context()).Err(); err != nil {
		_ = rdb.Close()
		t.Skip("redis is not available")
	}

	s := storage.NewRedisKeyValueStoreFromClient(rdb)
	defer s.Close()

	key := "test:" + t.Name()
	require.NoError(t, s.Set(t.Context(), key, "v1"))

	v, err := s.Get(t.Context(), key)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	require.NoError(t, s.Delete(t.Context(), key))
	_, err = s.Get(t.Context(), key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
