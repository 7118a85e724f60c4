package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisStore_Allow(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	store := NewRedisStore(client, 3, discardLogger())
	identifier := "test-" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), keyPrefix+identifier) })

	for i := range 3 {
		allowed, err := store.Allow(identifier)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := store.Allow(identifier)
	require.NoError(t, err)
	assert.False(t, allowed)

	ttl, err := client.TTL(context.Background(), keyPrefix+identifier).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}

func TestRedisStore_FailsOpen(t *testing.T) {
	// Nothing listens on this port
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, 1, discardLogger())

	allowed, err := store.Allow("anyone")
	require.NoError(t, err)
	assert.True(t, allowed)
}
