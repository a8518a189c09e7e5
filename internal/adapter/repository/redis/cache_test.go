package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetAndGet(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "party:42", `{"id":42,"balance":"100"}`, time.Minute)
	require.NoError(t, err)

	val, err := cache.Get(ctx, "party:42")
	require.NoError(t, err)
	require.Equal(t, `{"id":42,"balance":"100"}`, val)
}

func TestCacheGetMissingKey(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)

	_, err := cache.Get(context.Background(), "party:404")
	require.Error(t, err)
}

func TestCacheKeysAreNamespaced(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "party:7", "cached", time.Minute))

	val, err := client.Get(ctx, "cache:party:7").Result()
	require.NoError(t, err)
	require.Equal(t, "cached", val)
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "party:9", "stale", time.Minute))
	require.NoError(t, cache.Delete(ctx, "party:9"))

	_, err := cache.Get(ctx, "party:9")
	require.Error(t, err, "expected error getting deleted key")
}

func TestCacheEntriesExpire(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "party:3", "short lived", time.Second))

	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "party:3")
	require.Error(t, err, "expected key to expire")
}
