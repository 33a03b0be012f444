package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestFilterCache_MissThenHit(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewFilterCache(client)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "status:PAID")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "status:PAID", []int64{3, 1}))

	ids, ok := cache.Get(ctx, "status:PAID")
	require.True(t, ok)
	assert.Equal(t, []int64{3, 1}, ids)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, cache.Stats())
}

func TestFilterCache_EmptySetIsCached(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewFilterCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "table_number:9", nil))

	ids, ok := cache.Get(ctx, "table_number:9")
	require.True(t, ok)
	assert.Empty(t, ids)
}

func TestFilterCache_ExpiresAfterTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewFilterCache(client, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "date:2024-01-01", []int64{1}))

	mr.FastForward(59 * time.Second)
	_, ok := cache.Get(ctx, "date:2024-01-01")
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok = cache.Get(ctx, "date:2024-01-01")
	assert.False(t, ok)
}

func TestFilterCache_Prefix(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewFilterCache(client, WithPrefix("cafe:"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "status:READY", []int64{2}))

	assert.True(t, mr.Exists("cafe:status:READY"))
	assert.False(t, mr.Exists(DefaultPrefix+"status:READY"))
}

func TestFilterCache_CorruptPayloadIsMiss(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewFilterCache(client)

	require.NoError(t, mr.Set(DefaultPrefix+"status:PAID", "not json"))

	_, ok := cache.Get(context.Background(), "status:PAID")
	assert.False(t, ok)
	assert.Equal(t, int64(1), cache.Stats().Misses)
}

func TestFilterCache_UnavailableRedisIsMiss(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewFilterCache(client)
	ctx := context.Background()

	mr.Close()

	_, ok := cache.Get(ctx, "status:PAID")
	assert.False(t, ok)
	assert.Error(t, cache.Set(ctx, "status:PAID", []int64{1}))
}
