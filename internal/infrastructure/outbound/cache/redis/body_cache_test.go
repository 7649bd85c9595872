package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollup-blog-service/internal/domain/custom_errors"
	"rollup-blog-service/internal/infrastructure/logger"
	redis_cache "rollup-blog-service/internal/infrastructure/outbound/cache/redis"
)

func setupBodyCache(t *testing.T, ttl time.Duration) (*redis_cache.BodyCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	log := logger.New("test")
	client := redis_cache.NewClientFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), log)
	t.Cleanup(func() { _ = client.Close() })

	return redis_cache.NewBodyCache(client, log, ttl), mr
}

func TestBodyCache_GetSet(t *testing.T) {
	cache, mr := setupBodyCache(t, time.Hour)
	ctx := context.Background()

	_, err := cache.GetBody(ctx, "cidA")
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)

	require.NoError(t, cache.SetBody(ctx, "cidA", []byte("World")))

	body, err := cache.GetBody(ctx, "cidA")
	require.NoError(t, err)
	assert.Equal(t, "World", string(body))
	assert.Equal(t, time.Hour, mr.TTL("post_body:cidA"))
}

func TestBodyCache_Expiry(t *testing.T) {
	cache, mr := setupBodyCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetBody(ctx, "cidA", []byte("World")))
	mr.FastForward(2 * time.Minute)

	_, err := cache.GetBody(ctx, "cidA")
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)
}

func TestBodyCache_EmptyRef(t *testing.T) {
	cache, _ := setupBodyCache(t, 0)
	assert.Error(t, cache.SetBody(context.Background(), "", []byte("x")))
}

func TestBodyCache_Unreachable(t *testing.T) {
	cache, mr := setupBodyCache(t, time.Minute)
	mr.Close()

	_, err := cache.GetBody(context.Background(), "cidA")
	require.Error(t, err)
	assert.NotErrorIs(t, err, custom_errors.ErrCacheMiss)
}
