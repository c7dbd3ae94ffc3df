package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestInit(t *testing.T) {
	mr := miniredis.RunT(t)

	require.NoError(t, Init(&config.RedisConfig{Addr: mr.Addr()}))
	defer Close()

	assert.NotNil(t, GetClient())
	assert.NoError(t, Ping(context.Background()))
}

func TestInitUnreachable(t *testing.T) {
	err := Init(&config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	Close()
}

func TestJSONCache_SetGet(t *testing.T) {
	_, c := setupTestRedis(t)
	cache := NewJSONCache(c, "test:")
	ctx := context.Background()

	type payload struct {
		Total int    `json:"total"`
		Label string `json:"label"`
	}

	var got payload
	hit, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "k", payload{Total: 3, Label: "Jan"}, time.Minute))

	hit, err = cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Total: 3, Label: "Jan"}, got)

	require.NoError(t, cache.Delete(ctx, "k"))
	hit, err = cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestJSONCache_Expiry(t *testing.T) {
	mr, c := setupTestRedis(t)
	cache := NewJSONCache(c, "test:")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", 42, time.Second))
	mr.FastForward(2 * time.Second)

	var got int
	hit, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestJSONCache_CorruptValue(t *testing.T) {
	mr, c := setupTestRedis(t)
	cache := NewJSONCache(c, "test:")

	require.NoError(t, mr.Set("test:k", "{not json"))

	var got map[string]int
	_, err := cache.Get(context.Background(), "k", &got)
	assert.Error(t, err)
}

func TestTokenDenyList(t *testing.T) {
	mr, c := setupTestRedis(t)
	list := NewTokenDenyList(c)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenDenyList_ExpiredTokenIgnored(t *testing.T) {
	_, c := setupTestRedis(t)
	list := NewTokenDenyList(c)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-2", -time.Second))
	revoked, err := list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
