package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastCache_SetGetDel(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	require.NoError(t, fc.Set(ctx, "k", "v", 0).Err())
	v, err := fc.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	assert.Equal(t, int64(1), fc.Del(ctx, "k", "missing").Val())
	_, err = fc.Get(ctx, "k").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestFastCache_StructValueIsJSON(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	require.NoError(t, fc.Set(ctx, "s", struct {
		State string `json:"state"`
	}{"idle"}, time.Minute).Err())
	assert.JSONEq(t, `{"state":"idle"}`, fc.Get(ctx, "s").Val())
}

func TestFastCache_Expiry(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	fc.now = func() time.Time { return now }

	fc.Set(ctx, "k", "v", time.Minute)
	assert.Equal(t, "v", fc.Get(ctx, "k").Val())

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, fc.Get(ctx, "k").Err(), redis.Nil)

	fc.Set(ctx, "k2", "v", time.Minute)
	assert.True(t, fc.Expire(ctx, "k2", time.Hour).Val())
	now = now.Add(30 * time.Minute)
	assert.Equal(t, "v", fc.Get(ctx, "k2").Val())
	assert.False(t, fc.Expire(ctx, "nope", time.Hour).Val())
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	release, ok, err := l.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryLock(ctx, "job", time.Minute)
	assert.False(t, ok, "second holder must be rejected")

	release()
	_, ok, _ = l.TryLock(ctx, "job", time.Minute)
	assert.True(t, ok)
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedisLocker(client)
	release, ok, err := l.TryLock(ctx, "quizhub:lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	other := NewRedisLocker(client)
	_, ok, err = other.TryLock(ctx, "quizhub:lock", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists("quizhub:lock"))
}

func TestRedisLocker_ReleaseAfterExpiryKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedisLocker(client)
	release, ok, _ := l.TryLock(ctx, "k", time.Second)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok, _ = l.TryLock(ctx, "k", time.Minute)
	require.True(t, ok)

	release()
	assert.True(t, mr.Exists("k"))
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client)
	require.NoError(t, c.Set(ctx, "a", "1", time.Minute).Err())
	assert.Equal(t, "1", c.Get(ctx, "a").Val())
	assert.True(t, c.Expire(ctx, "a", time.Hour).Val())
	assert.Equal(t, int64(1), c.Del(ctx, "a").Val())
}

func TestProvideFallbacks(t *testing.T) {
	_, isLocal := ProvideICache(nil).(*FastCache)
	assert.True(t, isLocal)
	_, isLocalLock := ProvideLocker(nil).(*LocalLocker)
	assert.True(t, isLocalLock)
}
