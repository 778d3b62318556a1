package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimStore_AcquireRelease(t *testing.T) {
	s := miniredis.RunT(t)
	store := NewClaimStore(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	ctx := context.Background()

	ok, err := store.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held lease must not be granted twice")

	require.NoError(t, store.Release(ctx, "evt_1"))

	ok, err = store.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClaimStore_LeaseExpires(t *testing.T) {
	s := miniredis.RunT(t)
	store := NewClaimStore(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	ctx := context.Background()

	ok, err := store.Acquire(ctx, "evt_2", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(31 * time.Second)

	ok, err = store.Acquire(ctx, "evt_2", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClaimStore_ReleaseUnknown(t *testing.T) {
	s := miniredis.RunT(t)
	store := NewClaimStore(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))

	assert.NoError(t, store.Release(context.Background(), "never-claimed"))
}

func TestClaimStore_RedisDown(t *testing.T) {
	s := miniredis.RunT(t)
	store := NewClaimStore(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	s.Close()

	_, err := store.Acquire(context.Background(), "evt_3", time.Minute)
	assert.Error(t, err)
}

func TestGiftAidGuard_SeparateKeyspace(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	claims := NewClaimStore(client)
	guard := NewGiftAidGuard(client)
	ctx := context.Background()

	ok, err := claims.Acquire(ctx, "4121", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = guard.Acquire(ctx, "4121", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "an event lease must not block the declaration guard")

	assert.True(t, s.Exists(keyGiftAidGuard+"4121"))
	assert.Equal(t, 24*time.Hour, s.TTL(keyGiftAidGuard+"4121"))
}
