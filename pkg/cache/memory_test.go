package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func newTestCache(t *testing.T, opts ...MemoryOption) (*MemoryCache, *time.Time) {
	t.Helper()
	mc := NewMemoryCache(opts...)
	t.Cleanup(func() { _ = mc.Close() })
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	return mc, &now
}

func TestMemoryCacheRoundTripsStructs(t *testing.T) {
	mc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", record{ID: "a", Price: 1.5}, time.Minute))

	var got record
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, record{ID: "a", Price: 1.5}, got)

	var s string
	require.NoError(t, mc.Set(ctx, "s", "plain", 0))
	require.NoError(t, mc.Get(ctx, "s", &s))
	assert.Equal(t, "plain", s)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc, now := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", record{ID: "a"}, time.Minute))
	*now = now.Add(2 * time.Minute)

	var got record
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss)
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpireExtends(t *testing.T) {
	mc, now := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	ok, err := mc.Expire(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(30 * time.Minute)
	ok, err = mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc, now := newTestCache(t)
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mc.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second lock must fail while held")

	require.NoError(t, mc.Unlock(ctx, "lock"))
	ok, err = mc.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(2 * time.Second)
	ok, err = mc.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock can be taken again")
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	mc, now := newTestCache(t, WithMemoryMaxSize(2))
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	*now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	*now = now.Add(time.Second)

	var v string
	require.NoError(t, mc.Get(ctx, "a", &v))
	*now = now.Add(time.Second)

	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	require.NoError(t, mc.Get(ctx, "c", &v))
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "session:abc", GenerateKey("session", "abc"))
}
