package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	cache, err := New(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -30)
	expected := models.Subscription{
		UserID:    "6f1c3b9e-5a2d-4c8e-9f10-1a2b3c4d5e6f",
		Tier:      models.TierPro,
		Status:    models.StatusActive,
		StartDate: &start,
		EndDate:   &end,
	}
	require.NoError(t, cache.Set(ctx, "subscription:1", expected, time.Minute))

	var actual models.Subscription
	found, err := cache.Get(ctx, "subscription:1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected.Tier, actual.Tier)
	assert.True(t, actual.EndDate.Equal(end))
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out models.Subscription
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetCorruptedValue(t *testing.T) {
	cache, mr := setupTestCache(t)
	require.NoError(t, mr.Set("subscription:broken", "{not json"))

	var out models.Subscription
	found, err := cache.Get(context.Background(), "subscription:broken", &out)
	require.Error(t, err)
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var out string
	found, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "k"))

	var out string
	found, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNew_Unreachable(t *testing.T) {
	_, err := New(context.Background(), config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	})
	require.Error(t, err)
}

func TestSetNX(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	stored, err := cache.SetNX(ctx, "stripe-event:evt_1", true, time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = cache.SetNX(ctx, "stripe-event:evt_1", true, time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
}
