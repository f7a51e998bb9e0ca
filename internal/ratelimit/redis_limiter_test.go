package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisLimiter_AllowsWithinLimit(t *testing.T) {
	client, _ := setupTestRedis(t)

	limiter := NewRedisLimiter(client, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, 1, UpdateText, 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestRedisLimiter_BlocksWhenExceeded(t *testing.T) {
	client, _ := setupTestRedis(t)

	limiter := NewRedisLimiter(client, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, 2, UpdateCommand, 2, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i < 2, result.Allowed)
	}
}

func TestRedisLimiter_SlidingWindow(t *testing.T) {
	client, _ := setupTestRedis(t)

	limiter := NewRedisLimiter(client, testLogger())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.Check(ctx, 3, UpdateText, 2, time.Second)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	time.Sleep(1100 * time.Millisecond)

	result, err := limiter.Check(ctx, 3, UpdateText, 2, time.Second)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRedisLimiter_KindsShareUserBudget(t *testing.T) {
	client, mr := setupTestRedis(t)

	limiter := NewRedisLimiter(client, testLogger())
	ctx := context.Background()

	kinds := []UpdateKind{UpdateCommand, UpdateText, UpdateCallback}
	for _, kind := range kinds {
		result, err := limiter.Check(ctx, 10, kind, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed, kind)
	}

	result, err := limiter.Check(ctx, 10, UpdateText, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)

	members, err := mr.ZMembers(KeyPrefix + "updates:user:10")
	require.NoError(t, err)
	require.Len(t, members, 4)
	seen := map[string]int{}
	for _, member := range members {
		kind, _, _ := strings.Cut(member, ":")
		seen[kind]++
	}
	assert.Equal(t, map[string]int{"command": 1, "text": 2, "callback": 1}, seen)

	other, err := limiter.Check(ctx, 11, UpdateText, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "budgets are per user")
}

func TestAdaptiveLimiter_FallsBackWhenRedisIsDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := New(client, nil, testLogger())
	ctx := context.Background()

	result, err := limiter.Check(ctx, 4, UpdateCallback, 4, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	mr.Close()

	// Fallback runs at half the limit.
	for i := 0; i < 2; i++ {
		result, err = limiter.Check(ctx, 4, UpdateCallback, 4, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
	result, err = limiter.Check(ctx, 4, UpdateCallback, 4, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestCleaner_RemovesStaleRedisKeys(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	old := scoreAt(time.Now().Add(-time.Hour))
	require.NoError(t, client.ZAdd(ctx, KeyPrefix+UserKey(5), redis.Z{Score: old, Member: "text:a"}).Err())
	require.NoError(t, client.ZAdd(ctx, KeyPrefix+UserKey(6), redis.Z{Score: old, Member: "text:a"}).Err())

	_, err := NewRedisLimiter(client, testLogger()).Check(ctx, 6, UpdateText, 5, time.Minute)
	require.NoError(t, err)

	NewCleaner(client, nil, testLogger(), time.Minute, 5*time.Minute).Sweep(ctx)

	assert.False(t, mr.Exists(KeyPrefix+UserKey(5)))
	assert.True(t, mr.Exists(KeyPrefix+UserKey(6)))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
