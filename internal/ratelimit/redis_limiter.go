package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every rate limit key in Redis.
const KeyPrefix = "ratelimit:"

// RedisLimiter keeps each user's recent updates in a sorted set scored by arrival time
// in milliseconds. Members are "<kind>:<uuid>" so the set shows what the user sent.
type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
	log    *slog.Logger
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter returns a limiter sharing budgets across bot replicas.
func NewRedisLimiter(client *redis.Client, log *slog.Logger) *RedisLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &RedisLimiter{
		client: client,
		now:    time.Now,
		log:    log,
	}
}

// Check records the update and reports whether the user is still within budget.
// Rejected updates are recorded too, so a user who keeps sending stays throttled.
func (l *RedisLimiter) Check(ctx context.Context, userID int64, kind UpdateKind, limit int, window time.Duration) (*Result, error) {
	if l.client == nil {
		return nil, errors.New("redis client is not configured for rate limiting")
	}

	now := l.now()
	if limit <= 0 {
		updateDecisionsTotal.WithLabelValues(backendRedis, kind.label(), decisionLabel(false)).Inc()
		return &Result{Allowed: false, ResetAt: now.Add(window)}, nil
	}

	key := KeyPrefix + UserKey(userID)
	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%f", scoreAt(now.Add(-window))))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  scoreAt(now),
		Member: kind.label() + ":" + uuid.NewString(),
	})
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		l.log.Error("update budget pipeline failed",
			slog.Int64("user_id", userID), slog.String("kind", kind.label()), slog.Any("error", err))
		return nil, err
	}

	count, err := countCmd.Result()
	if err != nil {
		return nil, fmt.Errorf("read update count for user %d: %w", userID, err)
	}

	allowed := count <= int64(limit)
	updateDecisionsTotal.WithLabelValues(backendRedis, kind.label(), decisionLabel(allowed)).Inc()

	return &Result{
		Allowed:   allowed,
		Remaining: max(limit-int(count), 0),
		ResetAt:   now.Add(window),
	}, nil
}

func scoreAt(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Millisecond)
}
