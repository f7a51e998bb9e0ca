// Package ratelimit throttles incoming updates per user with a sliding window.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result captures the outcome of a rate-limit evaluation.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter counts one update of the given kind against the user's budget of limit
// updates per window. A rejected update is reported through Result.Allowed; an error
// means the backend could not decide.
type Limiter interface {
	Check(ctx context.Context, userID int64, kind UpdateKind, limit int, window time.Duration) (*Result, error)
}

// New picks the backend: Redis with memory as the fallback when a client is given, memory otherwise.
// A nil memory limiter gets a fresh one.
func New(client *redis.Client, memory *MemoryLimiter, log *slog.Logger) Limiter {
	if memory == nil {
		memory = NewMemoryLimiter(log)
	}
	if client == nil {
		return memory
	}

	return NewAdaptiveLimiter(NewRedisLimiter(client, log), memory, log)
}
