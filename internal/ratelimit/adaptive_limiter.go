package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	backendRedis  = "redis"
	backendMemory = "memory"
)

var (
	updateDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratelimit_updates_total",
		Help: "Incoming updates checked by the rate limiter, by backend, update kind and decision.",
	}, []string{"backend", "kind", "decision"})

	updateFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratelimit_fallbacks_total",
		Help: "Updates decided by the in-memory limiter because Redis failed, by update kind.",
	}, []string{"kind"})
)

// AdaptiveLimiter asks Redis first. When Redis fails the process-local limiter decides
// at half the budget, since other replicas are counting the same user independently.
type AdaptiveLimiter struct {
	shared Limiter
	local  Limiter
	log    *slog.Logger
}

// NewAdaptiveLimiter pairs a shared (Redis) limiter with a local fallback.
func NewAdaptiveLimiter(shared, local Limiter, log *slog.Logger) *AdaptiveLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &AdaptiveLimiter{
		shared: shared,
		local:  local,
		log:    log,
	}
}

// Check implements Limiter.
func (a *AdaptiveLimiter) Check(ctx context.Context, userID int64, kind UpdateKind, limit int, window time.Duration) (*Result, error) {
	result, err := a.shared.Check(ctx, userID, kind, limit, window)
	if err == nil {
		return result, nil
	}

	updateFallbacksTotal.WithLabelValues(kind.label()).Inc()
	a.log.Warn("shared update budget unavailable, using local limiter",
		slog.Int64("user_id", userID), slog.String("kind", kind.label()), slog.Any("error", err))

	return a.local.Check(ctx, userID, kind, max(limit/2, 1), window)
}

func decisionLabel(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "rejected"
}
