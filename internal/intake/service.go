// Package intake validates and records servings.
package intake

import (
	"context"
	"log/slog"
	"time"

	"github.com/Proton-105/hydration-bot/internal/domain"
	errors "github.com/Proton-105/hydration-bot/internal/errors"
	"github.com/Proton-105/hydration-bot/pkg/metrics"
)

// Recorder appends intake records.
type Recorder interface {
	RecordIntake(ctx context.Context, userID int64, amount int, ts time.Time) error
}

// Summaries provides the reporting views.
type Summaries interface {
	TodaySummary(ctx context.Context, userID int64) (domain.DaySummary, error)
	WeekSummary(ctx context.Context, userID int64) (domain.WeekSummary, error)
}

// Service is the entry point for logging intake and reading summaries.
type Service struct {
	recorder  Recorder
	summaries Summaries
	maxML     int
	now       func() time.Time
	log       *slog.Logger
}

// NewService creates a Service. maxML bounds a single serving; non-positive uses domain.MaxServingML.
func NewService(recorder Recorder, summaries Summaries, maxML int, now func() time.Time, log *slog.Logger) *Service {
	if maxML <= 0 {
		maxML = domain.MaxServingML
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		recorder:  recorder,
		summaries: summaries,
		maxML:     maxML,
		now:       now,
		log:       log.With(slog.String("component", "intake")),
	}
}

// Record stores amount for userID at the current time and returns today's updated summary.
func (s *Service) Record(ctx context.Context, userID int64, amount int) (domain.DaySummary, error) {
	if amount <= 0 || amount > s.maxML {
		return domain.DaySummary{}, errors.NewInvalidAmountError(amount, s.maxML)
	}

	if err := s.recorder.RecordIntake(ctx, userID, amount, s.now()); err != nil {
		return domain.DaySummary{}, err
	}
	metrics.RecordIntake(amount)

	s.log.DebugContext(ctx, "intake recorded", slog.Int64("user_id", userID), slog.Int("amount", amount))

	return s.summaries.TodaySummary(ctx, userID)
}

// Today returns today's summary.
func (s *Service) Today(ctx context.Context, userID int64) (domain.DaySummary, error) {
	return s.summaries.TodaySummary(ctx, userID)
}

// Week returns the rolling weekly summary.
func (s *Service) Week(ctx context.Context, userID int64) (domain.WeekSummary, error) {
	return s.summaries.WeekSummary(ctx, userID)
}
