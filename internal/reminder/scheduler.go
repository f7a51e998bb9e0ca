// Package reminder owns the per-user repeating reminder timers and the window gate applied on each fire.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Proton-105/hydration-bot/internal/domain"
	"github.com/Proton-105/hydration-bot/pkg/logger"
	"github.com/Proton-105/hydration-bot/pkg/metrics"
)

// DefaultFirstDelay is how long after configuration the first fire happens.
const DefaultFirstDelay = time.Second

// ConfigStore persists reminder configurations.
type ConfigStore interface {
	UpsertReminderConfig(ctx context.Context, userID int64, start, end domain.TimeOfDay, interval int) error
	GetReminderConfig(ctx context.Context, userID int64) (*domain.ReminderConfig, error)
	DeactivateReminder(ctx context.Context, userID int64) error
	ListActiveReminderConfigs(ctx context.Context) ([]domain.ReminderConfig, error)
}

// SummaryProvider computes today's progress.
type SummaryProvider interface {
	TodaySummary(ctx context.Context, userID int64) (domain.DaySummary, error)
}

// Notifier delivers a reminder to a user. Delivery is best effort.
type Notifier interface {
	Deliver(ctx context.Context, userID int64, text string) error
}

// Tick is one timer fire, tagged with the generation of the timer that produced it.
type Tick struct {
	UserID     int64
	Generation uint64
}

// Settings tunes the scheduler.
type Settings struct {
	Location   *time.Location
	FirstDelay time.Duration
	Now        func() time.Time
	// Format renders the notification text. Defaults to FormatReminder.
	Format func(domain.DaySummary) string
}

// Scheduler configures, disables and fires reminders.
type Scheduler struct {
	store     ConfigStore
	summaries SummaryProvider
	notifier  Notifier
	timer     Timer
	registry  *Registry
	loc       *time.Location
	delay     time.Duration
	now       func() time.Time
	format    func(domain.DaySummary) string
	log       *slog.Logger

	// configureMu serializes Configure, Disable and Restore.
	configureMu sync.Mutex

	baseCtx    context.Context
	cancelBase context.CancelFunc

	dispatchMu sync.Mutex
	closed     bool
	inflight   sync.WaitGroup
}

// NewScheduler wires a scheduler. A nil registry gets a fresh one.
func NewScheduler(
	store ConfigStore,
	summaries SummaryProvider,
	notifier Notifier,
	timer Timer,
	registry *Registry,
	settings Settings,
	log *slog.Logger,
) *Scheduler {
	if registry == nil {
		registry = NewRegistry()
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.FirstDelay <= 0 {
		settings.FirstDelay = DefaultFirstDelay
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.Format == nil {
		settings.Format = FormatReminder
	}
	if log == nil {
		log = slog.Default()
	}

	baseCtx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		store:      store,
		summaries:  summaries,
		notifier:   notifier,
		timer:      timer,
		registry:   registry,
		loc:        settings.Location,
		delay:      settings.FirstDelay,
		now:        settings.Now,
		format:     settings.Format,
		log:        log.With(slog.String("component", "reminder_scheduler")),
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}
}

// Configure validates and persists the user's schedule and replaces any running timer.
// Any failure leaves storage and the running timer untouched.
func (s *Scheduler) Configure(ctx context.Context, userID int64, start, end string, interval int) (*domain.ReminderConfig, error) {
	if err := domain.ValidateInterval(interval); err != nil {
		return nil, err
	}

	startAt, err := domain.ParseTimeOfDay(start)
	if err != nil {
		return nil, err
	}

	endAt, err := domain.ParseTimeOfDay(end)
	if err != nil {
		return nil, err
	}

	cfg := &domain.ReminderConfig{
		UserID:          userID,
		Start:           startAt,
		End:             endAt,
		IntervalMinutes: interval,
		IsActive:        true,
	}

	s.configureMu.Lock()
	defer s.configureMu.Unlock()

	// The new timer is not current until installed, so its ticks are dropped meanwhile.
	handle, generation, err := s.newTimer(*cfg)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpsertReminderConfig(ctx, userID, startAt, endAt, interval); err != nil {
		handle.Cancel()
		return nil, err
	}

	s.registry.Install(userID, generation, handle)
	metrics.SetActiveReminders(s.registry.Len())

	s.log.InfoContext(ctx, "reminder configured",
		slog.Int64("user_id", userID),
		slog.String("start", startAt.String()),
		slog.String("end", endAt.String()),
		slog.Int("interval_minutes", interval),
	)

	return cfg, nil
}

// Disable stops the user's timer and marks the config inactive. Disabling twice is harmless.
func (s *Scheduler) Disable(ctx context.Context, userID int64) error {
	s.configureMu.Lock()
	defer s.configureMu.Unlock()

	removed := s.registry.Remove(userID)
	metrics.SetActiveReminders(s.registry.Len())

	if err := s.store.DeactivateReminder(ctx, userID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "reminder disabled", slog.Int64("user_id", userID), slog.Bool("had_timer", removed))
	return nil
}

// Restore installs timers for every active config. It returns how many were installed.
func (s *Scheduler) Restore(ctx context.Context) (int, error) {
	configs, err := s.store.ListActiveReminderConfigs(ctx)
	if err != nil {
		return 0, err
	}

	s.configureMu.Lock()
	defer s.configureMu.Unlock()

	restored := 0
	for _, cfg := range configs {
		if err := s.install(cfg); err != nil {
			s.log.ErrorContext(ctx, "failed to restore reminder", slog.Int64("user_id", cfg.UserID), slog.Any("error", err))
			continue
		}
		restored++
	}

	s.log.InfoContext(ctx, "reminders restored", slog.Int("count", restored))
	return restored, nil
}

func (s *Scheduler) install(cfg domain.ReminderConfig) error {
	handle, generation, err := s.newTimer(cfg)
	if err != nil {
		return err
	}

	s.registry.Install(cfg.UserID, generation, handle)
	metrics.SetActiveReminders(s.registry.Len())

	return nil
}

// newTimer starts a timer tagged with a fresh generation without installing it.
func (s *Scheduler) newTimer(cfg domain.ReminderConfig) (Handle, uint64, error) {
	userID := cfg.UserID
	generation := s.registry.NextGeneration()

	handle, err := s.timer.Every(userID, cfg.Interval(), s.delay, func() {
		ctx := logger.WithCorrelationID(s.baseCtx)
		s.HandleTick(ctx, Tick{UserID: userID, Generation: generation})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create reminder timer: %w", err)
	}

	return handle, generation, nil
}

// HandleTick processes one timer fire. Failures are logged and counted, never returned.
func (s *Scheduler) HandleTick(ctx context.Context, tick Tick) {
	log := s.log.With(
		slog.Int64("user_id", tick.UserID),
		slog.Uint64("generation", tick.Generation),
	)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		log = log.With(slog.String("correlation_id", id))
	}

	if !s.registry.Current(tick.UserID, tick.Generation) {
		metrics.RecordTick(metrics.TickStale)
		log.Debug("dropping tick from replaced timer")
		return
	}

	cfg, err := s.store.GetReminderConfig(ctx, tick.UserID)
	if err != nil {
		metrics.RecordTick(metrics.TickFailed)
		log.Error("failed to load reminder config", slog.Any("error", err))
		return
	}
	if cfg == nil || !cfg.IsActive {
		metrics.RecordTick(metrics.TickInactive)
		log.Debug("reminder inactive, skipping")
		return
	}

	now := s.now().In(s.loc)
	if !cfg.Window().Contains(now) {
		metrics.RecordTick(metrics.TickOutside)
		log.Debug("outside reminder window",
			slog.String("now", now.Format("15:04:05")),
			slog.String("start", cfg.Start.String()),
			slog.String("end", cfg.End.String()),
		)
		return
	}

	summary, err := s.summaries.TodaySummary(ctx, tick.UserID)
	if err != nil {
		metrics.RecordTick(metrics.TickFailed)
		log.Error("failed to compute today summary", slog.Any("error", err))
		return
	}

	if !s.dispatch(ctx, log, tick.UserID, s.format(summary)) {
		return
	}
	metrics.RecordTick(metrics.TickDelivered)
}

func (s *Scheduler) dispatch(ctx context.Context, log *slog.Logger, userID int64, text string) bool {
	s.dispatchMu.Lock()
	if s.closed {
		s.dispatchMu.Unlock()
		return false
	}
	s.inflight.Add(1)
	s.dispatchMu.Unlock()

	go func() {
		defer s.inflight.Done()

		err := s.notifier.Deliver(ctx, userID, text)
		metrics.RecordDelivery(err)
		if err != nil {
			log.Warn("reminder delivery failed", slog.Any("error", err))
			return
		}
		log.Debug("reminder delivered")
	}()

	return true
}

// Wait blocks until every dispatched delivery has finished.
func (s *Scheduler) Wait() {
	s.inflight.Wait()
}

// ActiveTimers returns the number of installed timers.
func (s *Scheduler) ActiveTimers() int {
	return s.registry.Len()
}

// Shutdown cancels every timer and waits for in-flight deliveries until ctx expires.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.registry.CancelAll()
	metrics.SetActiveReminders(0)

	s.dispatchMu.Lock()
	s.closed = true
	s.dispatchMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelBase()
		return nil
	case <-ctx.Done():
		s.cancelBase()
		return fmt.Errorf("waiting for reminder deliveries: %w", ctx.Err())
	}
}
