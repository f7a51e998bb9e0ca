package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Handle cancels one repeating timer. Cancel must be safe to call more than once.
type Handle interface {
	Cancel()
}

// Timer creates repeating per-user timers.
type Timer interface {
	Every(userID int64, interval, firstDelay time.Duration, fn func()) (Handle, error)
}

// CronTimer runs reminder timers as gocron interval jobs.
type CronTimer struct {
	scheduler *gocron.Scheduler
	log       *slog.Logger
}

// NewCronTimer creates a timer backed by a gocron scheduler in loc. Jobs never overlap themselves.
func NewCronTimer(loc *time.Location, log *slog.Logger) *CronTimer {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()

	return &CronTimer{scheduler: s, log: log.With(slog.String("component", "cron_timer"))}
}

// Every schedules fn every interval, first running after firstDelay.
func (t *CronTimer) Every(userID int64, interval, firstDelay time.Duration, fn func()) (Handle, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}

	job, err := t.scheduler.
		Every(interval).
		StartAt(time.Now().Add(firstDelay)).
		Tag(strconv.FormatInt(userID, 10)).
		Do(fn)
	if err != nil {
		return nil, fmt.Errorf("schedule reminder for user %d: %w", userID, err)
	}

	t.log.Debug("timer scheduled",
		slog.Int64("user_id", userID),
		slog.Duration("interval", interval),
		slog.Duration("first_delay", firstDelay),
	)

	return &cronHandle{scheduler: t.scheduler, job: job}, nil
}

// Start begins executing jobs without blocking.
func (t *CronTimer) Start() {
	t.scheduler.StartAsync()
}

// Stop halts the underlying scheduler.
func (t *CronTimer) Stop() {
	t.scheduler.Stop()
}

// HealthCheck reports whether the scheduler loop is running.
func (t *CronTimer) HealthCheck(context.Context) error {
	if !t.scheduler.IsRunning() {
		return errors.New("reminder scheduler is not running")
	}
	return nil
}

// Jobs returns the number of scheduled jobs.
func (t *CronTimer) Jobs() int {
	return t.scheduler.Len()
}

type cronHandle struct {
	once      sync.Once
	scheduler *gocron.Scheduler
	job       *gocron.Job
}

func (h *cronHandle) Cancel() {
	h.once.Do(func() {
		h.scheduler.RemoveByReference(h.job)
	})
}
