// Package ledger persists intake records and reminder configurations.
package ledger

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Proton-105/hydration-bot/internal/domain"
	errors "github.com/Proton-105/hydration-bot/internal/errors"
)

// Store is the sqlx-backed ledger. Calendar dates are evaluated in loc.
type Store struct {
	db  *sqlx.DB
	loc *time.Location
	log *slog.Logger
}

// NewStore creates a ledger over an already migrated database.
func NewStore(db *sqlx.DB, loc *time.Location, log *slog.Logger) *Store {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}

	return &Store{
		db:  db,
		loc: loc,
		log: log.With(slog.String("component", "ledger")),
	}
}

type intakeRow struct {
	Amount     int   `db:"amount"`
	RecordedAt int64 `db:"recorded_at"`
}

type reminderRow struct {
	UserID          int64  `db:"user_id"`
	StartTime       string `db:"start_time"`
	EndTime         string `db:"end_time"`
	IntervalMinutes int    `db:"interval_minutes"`
	IsActive        bool   `db:"is_active"`
}

func (r reminderRow) toDomain() (*domain.ReminderConfig, error) {
	start, err := domain.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.ReminderConfig{
		UserID:          r.UserID,
		Start:           start,
		End:             end,
		IntervalMinutes: r.IntervalMinutes,
		IsActive:        r.IsActive,
	}, nil
}

// RecordIntake appends one serving. Amount validation is the caller's job.
func (s *Store) RecordIntake(ctx context.Context, userID int64, amount int, ts time.Time) error {
	query := s.db.Rebind(`
		INSERT INTO water_intake (user_id, amount, recorded_at)
		VALUES (?, ?, ?)
	`)

	if _, err := s.db.ExecContext(ctx, query, userID, amount, ts.UnixNano()); err != nil {
		s.log.Error("failed to record intake", slog.Int64("user_id", userID), slog.Any("error", err))
		return errors.NewStorageError("record intake", err)
	}

	return nil
}

// DailyTotal sums the user's intake for the calendar date of date.
func (s *Store) DailyTotal(ctx context.Context, userID int64, date time.Time) (int, error) {
	from := domain.StartOfDay(date, s.loc)
	to := from.AddDate(0, 0, 1)

	query := s.db.Rebind(`
		SELECT COALESCE(SUM(amount), 0)
		FROM water_intake
		WHERE user_id = ? AND recorded_at >= ? AND recorded_at < ?
	`)

	var total int
	if err := s.db.GetContext(ctx, &total, query, userID, from.UnixNano(), to.UnixNano()); err != nil {
		return 0, errors.NewStorageError("daily total", err)
	}

	return total, nil
}

// WeeklySeries returns per-date totals for dates strictly after since, ascending.
// Dates without records are omitted.
func (s *Store) WeeklySeries(ctx context.Context, userID int64, since time.Time) ([]domain.DayTotal, error) {
	from := domain.StartOfDay(since, s.loc).AddDate(0, 0, 1)

	query := s.db.Rebind(`
		SELECT amount, recorded_at
		FROM water_intake
		WHERE user_id = ? AND recorded_at >= ?
		ORDER BY recorded_at
	`)

	var rows []intakeRow
	if err := s.db.SelectContext(ctx, &rows, query, userID, from.UnixNano()); err != nil {
		return nil, errors.NewStorageError("weekly series", err)
	}

	series := make([]domain.DayTotal, 0, 8)
	for _, row := range rows {
		day := domain.StartOfDay(time.Unix(0, row.RecordedAt), s.loc)
		if n := len(series); n > 0 && series[n-1].Date.Equal(day) {
			series[n-1].Total += row.Amount
			continue
		}
		series = append(series, domain.DayTotal{Date: day, Total: row.Amount})
	}

	return series, nil
}

// UpsertReminderConfig replaces the user's reminder config and marks it active.
func (s *Store) UpsertReminderConfig(ctx context.Context, userID int64, start, end domain.TimeOfDay, interval int) error {
	query := s.db.Rebind(`
		INSERT INTO reminders (user_id, start_time, end_time, interval_minutes, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			interval_minutes = excluded.interval_minutes,
			is_active = excluded.is_active
	`)

	if _, err := s.db.ExecContext(ctx, query, userID, start.String(), end.String(), interval, true); err != nil {
		s.log.Error("failed to upsert reminder config", slog.Int64("user_id", userID), slog.Any("error", err))
		return errors.NewStorageError("upsert reminder", err)
	}

	return nil
}

// GetReminderConfig returns the user's config, or nil when none was ever stored.
func (s *Store) GetReminderConfig(ctx context.Context, userID int64) (*domain.ReminderConfig, error) {
	query := s.db.Rebind(`
		SELECT user_id, start_time, end_time, interval_minutes, is_active
		FROM reminders
		WHERE user_id = ?
	`)

	var row reminderRow
	if err := s.db.GetContext(ctx, &row, query, userID); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.NewStorageError("get reminder", err)
	}

	cfg, err := row.toDomain()
	if err != nil {
		return nil, errors.NewStorageError("decode reminder", err)
	}

	return cfg, nil
}

// DeactivateReminder marks the user's config inactive. Missing configs are ignored.
func (s *Store) DeactivateReminder(ctx context.Context, userID int64) error {
	query := s.db.Rebind(`UPDATE reminders SET is_active = ? WHERE user_id = ?`)

	if _, err := s.db.ExecContext(ctx, query, false, userID); err != nil {
		s.log.Error("failed to deactivate reminder", slog.Int64("user_id", userID), slog.Any("error", err))
		return errors.NewStorageError("deactivate reminder", err)
	}

	return nil
}

// ListActiveReminderConfigs returns every active config, ordered by user.
func (s *Store) ListActiveReminderConfigs(ctx context.Context) ([]domain.ReminderConfig, error) {
	query := s.db.Rebind(`
		SELECT user_id, start_time, end_time, interval_minutes, is_active
		FROM reminders
		WHERE is_active = ?
		ORDER BY user_id
	`)

	var rows []reminderRow
	if err := s.db.SelectContext(ctx, &rows, query, true); err != nil {
		return nil, errors.NewStorageError("list reminders", err)
	}

	configs := make([]domain.ReminderConfig, 0, len(rows))
	for _, row := range rows {
		cfg, err := row.toDomain()
		if err != nil {
			s.log.Warn("skipping undecodable reminder", slog.Int64("user_id", row.UserID), slog.Any("error", err))
			continue
		}
		configs = append(configs, *cfg)
	}

	return configs, nil
}
