// Package aggregator derives daily and weekly intake summaries from the ledger.
package aggregator

import (
	"context"
	"time"

	"github.com/Proton-105/hydration-bot/internal/domain"
)

// Ledger is the read side of the ledger store.
type Ledger interface {
	DailyTotal(ctx context.Context, userID int64, date time.Time) (int, error)
	WeeklySeries(ctx context.Context, userID int64, since time.Time) ([]domain.DayTotal, error)
}

// Aggregator computes summaries relative to the current date in loc.
type Aggregator struct {
	ledger Ledger
	loc    *time.Location
	target int
	now    func() time.Time
}

// New creates an Aggregator. A nil now uses time.Now; a non-positive target uses domain.DailyTargetML.
func New(ledger Ledger, loc *time.Location, target int, now func() time.Time) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	if target <= 0 {
		target = domain.DailyTargetML
	}

	return &Aggregator{ledger: ledger, loc: loc, target: target, now: now}
}

// Target returns the configured daily goal.
func (a *Aggregator) Target() int {
	return a.target
}

// TodaySummary returns the user's total for today.
func (a *Aggregator) TodaySummary(ctx context.Context, userID int64) (domain.DaySummary, error) {
	today := domain.StartOfDay(a.now(), a.loc)

	total, err := a.ledger.DailyTotal(ctx, userID, today)
	if err != nil {
		return domain.DaySummary{}, err
	}

	return domain.DaySummary{Date: today, Total: total, Target: a.target}, nil
}

// WeekSummary returns totals for the dates after today minus seven days.
// Average is the floor of the sum over days that have records.
func (a *Aggregator) WeekSummary(ctx context.Context, userID int64) (domain.WeekSummary, error) {
	since := domain.StartOfDay(a.now(), a.loc).AddDate(0, 0, -7)

	days, err := a.ledger.WeeklySeries(ctx, userID, since)
	if err != nil {
		return domain.WeekSummary{}, err
	}

	summary := domain.WeekSummary{Days: days}
	if len(days) == 0 {
		return summary, nil
	}

	for _, d := range days {
		summary.Total += d.Total
	}
	summary.Average = summary.Total / len(days)
	summary.HasData = true

	return summary, nil
}
