// Package domain holds the value types shared by the ledger, the aggregator and the scheduler.
package domain

import "time"

const (
	// DailyTargetML is the default daily goal in millilitres.
	DailyTargetML = 2000
	// MaxServingML caps a single recorded serving.
	MaxServingML = 2000
	// MinIntervalMinutes is the shortest allowed reminder interval.
	MinIntervalMinutes = 30
	// MaxIntervalMinutes is the longest allowed reminder interval, one day.
	MaxIntervalMinutes = 24 * 60
)

// IntakeRecord is one logged serving. Records are never updated or deduplicated.
type IntakeRecord struct {
	UserID     int64
	Amount     int
	RecordedAt time.Time
}

// DayTotal is the summed intake of one calendar date.
type DayTotal struct {
	Date  time.Time
	Total int
}

// DaySummary is today's progress towards the target.
type DaySummary struct {
	Date   time.Time
	Total  int
	Target int
}

// Remaining returns how much is left to reach the target, never negative.
func (s DaySummary) Remaining() int {
	if s.Total >= s.Target {
		return 0
	}
	return s.Target - s.Total
}

// Reached reports whether the daily target has been met.
func (s DaySummary) Reached() bool {
	return s.Total >= s.Target
}

// WeekSummary covers the days of the rolling week that have at least one record.
type WeekSummary struct {
	Days    []DayTotal
	Total   int
	Average int
	// HasData is false when no day in the window has records; Average is then meaningless.
	HasData bool
}

// StartOfDay returns midnight of t's date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
