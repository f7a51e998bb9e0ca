package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errors "github.com/Proton-105/hydration-bot/internal/errors"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (hour may be a single digit).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	raw := strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !isDigits(hh) || !isDigits(mm) {
		return 0, errors.NewMalformedTimeError(s)
	}

	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		return 0, errors.NewMalformedTimeError(s)
	}

	return TimeOfDay(h*60 + m), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formats the time as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	m := int(t) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Window is the daily span during which reminders may fire.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains reports whether t, already converted to the window's zone, falls inside the window.
// Both bounds are inclusive at second resolution, so 22:00:00 is inside a window ending at 22:00
// and 22:00:01 is not. A window whose start is after its end wraps past midnight.
func (w Window) Contains(t time.Time) bool {
	sec := t.Hour()*3600 + t.Minute()*60 + t.Second()
	start := int(w.Start) * 60
	end := int(w.End) * 60

	if start <= end {
		return sec >= start && sec <= end
	}
	return sec >= start || sec <= end
}

// ReminderConfig is the persisted reminder schedule of one user.
type ReminderConfig struct {
	UserID          int64
	Start           TimeOfDay
	End             TimeOfDay
	IntervalMinutes int
	IsActive        bool
}

// Window returns the config's daily window.
func (c ReminderConfig) Window() Window {
	return Window{Start: c.Start, End: c.End}
}

// Interval returns the repeat period.
func (c ReminderConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// ValidateInterval rejects intervals outside [MinIntervalMinutes, MaxIntervalMinutes].
func ValidateInterval(minutes int) error {
	if minutes < MinIntervalMinutes {
		return errors.NewInvalidIntervalError(minutes, MinIntervalMinutes)
	}
	if minutes > MaxIntervalMinutes {
		return errors.NewIntervalTooLongError(minutes, MaxIntervalMinutes)
	}
	return nil
}
