package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// maxAmountDigits bounds digit extraction so absurd input cannot overflow.
const maxAmountDigits = 9

// ParseAmount extracts the millilitre amount from free text such as "250", "250 ml" or "☕️ 200 мл".
// All digits in the text are concatenated. ok is false when the text has none.
func ParseAmount(text string) (amount int, ok bool) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, false
	}
	if digits.Len() > maxAmountDigits {
		return 0, false
	}

	amount, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return amount, true
}

// RemindArgs is the parsed payload of /remind.
type RemindArgs struct {
	Start    string
	End      string
	Interval int
}

// ParseRemindArgs parses "HH:MM HH:MM MINUTES". Time validation is left to the scheduler.
func ParseRemindArgs(payload string) (RemindArgs, error) {
	fields := strings.FieldsFunc(payload, unicode.IsSpace)
	if len(fields) != 3 {
		return RemindArgs{}, fmt.Errorf("expected 3 arguments, got %d", len(fields))
	}

	interval, err := strconv.Atoi(fields[2])
	if err != nil {
		return RemindArgs{}, fmt.Errorf("parse interval %q: %w", fields[2], err)
	}

	return RemindArgs{Start: fields[0], End: fields[1], Interval: interval}, nil
}
