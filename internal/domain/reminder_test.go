package domain

import (
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errors "github.com/Proton-105/hydration-bot/internal/errors"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: 9 * 60},
		{in: "9:05", want: 9*60 + 5},
		{in: " 22:00 ", want: 22 * 60},
		{in: "00:00", want: 0},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1200", wantErr: true},
		{in: "+9:00", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, stdErrors.Is(err, errors.ErrMalformedTime))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", TimeOfDay(9*60+5).String())
	assert.Equal(t, "00:00", TimeOfDay(0).String())
}

func TestWindow_Contains(t *testing.T) {
	at := func(h, m, s int) time.Time {
		return time.Date(2026, 3, 10, h, m, s, 0, time.UTC)
	}
	day := Window{Start: 9 * 60, End: 22 * 60}
	night := Window{Start: 22 * 60, End: 2 * 60}

	tests := []struct {
		name   string
		window Window
		at     time.Time
		want   bool
	}{
		{"start inclusive", day, at(9, 0, 0), true},
		{"before start", day, at(8, 59, 59), false},
		{"middle", day, at(10, 5, 0), true},
		{"end inclusive", day, at(22, 0, 0), true},
		{"after end", day, at(22, 0, 1), false},
		{"late night", day, at(23, 0, 0), false},
		{"wrap before midnight", night, at(23, 30, 0), true},
		{"wrap after midnight", night, at(1, 0, 0), true},
		{"wrap outside", night, at(12, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(tt.at))
		})
	}
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, ValidateInterval(30))
	assert.NoError(t, ValidateInterval(90))
	assert.NoError(t, ValidateInterval(MaxIntervalMinutes))

	for _, minutes := range []int{15, MaxIntervalMinutes + 1, 999999999999} {
		err := ValidateInterval(minutes)
		require.Error(t, err)
		assert.True(t, stdErrors.Is(err, errors.ErrInvalidInterval))
	}
}

func TestDaySummary_Remaining(t *testing.T) {
	assert.Equal(t, 1800, DaySummary{Total: 200, Target: 2000}.Remaining())
	assert.Equal(t, 0, DaySummary{Total: 2500, Target: 2000}.Remaining())
	assert.True(t, DaySummary{Total: 2000, Target: 2000}.Reached())
}
