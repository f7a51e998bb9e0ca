package reminder

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronTimer_FiresAndCancels(t *testing.T) {
	timer := NewCronTimer(time.UTC, testLogger())
	timer.Start()
	t.Cleanup(timer.Stop)

	var fired atomic.Int32
	handle, err := timer.Every(1, time.Hour, 10*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, 1, timer.Jobs())

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, 3*time.Second, 10*time.Millisecond)

	handle.Cancel()
	handle.Cancel()
	assert.Zero(t, timer.Jobs())
}

func TestCronTimer_RejectsNonPositiveInterval(t *testing.T) {
	timer := NewCronTimer(time.UTC, testLogger())

	_, err := timer.Every(1, 0, time.Second, func() {})
	assert.Error(t, err)
}

func TestCronTimer_HealthCheck(t *testing.T) {
	timer := NewCronTimer(time.UTC, testLogger())
	assert.Error(t, timer.HealthCheck(context.Background()))

	timer.Start()
	t.Cleanup(timer.Stop)
	assert.NoError(t, timer.HealthCheck(context.Background()))
}
