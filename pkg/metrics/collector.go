// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	intakeRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_recorded_total",
			Help: "Total number of intake records accepted",
		},
	)
	intakeMillilitresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_ml_total",
			Help: "Total millilitres recorded across all users",
		},
	)
	reminderTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_ticks_total",
			Help: "Reminder timer fires labeled by outcome",
		},
		[]string{"outcome"},
	)
	reminderDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_deliveries_total",
			Help: "Reminder notifications handed to the transport labeled by status",
		},
		[]string{"status"},
	)
	activeReminders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_reminders",
			Help: "Current number of installed reminder timers",
		},
	)

	// ErrorsTotal counts handled application errors by code.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of handled errors split by code",
		},
		[]string{"code"},
	)
)

// Tick outcomes.
const (
	TickStale     = "stale"
	TickInactive  = "inactive"
	TickOutside   = "outside_window"
	TickFailed    = "failed"
	TickDelivered = "dispatched"
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordIntake tracks an accepted serving.
func RecordIntake(amount int) {
	intakeRecordedTotal.Inc()
	intakeMillilitresTotal.Add(float64(amount))
}

// RecordTick tracks what happened to a reminder fire.
func RecordTick(outcome string) {
	reminderTicksTotal.WithLabelValues(outcome).Inc()
}

// RecordDelivery tracks the result of a reminder send.
func RecordDelivery(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	reminderDeliveriesTotal.WithLabelValues(status).Inc()
}

// SetActiveReminders updates the installed timer gauge.
func SetActiveReminders(count int) {
	activeReminders.Set(float64(count))
}
