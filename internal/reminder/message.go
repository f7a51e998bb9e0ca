package reminder

import (
	"fmt"

	"github.com/Proton-105/hydration-bot/internal/domain"
)

// FormatReminder renders the notification sent on a reminder fire.
func FormatReminder(summary domain.DaySummary) string {
	return fmt.Sprintf(
		"🚰 Time to drink some water! Today: %d ml so far.\nRecommended daily amount: %d ml.",
		summary.Total, summary.Target,
	)
}
