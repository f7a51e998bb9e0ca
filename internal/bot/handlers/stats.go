package handlers

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/bot/keyboard"
	"github.com/Proton-105/hydration-bot/internal/domain"
	"github.com/Proton-105/hydration-bot/internal/i18n"
)

// NewTodayHandler reports today's total, with praise once the target is reached.
func NewTodayHandler(svc IntakeService, texts *i18n.Manager) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		summary, err := svc.Today(RequestContext(c), sender.ID)
		if err != nil {
			return err
		}

		t := translator(texts, c)
		return c.Send(FormatToday(t, summary), keyboard.MainMenu(t))
	}
}

// NewWeekHandler reports every day of the last week that has records, plus the average.
func NewWeekHandler(svc IntakeService, texts *i18n.Manager) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		summary, err := svc.Week(RequestContext(c), sender.ID)
		if err != nil {
			return err
		}

		t := translator(texts, c)
		return c.Send(FormatWeek(t, summary), keyboard.MainMenu(t))
	}
}

// FormatToday renders the daily report.
func FormatToday(t i18n.Translator, summary domain.DaySummary) string {
	verdict := t.T("today.encourage")
	if summary.Reached() {
		verdict = t.T("today.praise")
	}
	return t.Tf("today.summary", summary.Total) + "\n" + verdict
}

// FormatWeek renders the weekly report. An empty week never shows an average.
func FormatWeek(t i18n.Translator, summary domain.WeekSummary) string {
	if !summary.HasData {
		return t.T("week.empty")
	}

	var b strings.Builder
	b.WriteString(t.T("week.header"))
	b.WriteString("\n\n")
	for _, day := range summary.Days {
		name := t.T("weekday." + strings.ToLower(day.Date.Weekday().String()))
		b.WriteString(t.Tf("week.day", name, day.Total))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.Tf("week.average", summary.Average))

	return b.String()
}
