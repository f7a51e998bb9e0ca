// Package handlers maps Telegram updates onto the intake and reminder services.
package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/domain"
	"github.com/Proton-105/hydration-bot/internal/i18n"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// ContextKey is where middlewares store the per-update context.Context.
const ContextKey = "request_ctx"

// IntakeService records servings and serves the reports.
type IntakeService interface {
	Record(ctx context.Context, userID int64, amount int) (domain.DaySummary, error)
	Today(ctx context.Context, userID int64) (domain.DaySummary, error)
	Week(ctx context.Context, userID int64) (domain.WeekSummary, error)
}

// ReminderService configures and disables reminders.
type ReminderService interface {
	Configure(ctx context.Context, userID int64, start, end string, interval int) (*domain.ReminderConfig, error)
	Disable(ctx context.Context, userID int64) error
}

// RequestContext returns the context stored by the context middleware, or Background.
func RequestContext(c telebot.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if ctx, ok := c.Get(ContextKey).(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}

func translator(texts *i18n.Manager, c telebot.Context) i18n.Translator {
	lang := ""
	if sender := c.Sender(); sender != nil {
		lang = sender.LanguageCode
	}
	return texts.Translator(lang)
}

func respondCallback(c telebot.Context, text string, alert bool) error {
	if c.Callback() == nil {
		return nil
	}
	return c.Respond(&telebot.CallbackResponse{
		Text:      text,
		ShowAlert: alert,
	})
}
