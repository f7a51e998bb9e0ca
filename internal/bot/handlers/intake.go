package handlers

import (
	stdErrors "errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/hydration-bot/internal/errors"
	"github.com/Proton-105/hydration-bot/internal/i18n"
)

// NewIntakeHandler records the amount found in free text. It is the router's default handler.
func NewIntakeHandler(svc IntakeService, texts *i18n.Manager, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		amount, ok := ParseAmount(c.Text())
		if !ok {
			t := translator(texts, c)
			return c.Send(t.T("intake.invalid"), keyboard.MainMenu(t))
		}
		return record(c, svc, texts, log, amount)
	}
}

// NewQuickAmountHandler records a fixed amount for a reply keyboard button.
func NewQuickAmountHandler(svc IntakeService, texts *i18n.Manager, amount int, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		return record(c, svc, texts, log, amount)
	}
}

func record(c telebot.Context, svc IntakeService, texts *i18n.Manager, log *slog.Logger, amount int) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	t := translator(texts, c)

	summary, err := svc.Record(RequestContext(c), sender.ID, amount)
	if stdErrors.Is(err, errors.ErrInvalidAmount) {
		return c.Send(t.T("intake.invalid"), keyboard.MainMenu(t))
	}
	if err != nil {
		if log != nil {
			log.Error("record intake failed", slog.Int64("user_id", sender.ID), slog.Int("amount", amount), slog.Any("error", err))
		}
		return err
	}

	return c.Send(t.Tf("intake.added", amount, summary.Total), keyboard.MainMenu(t))
}
