package handlers

import (
	stdErrors "errors"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/bot/keyboard"
	"github.com/Proton-105/hydration-bot/internal/domain"
	errors "github.com/Proton-105/hydration-bot/internal/errors"
	"github.com/Proton-105/hydration-bot/internal/i18n"
)

// NewRemindHandler handles "/remind HH:MM HH:MM MINUTES".
func NewRemindHandler(reminders ReminderService, texts *i18n.Manager, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args, err := ParseRemindArgs(c.Message().Payload)
		if err != nil {
			return c.Send(translator(texts, c).T("remind.usage"))
		}
		return configure(c, reminders, texts, log, args)
	}
}

// NewConfigureHelpHandler explains /remind and offers one-tap presets.
func NewConfigureHelpHandler(texts *i18n.Manager) Handler {
	return func(c telebot.Context) error {
		return c.Send(translator(texts, c).T("remind.help"), keyboard.PresetButtons())
	}
}

// NewDisableHandler turns reminders off for the sender.
func NewDisableHandler(reminders ReminderService, texts *i18n.Manager) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		if err := reminders.Disable(RequestContext(c), sender.ID); err != nil {
			return err
		}

		t := translator(texts, c)
		if c.Callback() != nil {
			_ = respondCallback(c, t.T("remind.disabled"), false)
		}
		return c.Send(t.T("remind.disabled"), keyboard.MainMenu(t))
	}
}

// HandlePresetCallback applies a preset from the configure help message.
func HandlePresetCallback(reminders ReminderService, texts *i18n.Manager, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		_, data, err := keyboard.DecodeCallback(c.Callback().Data)
		if err != nil {
			return respondCallback(c, translator(texts, c).T("remind.usage"), true)
		}

		args, err := ParseRemindArgs(strings.ReplaceAll(data, "|", " "))
		if err != nil {
			return respondCallback(c, translator(texts, c).T("remind.usage"), true)
		}

		_ = respondCallback(c, "", false)
		return configure(c, reminders, texts, log, args)
	}
}

func configure(c telebot.Context, reminders ReminderService, texts *i18n.Manager, log *slog.Logger, args RemindArgs) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	t := translator(texts, c)

	cfg, err := reminders.Configure(RequestContext(c), sender.ID, args.Start, args.End, args.Interval)
	switch {
	case err == nil:
	case stdErrors.Is(err, errors.ErrInvalidInterval) && args.Interval > domain.MaxIntervalMinutes:
		return c.Send(t.Tf("remind.max_interval", domain.MaxIntervalMinutes))
	case stdErrors.Is(err, errors.ErrInvalidInterval):
		return c.Send(t.Tf("remind.min_interval", domain.MinIntervalMinutes))
	case stdErrors.Is(err, errors.ErrMalformedTime):
		return c.Send(t.T("remind.usage"))
	default:
		if log != nil {
			log.Error("configure reminders failed", slog.Int64("user_id", sender.ID), slog.Any("error", err))
		}
		return err
	}

	return c.Send(
		t.Tf("remind.configured", cfg.Start.String(), cfg.End.String(), cfg.IntervalMinutes),
		keyboard.DisableButton(t),
	)
}
