package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/bot/keyboard"
	"github.com/Proton-105/hydration-bot/internal/i18n"
)

// NewStartHandler greets the user and shows the main menu.
func NewStartHandler(texts *i18n.Manager, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		t := translator(texts, c)
		return c.Send(t.Tf("start.greeting", sender.FirstName), keyboard.MainMenu(t))
	}
}
