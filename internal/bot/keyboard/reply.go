// Package keyboard renders the bot's reply and inline keyboards.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/i18n"
)

// Button keys in the i18n catalog.
const (
	ButtonQuick200  = "button.quick_200"
	ButtonQuick300  = "button.quick_300"
	ButtonQuick500  = "button.quick_500"
	ButtonToday     = "button.today"
	ButtonWeek      = "button.week"
	ButtonConfigure = "button.configure"
	ButtonDisable   = "button.disable"
)

// MainMenu builds the persistent reply keyboard: quick amounts, reports and reminder controls.
func MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	markup.Reply(
		markup.Row(markup.Text(t.T(ButtonQuick200)), markup.Text(t.T(ButtonQuick300)), markup.Text(t.T(ButtonQuick500))),
		markup.Row(markup.Text(t.T(ButtonToday)), markup.Text(t.T(ButtonWeek))),
		markup.Row(markup.Text(t.T(ButtonConfigure)), markup.Text(t.T(ButtonDisable))),
	)

	return markup
}
