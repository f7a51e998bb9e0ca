package keyboard

import (
	"fmt"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/i18n"
)

// Callback actions.
const (
	ActionDisable = "reminders_off"
	ActionPreset  = "reminders_preset"
)

// Preset is a one-tap reminder schedule offered under the configuration help.
type Preset struct {
	Start           string
	End             string
	IntervalMinutes int
}

// Presets offered on the configure help message.
var Presets = []Preset{
	{Start: "09:00", End: "22:00", IntervalMinutes: 60},
	{Start: "09:00", End: "22:00", IntervalMinutes: 120},
	{Start: "08:00", End: "20:00", IntervalMinutes: 90},
}

// Label renders the preset as button text.
func (p Preset) Label() string {
	return fmt.Sprintf("%s–%s / %d min", p.Start, p.End, p.IntervalMinutes)
}

// Payload renders the preset as callback payload.
func (p Preset) Payload() string {
	return fmt.Sprintf("%s|%s|%d", p.Start, p.End, p.IntervalMinutes)
}

// InlineButton is an inline keyboard button before its callback data is encoded.
type InlineButton struct {
	Text   string
	Action string
	Data   string
}

// InlineKeyboardBuilder accumulates rows of buttons before rendering telebot markup.
type InlineKeyboardBuilder struct {
	rows [][]InlineButton
}

func NewInlineKeyboard() *InlineKeyboardBuilder {
	return &InlineKeyboardBuilder{}
}

// AddRow appends a row. Empty rows are ignored.
func (b *InlineKeyboardBuilder) AddRow(buttons ...InlineButton) *InlineKeyboardBuilder {
	if len(buttons) == 0 {
		return b
	}

	row := make([]InlineButton, len(buttons))
	copy(row, buttons)
	b.rows = append(b.rows, row)
	return b
}

// Build encodes callback data for every button. Buttons whose data does not fit are dropped.
func (b *InlineKeyboardBuilder) Build() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	inlineKeyboard := make([][]telebot.InlineButton, 0, len(b.rows))
	for _, row := range b.rows {
		out := make([]telebot.InlineButton, 0, len(row))
		for _, btn := range row {
			data, err := EncodeCallback(btn.Action, btn.Data)
			if err != nil {
				continue
			}
			out = append(out, telebot.InlineButton{Text: btn.Text, Data: data})
		}
		if len(out) > 0 {
			inlineKeyboard = append(inlineKeyboard, out)
		}
	}

	markup.InlineKeyboard = inlineKeyboard
	return markup
}

// DisableButton is attached to reminder confirmations.
func DisableButton(t i18n.Translator) *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{Text: t.T("button.disable_inline"), Action: ActionDisable}).
		Build()
}

// PresetButtons offers the reminder presets, one per row.
func PresetButtons() *telebot.ReplyMarkup {
	b := NewInlineKeyboard()
	for _, p := range Presets {
		b.AddRow(InlineButton{Text: p.Label(), Action: ActionPreset, Data: p.Payload()})
	}
	return b.Build()
}
