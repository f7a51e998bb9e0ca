package bot

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/bot/handlers"
	"github.com/Proton-105/hydration-bot/internal/i18n"
	"github.com/Proton-105/hydration-bot/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBot(t *testing.T) (*Bot, *recordingIntake, *recordingReminders) {
	t.Helper()

	tb, err := telebot.NewBot(telebot.Settings{Offline: true})
	require.NoError(t, err)

	texts, err := i18n.Load("en")
	require.NoError(t, err)

	intake := &recordingIntake{}
	reminders := &recordingReminders{}
	b := newBot(tb, testLogger(), Dependencies{Intake: intake, Reminders: reminders, Texts: texts})

	return b, intake, reminders
}

func TestRouter_QuickButtonsInEveryLanguage(t *testing.T) {
	b, intake, _ := newTestBot(t)

	for _, text := range []string{"☕️ 200 ml", "🥤 300 мл", "🫗 500 ml"} {
		require.NoError(t, b.Router().Route(textUpdate(1, text)))
	}

	assert.Equal(t, []int{200, 300, 500}, intake.recorded)
}

func TestRouter_FreeTextFallsBackToIntake(t *testing.T) {
	b, intake, _ := newTestBot(t)

	c := textUpdate(1, "250 ml")
	require.NoError(t, b.Router().Route(c))

	assert.Equal(t, []int{250}, intake.recorded)
	assert.Contains(t, c.messages()[0], "Added 250 ml")
}

func TestRouter_CommandsWithArgumentsAndBotName(t *testing.T) {
	b, _, reminders := newTestBot(t)

	c := textUpdate(1, "/remind@hydration_bot 09:00 22:00 60")
	c.message.Payload = "09:00 22:00 60"
	require.NoError(t, b.Router().Route(c))
	assert.Equal(t, int32(1), reminders.configured.Load())

	require.NoError(t, b.Router().Route(textUpdate(1, "/stop")))
	require.NoError(t, b.Router().Route(textUpdate(1, "🔕 Отключить напоминания")))
	assert.Equal(t, int32(2), reminders.disabled.Load())
}

func TestRouter_Callbacks(t *testing.T) {
	b, _, reminders := newTestBot(t)

	require.NoError(t, b.Router().Route(callbackUpdate(1, "reminders_preset:09:00|22:00|120")))
	assert.Equal(t, int32(1), reminders.configured.Load())

	require.NoError(t, b.Router().Route(callbackUpdate(1, "reminders_off")))
	assert.Equal(t, int32(1), reminders.disabled.Load())

	unknown := callbackUpdate(1, "something_else")
	require.NoError(t, b.Router().Route(unknown))
	assert.Equal(t, 1, unknown.answered)
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	b, _, reminders := newTestBot(t)
	reminders.panicOn = true

	c := textUpdate(1, "/remind 09:00 22:00 60")
	c.message.Payload = "09:00 22:00 60"

	assert.NotPanics(t, func() {
		assert.NoError(t, b.Router().Route(c))
	})
	require.NotEmpty(t, c.messages())
}

func TestContextMiddleware_AttachesCorrelationID(t *testing.T) {
	var seen context.Context
	h := ContextMiddleware(func(c telebot.Context) error {
		seen = handlers.RequestContext(c)
		return nil
	})

	require.NoError(t, h(textUpdate(1, "hi")))
	assert.NotEmpty(t, logger.CorrelationIDFromContext(seen))
}

func TestErrorHandlingMiddleware_RepliesAndSwallows(t *testing.T) {
	h := ErrorHandlingMiddleware(nil)(func(telebot.Context) error {
		return io.ErrUnexpectedEOF
	})

	c := textUpdate(1, "hi")
	require.NoError(t, h(c))
	assert.Equal(t, []string{"Something went wrong. Please try again later."}, c.messages())
}
