package handlers_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/bot/handlers"
	"github.com/Proton-105/hydration-bot/internal/domain"
	errors "github.com/Proton-105/hydration-bot/internal/errors"
	"github.com/Proton-105/hydration-bot/internal/i18n"
)

func loadTexts(t *testing.T) *i18n.Manager {
	t.Helper()
	texts, err := i18n.Load("en")
	require.NoError(t, err)
	return texts
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		text   string
		amount int
		ok     bool
	}{
		{text: "250", amount: 250, ok: true},
		{text: "250 мл", amount: 250, ok: true},
		{text: "☕️ 200 ml", amount: 200, ok: true},
		{text: "hello", ok: false},
		{text: "", ok: false},
		{text: "99999999999999999999", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			amount, ok := handlers.ParseAmount(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.amount, amount)
		})
	}
}

func TestParseRemindArgs(t *testing.T) {
	args, err := handlers.ParseRemindArgs(" 09:00  22:00 120 ")
	require.NoError(t, err)
	assert.Equal(t, handlers.RemindArgs{Start: "09:00", End: "22:00", Interval: 120}, args)

	_, err = handlers.ParseRemindArgs("09:00 22:00")
	assert.Error(t, err)

	_, err = handlers.ParseRemindArgs("09:00 22:00 often")
	assert.Error(t, err)
}

func TestStartHandler(t *testing.T) {
	c := newTextContext(1, "ru", "/start")

	require.NoError(t, handlers.NewStartHandler(loadTexts(t), nil)(c))

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0].text, "Привет, Alice!")
	require.Len(t, c.sent[0].opts, 1)
	markup, ok := c.sent[0].opts[0].(*telebot.ReplyMarkup)
	require.True(t, ok)
	assert.Len(t, markup.ReplyKeyboard, 3)
}

func TestIntakeHandler_RecordsParsedAmount(t *testing.T) {
	svc := &mockIntake{}
	svc.On("Record", mock.Anything, int64(5), 250).
		Return(domain.DaySummary{Total: 750, Target: domain.DailyTargetML}, nil)

	c := newTextContext(5, "en", "250 ml")
	require.NoError(t, handlers.NewIntakeHandler(svc, loadTexts(t), nil)(c))

	assert.Equal(t, "Added 250 ml of water! 💧\nTotal today: 750 ml", c.lastText())
	svc.AssertExpectations(t)
}

func TestIntakeHandler_InvalidInput(t *testing.T) {
	svc := &mockIntake{}
	svc.On("Record", mock.Anything, int64(5), 5000).
		Return(domain.DaySummary{}, errors.NewInvalidAmountError(5000, domain.MaxServingML))
	texts := loadTexts(t)

	noDigits := newTextContext(5, "en", "lots of water")
	require.NoError(t, handlers.NewIntakeHandler(svc, texts, nil)(noDigits))
	assert.Contains(t, noDigits.lastText(), "valid amount")

	tooMuch := newTextContext(5, "en", "5000")
	require.NoError(t, handlers.NewIntakeHandler(svc, texts, nil)(tooMuch))
	assert.Contains(t, tooMuch.lastText(), "valid amount")

	svc.AssertNumberOfCalls(t, "Record", 1)
}

func TestIntakeHandler_StorageErrorIsReturned(t *testing.T) {
	svc := &mockIntake{}
	storageErr := errors.NewStorageError("record intake", io.EOF)
	svc.On("Record", mock.Anything, int64(5), 300).Return(domain.DaySummary{}, storageErr)

	c := newTextContext(5, "en", "🥤 300 ml")
	err := handlers.NewQuickAmountHandler(svc, loadTexts(t), 300, nil)(c)

	assert.ErrorIs(t, err, errors.ErrStorage)
	assert.Empty(t, c.sent)
}

func TestTodayHandler(t *testing.T) {
	svc := &mockIntake{}
	svc.On("Today", mock.Anything, int64(3)).
		Return(domain.DaySummary{Total: 2100, Target: domain.DailyTargetML}, nil).Once()
	svc.On("Today", mock.Anything, int64(3)).
		Return(domain.DaySummary{Total: 400, Target: domain.DailyTargetML}, nil).Once()
	texts := loadTexts(t)

	reached := newTextContext(3, "en", "📊 Today's stats")
	require.NoError(t, handlers.NewTodayHandler(svc, texts)(reached))
	assert.Equal(t, "Today you drank 2100 ml of water 💧\n👍 Great result!", reached.lastText())

	behind := newTextContext(3, "en", "📊 Today's stats")
	require.NoError(t, handlers.NewTodayHandler(svc, texts)(behind))
	assert.Contains(t, behind.lastText(), "Don't forget")
}

func TestFormatWeek(t *testing.T) {
	tr := loadTexts(t).Translator("en")

	assert.Equal(t, "No water records for the last week.", handlers.FormatWeek(tr, domain.WeekSummary{}))

	summary := domain.WeekSummary{
		Days: []domain.DayTotal{
			{Date: date(9), Total: 1500},
			{Date: date(10), Total: 2000},
		},
		Total:   3500,
		Average: 1750,
		HasData: true,
	}

	want := "📈 Statistics for the last 7 days:\n\n" +
		"Monday: 1500 ml\n" +
		"Tuesday: 2000 ml\n" +
		"\nAverage: 1750 ml per day"
	assert.Equal(t, want, handlers.FormatWeek(tr, summary))
}

func TestRemindHandler(t *testing.T) {
	texts := loadTexts(t)
	start, _ := domain.ParseTimeOfDay("09:00")
	end, _ := domain.ParseTimeOfDay("22:00")

	reminders := &mockReminders{}
	reminders.On("Configure", mock.Anything, int64(9), "09:00", "22:00", 120).
		Return(&domain.ReminderConfig{UserID: 9, Start: start, End: end, IntervalMinutes: 120, IsActive: true}, nil)
	reminders.On("Configure", mock.Anything, int64(9), "09:00", "22:00", 10).
		Return(nil, errors.NewInvalidIntervalError(10, domain.MinIntervalMinutes))
	reminders.On("Configure", mock.Anything, int64(9), "9h", "22:00", 60).
		Return(nil, errors.NewMalformedTimeError("9h"))
	reminders.On("Configure", mock.Anything, int64(9), "09:00", "22:00", 2000).
		Return(nil, errors.NewIntervalTooLongError(2000, domain.MaxIntervalMinutes))

	handler := handlers.NewRemindHandler(reminders, texts, nil)

	ok := newCommandContext(9, "en", "/remind 09:00 22:00 120", "09:00 22:00 120")
	require.NoError(t, handler(ok))
	assert.Equal(t, "Reminders are set!\nTime: from 09:00 to 22:00\nInterval: 120 minutes", ok.lastText())
	markup, isMarkup := ok.sent[0].opts[0].(*telebot.ReplyMarkup)
	require.True(t, isMarkup)
	assert.Equal(t, "reminders_off", markup.InlineKeyboard[0][0].Data)

	short := newCommandContext(9, "en", "/remind 09:00 22:00 10", "09:00 22:00 10")
	require.NoError(t, handler(short))
	assert.Equal(t, "The minimum interval is 30 minutes!", short.lastText())

	long := newCommandContext(9, "en", "/remind 09:00 22:00 2000", "09:00 22:00 2000")
	require.NoError(t, handler(long))
	assert.Equal(t, "The maximum interval is 1440 minutes!", long.lastText())

	malformed := newCommandContext(9, "en", "/remind 9h 22:00 60", "9h 22:00 60")
	require.NoError(t, handler(malformed))
	assert.Contains(t, malformed.lastText(), "Use the format")

	missing := newCommandContext(9, "en", "/remind", "")
	require.NoError(t, handler(missing))
	assert.Contains(t, missing.lastText(), "Use the format")

	reminders.AssertNumberOfCalls(t, "Configure", 4)
}

func TestPresetCallback(t *testing.T) {
	start, _ := domain.ParseTimeOfDay("08:00")
	end, _ := domain.ParseTimeOfDay("20:00")

	reminders := &mockReminders{}
	reminders.On("Configure", mock.Anything, int64(4), "08:00", "20:00", 90).
		Return(&domain.ReminderConfig{UserID: 4, Start: start, End: end, IntervalMinutes: 90, IsActive: true}, nil)

	c := newCallbackContext(4, "en", "reminders_preset:08:00|20:00|90")
	require.NoError(t, handlers.HandlePresetCallback(reminders, loadTexts(t), nil)(c))

	assert.Len(t, c.responses, 1)
	assert.Contains(t, c.lastText(), "from 08:00 to 20:00")
	reminders.AssertExpectations(t)
}

func TestDisableHandler(t *testing.T) {
	reminders := &mockReminders{}
	reminders.On("Disable", mock.Anything, int64(2)).Return(nil)
	texts := loadTexts(t)

	button := newTextContext(2, "en", "🔕 Disable reminders")
	require.NoError(t, handlers.NewDisableHandler(reminders, texts)(button))
	assert.Equal(t, "Reminders disabled!", button.lastText())
	assert.Empty(t, button.responses)

	inline := newCallbackContext(2, "en", "reminders_off")
	require.NoError(t, handlers.NewDisableHandler(reminders, texts)(inline))
	assert.Len(t, inline.responses, 1)

	reminders.AssertNumberOfCalls(t, "Disable", 2)
}

func TestConfigureHelpHandler(t *testing.T) {
	c := newTextContext(2, "en", "⏰ Set reminders")
	require.NoError(t, handlers.NewConfigureHelpHandler(loadTexts(t))(c))

	assert.Contains(t, c.lastText(), "/remind 09:00 22:00 120")
	markup, ok := c.sent[0].opts[0].(*telebot.ReplyMarkup)
	require.True(t, ok)
	assert.NotEmpty(t, markup.InlineKeyboard)
}
