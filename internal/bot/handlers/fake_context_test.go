package handlers_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/domain"
)

type sentMessage struct {
	text string
	opts []interface{}
}

// fakeContext implements the parts of telebot.Context the handlers use.
type fakeContext struct {
	telebot.Context

	mu        sync.Mutex
	sender    *telebot.User
	message   *telebot.Message
	callback  *telebot.Callback
	store     map[string]interface{}
	sent      []sentMessage
	responses []*telebot.CallbackResponse
}

func newTextContext(userID int64, lang, text string) *fakeContext {
	return &fakeContext{
		sender:  &telebot.User{ID: userID, FirstName: "Alice", LanguageCode: lang},
		message: &telebot.Message{Text: text},
		store:   make(map[string]interface{}),
	}
}

func newCommandContext(userID int64, lang, text, payload string) *fakeContext {
	c := newTextContext(userID, lang, text)
	c.message.Payload = payload
	return c
}

func newCallbackContext(userID int64, lang, data string) *fakeContext {
	c := newTextContext(userID, lang, "")
	c.callback = &telebot.Callback{Data: data, Message: c.message}
	return c
}

func (c *fakeContext) Sender() *telebot.User { return c.sender }
func (c *fakeContext) Message() *telebot.Message { return c.message }
func (c *fakeContext) Callback() *telebot.Callback { return c.callback }
func (c *fakeContext) Get(key string) interface{} { return c.store[key] }
func (c *fakeContext) Set(key string, v interface{}) { c.store[key] = v }

func (c *fakeContext) Text() string {
	if c.message == nil {
		return ""
	}
	return c.message.Text
}

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, _ := what.(string)
	c.sent = append(c.sent, sentMessage{text: text, opts: opts})
	return nil
}

func (c *fakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, resp...)
	return nil
}

func (c *fakeContext) lastText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1].text
}

type mockIntake struct {
	mock.Mock
}

func (m *mockIntake) Record(ctx context.Context, userID int64, amount int) (domain.DaySummary, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(domain.DaySummary), args.Error(1)
}

func (m *mockIntake) Today(ctx context.Context, userID int64) (domain.DaySummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.DaySummary), args.Error(1)
}

func (m *mockIntake) Week(ctx context.Context, userID int64) (domain.WeekSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.WeekSummary), args.Error(1)
}

type mockReminders struct {
	mock.Mock
}

func (m *mockReminders) Configure(ctx context.Context, userID int64, start, end string, interval int) (*domain.ReminderConfig, error) {
	args := m.Called(ctx, userID, start, end, interval)
	cfg, _ := args.Get(0).(*domain.ReminderConfig)
	return cfg, args.Error(1)
}

func (m *mockReminders) Disable(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func date(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}
