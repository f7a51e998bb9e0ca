package bot

import (
	"context"
	"sync"
	"sync/atomic"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/domain"
)

type fakeContext struct {
	telebot.Context

	mu       sync.Mutex
	sender   *telebot.User
	message  *telebot.Message
	callback *telebot.Callback
	store    map[string]interface{}
	sent     []string
	answered int
}

func textUpdate(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender:  &telebot.User{ID: userID, FirstName: "Bob", LanguageCode: "en"},
		message: &telebot.Message{Text: text},
		store:   make(map[string]interface{}),
	}
}

func callbackUpdate(userID int64, data string) *fakeContext {
	c := textUpdate(userID, "")
	c.callback = &telebot.Callback{Data: data, Message: c.message}
	return c
}

func (c *fakeContext) Sender() *telebot.User { return c.sender }
func (c *fakeContext) Message() *telebot.Message { return c.message }
func (c *fakeContext) Callback() *telebot.Callback { return c.callback }
func (c *fakeContext) Text() string { return c.message.Text }
func (c *fakeContext) Get(key string) interface{} { return c.store[key] }
func (c *fakeContext) Set(key string, v interface{}) { c.store[key] = v }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, _ := what.(string)
	c.sent = append(c.sent, text)
	return nil
}

func (c *fakeContext) Respond(_ ...*telebot.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answered++
	return nil
}

func (c *fakeContext) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type recordingIntake struct {
	mu       sync.Mutex
	recorded []int
	total    int
}

func (r *recordingIntake) Record(_ context.Context, _ int64, amount int) (domain.DaySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, amount)
	r.total += amount
	return domain.DaySummary{Total: r.total, Target: domain.DailyTargetML}, nil
}

func (r *recordingIntake) Today(_ context.Context, _ int64) (domain.DaySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.DaySummary{Total: r.total, Target: domain.DailyTargetML}, nil
}

func (r *recordingIntake) Week(context.Context, int64) (domain.WeekSummary, error) {
	return domain.WeekSummary{}, nil
}

type recordingReminders struct {
	configured atomic.Int32
	disabled   atomic.Int32
	panicOn    bool
}

func (r *recordingReminders) Configure(_ context.Context, userID int64, start, end string, interval int) (*domain.ReminderConfig, error) {
	if r.panicOn {
		panic("boom")
	}
	r.configured.Add(1)
	s, err := domain.ParseTimeOfDay(start)
	if err != nil {
		return nil, err
	}
	e, err := domain.ParseTimeOfDay(end)
	if err != nil {
		return nil, err
	}
	return &domain.ReminderConfig{UserID: userID, Start: s, End: e, IntervalMinutes: interval, IsActive: true}, nil
}

func (r *recordingReminders) Disable(context.Context, int64) error {
	r.disabled.Add(1)
	return nil
}

type fakeSender struct {
	mu    sync.Mutex
	errs  []error
	calls int
	to    []string
}

func (s *fakeSender) Send(to telebot.Recipient, _ interface{}, _ ...interface{}) (*telebot.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.to = append(s.to, to.Recipient())
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return &telebot.Message{}, nil
}
