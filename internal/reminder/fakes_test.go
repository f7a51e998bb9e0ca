package reminder

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Proton-105/hydration-bot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeHandle struct {
	userID    int64
	interval  time.Duration
	delay     time.Duration
	fn        func()
	cancelled atomic.Bool
}

func (h *fakeHandle) Cancel() {
	h.cancelled.Store(true)
}

// fire runs the callback even when cancelled, modelling a tick that raced with cancellation.
func (h *fakeHandle) fire() {
	h.fn()
}

type fakeTimer struct {
	mu      sync.Mutex
	handles []*fakeHandle
	err     error
}

func (f *fakeTimer) Every(userID int64, interval, firstDelay time.Duration, fn func()) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	h := &fakeHandle{userID: userID, interval: interval, delay: firstDelay, fn: fn}
	f.handles = append(f.handles, h)
	return h, nil
}

func (f *fakeTimer) all() []*fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*fakeHandle(nil), f.handles...)
}

func (f *fakeTimer) live() []*fakeHandle {
	var out []*fakeHandle
	for _, h := range f.all() {
		if !h.cancelled.Load() {
			out = append(out, h)
		}
	}
	return out
}

type delivery struct {
	userID int64
	text   string
}

type fakeNotifier struct {
	mu       sync.Mutex
	sent     []delivery
	err      error
	block    chan struct{}
	attempts atomic.Int32
}

func (n *fakeNotifier) Deliver(ctx context.Context, userID int64, text string) error {
	n.attempts.Add(1)
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if n.err != nil {
		return n.err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, delivery{userID: userID, text: text})
	return nil
}

func (n *fakeNotifier) deliveries() []delivery {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]delivery(nil), n.sent...)
}

type memStore struct {
	mu        sync.Mutex
	configs   map[int64]domain.ReminderConfig
	upsertErr error
	getErr    error
}

func newMemStore() *memStore {
	return &memStore{configs: make(map[int64]domain.ReminderConfig)}
}

func (m *memStore) UpsertReminderConfig(_ context.Context, userID int64, start, end domain.TimeOfDay, interval int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.configs[userID] = domain.ReminderConfig{UserID: userID, Start: start, End: end, IntervalMinutes: interval, IsActive: true}
	return nil
}

func (m *memStore) GetReminderConfig(_ context.Context, userID int64) (*domain.ReminderConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	cfg, ok := m.configs[userID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (m *memStore) DeactivateReminder(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg, ok := m.configs[userID]; ok {
		cfg.IsActive = false
		m.configs[userID] = cfg
	}
	return nil
}

func (m *memStore) ListActiveReminderConfigs(_ context.Context) ([]domain.ReminderConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.ReminderConfig
	for _, cfg := range m.configs {
		if cfg.IsActive {
			out = append(out, cfg)
		}
	}
	return out, nil
}

type fixedSummaries struct {
	totals map[int64]int
	err    error
}

func (f fixedSummaries) TodaySummary(_ context.Context, userID int64) (domain.DaySummary, error) {
	if f.err != nil {
		return domain.DaySummary{}, f.err
	}
	return domain.DaySummary{Total: f.totals[userID], Target: domain.DailyTargetML}, nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
