package middleware

import (
	"context"
	"log/slog"
	"strings"

	"gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/i18n"
	"github.com/Proton-105/hydration-bot/internal/ratelimit"
)

// RateLimitMiddleware enforces per-user rate limits for incoming Telegram updates.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	rules   *ratelimit.Rules
	texts   *i18n.Manager
	log     *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, rules *ratelimit.Rules, texts *i18n.Manager, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		rules:   rules,
		texts:   texts,
		log:     log,
	}
}

// Handle returns a telebot middleware that enforces per-user rate limits.
// Limiter failures let the update through.
func (m *RateLimitMiddleware) Handle(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if m.limiter == nil || m.rules == nil || !m.rules.Enabled() {
			return next(c)
		}

		sender := c.Sender()
		if sender == nil {
			return next(c)
		}

		userID := sender.ID
		if m.rules.IsWhitelisted(userID) {
			return next(c)
		}

		limit, window, err := m.rules.GetPerUserLimit()
		if err != nil {
			m.log.Error("failed to load per-user rate limit", slog.Int64("user_id", userID), slog.Any("error", err))
			return next(c)
		}

		kind := updateKind(c)
		result, err := m.limiter.Check(context.Background(), userID, kind, limit, window)
		if err != nil {
			m.log.Warn("rate limiter error", slog.Int64("user_id", userID), slog.String("kind", string(kind)), slog.Any("error", err))
			return next(c)
		}

		if !result.Allowed {
			m.log.Warn("rate limit exceeded",
				slog.Int64("user_id", userID), slog.String("kind", string(kind)), slog.Time("reset_at", result.ResetAt))
			msg := m.texts.Translator(sender.LanguageCode).T("ratelimit.exceeded")
			if kind == ratelimit.UpdateCallback {
				return c.Respond(&telebot.CallbackResponse{Text: msg})
			}
			return c.Send(msg)
		}

		return next(c)
	}
}

func updateKind(c telebot.Context) ratelimit.UpdateKind {
	if c.Callback() != nil {
		return ratelimit.UpdateCallback
	}

	text := strings.TrimSpace(c.Text())
	switch {
	case strings.HasPrefix(text, "/"):
		return ratelimit.UpdateCommand
	case text != "":
		return ratelimit.UpdateText
	default:
		return ratelimit.UpdateOther
	}
}
