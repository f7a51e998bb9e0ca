package bot

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"net/http"

	telebot "gopkg.in/telebot.v3"

	errors "github.com/Proton-105/hydration-bot/internal/errors"
)

// Sender is the part of telebot.Bot the notifier needs.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Notifier delivers reminder texts over Telegram.
// Transient failures are retried and trip a circuit breaker. Rejections by Telegram, such as a user
// who blocked the bot, are neither retried nor counted against the breaker.
type Notifier struct {
	sender  Sender
	breaker *errors.CircuitBreaker
	log     *slog.Logger
}

func NewNotifier(sender Sender, breaker *errors.CircuitBreaker, log *slog.Logger) *Notifier {
	if breaker == nil {
		breaker = errors.NewCircuitBreaker()
	}
	if log == nil {
		log = slog.Default()
	}

	return &Notifier{
		sender:  sender,
		breaker: breaker,
		log:     log.With(slog.String("component", "notifier")),
	}
}

// Deliver sends text to the user's private chat.
func (n *Notifier) Deliver(ctx context.Context, userID int64, text string) error {
	var rejected error

	err := errors.WithRetry(ctx, func() error {
		callErr := n.breaker.Call(func() error {
			_, sendErr := n.sender.Send(telebot.ChatID(userID), text)
			if sendErr != nil && isRejection(sendErr) {
				rejected = sendErr
				return nil
			}
			if sendErr != nil {
				return errors.NewDeliveryError(sendErr)
			}
			return nil
		})
		if stdErrors.Is(callErr, errors.ErrCircuitOpen) {
			return errors.NewDeliveryError(callErr)
		}
		return callErr
	})

	if rejected != nil {
		n.log.WarnContext(ctx, "telegram rejected reminder", slog.Int64("user_id", userID), slog.Any("error", rejected))
		return errors.NewDeliveryRejectedError(rejected)
	}

	return err
}

// isRejection reports client errors other than flood control.
func isRejection(err error) bool {
	var tbErr *telebot.Error
	if !stdErrors.As(err, &tbErr) {
		return false
	}
	return tbErr.Code >= http.StatusBadRequest &&
		tbErr.Code < http.StatusInternalServerError &&
		tbErr.Code != http.StatusTooManyRequests
}
