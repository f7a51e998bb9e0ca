// Package bot is the Telegram transport: it routes updates to the intake and reminder services and
// delivers reminders back to users.
package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/hydration-bot/internal/bot/handlers"
	"github.com/Proton-105/hydration-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/hydration-bot/internal/errors"
	"github.com/Proton-105/hydration-bot/internal/i18n"
	"github.com/Proton-105/hydration-bot/internal/middleware"
	"github.com/Proton-105/hydration-bot/pkg/config"
)

// Command constants for Telegram bot commands.
const (
	CommandStart  = "/start"
	CommandRemind = "/remind"
	CommandStop   = "/stop"
	CommandToday  = "/today"
	CommandWeek   = "/week"
	CommandHelp   = "/help"
)

// Quick amounts offered on the reply keyboard, in millilitres.
var quickAmounts = map[string]int{
	keyboard.ButtonQuick200: 200,
	keyboard.ButtonQuick300: 300,
	keyboard.ButtonQuick500: 500,
}

// Dependencies are the services the bot routes updates to.
type Dependencies struct {
	Intake      handlers.IntakeService
	Reminders   handlers.ReminderService
	Texts       *i18n.Manager
	RateLimitMw *middleware.RateLimitMiddleware
	ErrHandler  *errors.Handler
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot *telebot.Bot
	log     *slog.Logger
	router  *Router
	deps    Dependencies
}

// New builds a long-polling telegram bot instance.
func New(cfg config.BotConfig, log *slog.Logger, deps Dependencies) (*Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: cfg.PollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return newBot(tb, log, deps), nil
}

func newBot(tb *telebot.Bot, log *slog.Logger, deps Dependencies) *Bot {
	if log == nil {
		log = slog.Default()
	}
	if deps.ErrHandler == nil {
		deps.ErrHandler = errors.NewHandler(log, false)
	}

	b := &Bot{
		telebot: tb,
		log:     log,
		router:  NewRouter(log),
		deps:    deps,
	}

	b.setupRouter()

	if b.deps.RateLimitMw != nil {
		b.telebot.Use(b.deps.RateLimitMw.Handle)
	}

	b.registerTelebotHandlers()

	return b
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Router exposes the update router.
func (b *Bot) Router() *Router {
	return b.router
}

func (b *Bot) setupRouter() {
	texts := b.deps.Texts

	b.router.Use(ContextMiddleware)
	b.router.Use(RecoveryMiddleware(b.log, b.deps.ErrHandler))
	b.router.Use(ErrorHandlingMiddleware(b.deps.ErrHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics)

	today := handlers.NewTodayHandler(b.deps.Intake, texts)
	week := handlers.NewWeekHandler(b.deps.Intake, texts)
	help := handlers.NewConfigureHelpHandler(texts)
	disable := handlers.NewDisableHandler(b.deps.Reminders, texts)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(texts, b.log))
	b.router.RegisterCommand(CommandRemind, handlers.NewRemindHandler(b.deps.Reminders, texts, b.log))
	b.router.RegisterCommand(CommandStop, disable)
	b.router.RegisterCommand(CommandToday, today)
	b.router.RegisterCommand(CommandWeek, week)
	b.router.RegisterCommand(CommandHelp, help)

	for key, amount := range quickAmounts {
		b.router.RegisterButton(handlers.NewQuickAmountHandler(b.deps.Intake, texts, amount, b.log), texts.Variants(key)...)
	}
	b.router.RegisterButton(today, texts.Variants(keyboard.ButtonToday)...)
	b.router.RegisterButton(week, texts.Variants(keyboard.ButtonWeek)...)
	b.router.RegisterButton(help, texts.Variants(keyboard.ButtonConfigure)...)
	b.router.RegisterButton(disable, texts.Variants(keyboard.ButtonDisable)...)

	b.router.RegisterCallback(keyboard.ActionDisable, handlers.CallbackHandler(disable))
	b.router.RegisterCallback(keyboard.ActionPreset, handlers.HandlePresetCallback(b.deps.Reminders, texts, b.log))

	b.router.SetDefault(handlers.NewIntakeHandler(b.deps.Intake, texts, b.log))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
