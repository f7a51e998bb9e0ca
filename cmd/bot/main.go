package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Proton-105/hydration-bot/internal/aggregator"
	"github.com/Proton-105/hydration-bot/internal/bot"
	"github.com/Proton-105/hydration-bot/internal/database"
	"github.com/Proton-105/hydration-bot/internal/domain"
	errors "github.com/Proton-105/hydration-bot/internal/errors"
	"github.com/Proton-105/hydration-bot/internal/health"
	"github.com/Proton-105/hydration-bot/internal/i18n"
	"github.com/Proton-105/hydration-bot/internal/intake"
	"github.com/Proton-105/hydration-bot/internal/ledger"
	"github.com/Proton-105/hydration-bot/internal/lifecycle"
	"github.com/Proton-105/hydration-bot/internal/middleware"
	"github.com/Proton-105/hydration-bot/internal/ratelimit"
	"github.com/Proton-105/hydration-bot/internal/reminder"
	"github.com/Proton-105/hydration-bot/pkg/config"
	"github.com/Proton-105/hydration-bot/pkg/graceful"
	"github.com/Proton-105/hydration-bot/pkg/logger"
	"github.com/Proton-105/hydration-bot/pkg/redis"
)

const (
	rateLimitCleanupInterval = 5 * time.Minute
	rateLimitMaxAge          = time.Hour
	sentryFlushTimeout       = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hydration bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.AppEnv,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(sentryFlushTimeout)
	}

	log, level := logger.New(*cfg)
	slog.SetDefault(log)
	config.WatchLogLevel(v, level, log)

	log.Info("starting hydration bot",
		slog.String("timezone", cfg.App.Timezone),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, db, cfg.Database.Driver, log); err != nil {
		_ = db.Close()
		return err
	}

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("database", func(context.Context) error { return db.Close() })

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db.DB))

	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			_ = shutdown.Execute(context.Background())
			return err
		}
		rdb = redisClient.Client
		shutdown.Register("redis", func(context.Context) error { return redisClient.Close() })
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}

	texts, err := i18n.Load(cfg.App.Language)
	if err != nil {
		_ = shutdown.Execute(context.Background())
		return err
	}

	store := ledger.NewStore(db, loc, log)
	summaries := aggregator.New(store, loc, cfg.Reminders.DailyTargetML, time.Now)
	intakeService := intake.NewService(store, summaries, cfg.Intake.MaxServingML, time.Now, log)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	memoryLimiter := ratelimit.NewMemoryLimiter(log)
	limiter := ratelimit.New(rdb, memoryLimiter, log)
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter, ratelimit.NewRules(cfg.RateLimit), texts, log)

	// Filled in below: the scheduler's notifier needs the bot.
	reminders := &reminderService{}
	telegram, err := bot.New(cfg.Bot, log, bot.Dependencies{
		Intake:      intakeService,
		Reminders:   reminders,
		Texts:       texts,
		RateLimitMw: rateLimitMw,
		ErrHandler:  errHandler,
	})
	if err != nil {
		_ = shutdown.Execute(context.Background())
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(telegram.Telebot()))

	timer := reminder.NewCronTimer(loc, log)
	defaultTexts := texts.Default()
	scheduler := reminder.NewScheduler(
		store,
		summaries,
		bot.NewNotifier(telegram.Telebot(), errors.NewCircuitBreaker(), log),
		timer,
		reminder.NewRegistry(),
		reminder.Settings{
			Location:   loc,
			FirstDelay: cfg.Reminders.FirstDelay,
			Format: func(summary domain.DaySummary) string {
				return defaultTexts.Tf("reminder.notification", summary.Total, summary.Target)
			},
		},
		log,
	)
	reminders.Scheduler = scheduler
	checker.AddCheck("reminders", timer)

	timer.Start()
	if cfg.Reminders.RestoreOnStartup {
		if _, err := scheduler.Restore(ctx); err != nil {
			log.Error("failed to restore reminders", slog.Any("error", err))
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", health.Handler(checker))
	mux.Handle("/livez", health.LivenessHandler())
	mux.Handle("/metrics", promhttp.Handler())

	server := graceful.NewServer(log, &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           logger.Middleware(middleware.New(log)(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe(ctx)
	}()

	go ratelimit.NewCleaner(rdb, memoryLimiter, log, rateLimitCleanupInterval, rateLimitMaxAge).Run(ctx)

	go telegram.Start()
	log.Info("hydration bot started", slog.String("http_addr", cfg.Server.Port), slog.Int("active_reminders", scheduler.ActiveTimers()))

	shutdown.RegisterStage(lifecycle.StageIngress, "telegram", func(context.Context) error {
		telegram.Stop()
		return nil
	})
	shutdown.RegisterStage(lifecycle.StageIngress, "timer", func(context.Context) error {
		timer.Stop()
		return nil
	})
	shutdown.RegisterStage(lifecycle.StageDrain, "scheduler", scheduler.Shutdown)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-serverErr:
		if runErr != nil {
			log.Error("http server failed", slog.Any("error", runErr))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	return runErr
}

// reminderService forwards to the scheduler once it has been built.
type reminderService struct {
	*reminder.Scheduler
}
