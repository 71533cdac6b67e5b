package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"leadportal_backend/internal/adapters/storage"
	"leadportal_backend/internal/auth"
	"leadportal_backend/internal/email"
	"leadportal_backend/internal/events"
	apphttp "leadportal_backend/internal/http"
	"leadportal_backend/internal/http/router"
	"leadportal_backend/internal/leads"
	"leadportal_backend/internal/notification"
	"leadportal_backend/internal/push"
	"leadportal_backend/internal/scheduler"
	"leadportal_backend/internal/sitevisits"
	"leadportal_backend/migrations"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/db"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Storage service for site-visit image uploads (MinIO)
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure site-visit image bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketSiteVisitImages())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "siteVisitImagesBucket", cfg.GetMinioBucketSiteVisitImages())

	// FCM multicast transport; push fan-out is skipped when not configured
	var pusher push.Multicaster
	if cfg.IsFCMEnabled() {
		fcmClient, err := push.NewFCMClient(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize FCM client", "error", err)
			panic("failed to initialize FCM client: " + err.Error())
		}
		pusher = fcmClient
		log.Info("FCM client initialized")
	} else {
		log.Warn("FCM credentials not configured; push notifications disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, log)
	notificationModule := notification.NewModule(eventBus, sender, pusher, authModule.Repository(), cfg, log)
	leadsModule := leads.NewModule(pool, eventBus, cfg, log)
	sitevisitsModule := sitevisits.NewModule(pool, storageSvc, eventBus, cfg, val, log)

	// The reminder dispatcher feeds due visits into the worker's queue.
	// Without Redis the API runs fine; reminders just stay off.
	if cfg.GetRedisURL() != "" {
		reminderClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize reminder scheduler client", "error", err)
		} else {
			defer reminderClient.Close()
			dispatcher := scheduler.NewVisitReminderDispatcher(reminderClient, leadsModule.Repository(), log)
			go dispatcher.Run(ctx)
			log.Info("visit reminder dispatcher started")
		}
	} else {
		log.Warn("REDIS_URL not configured; visit reminders disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			sitevisitsModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
