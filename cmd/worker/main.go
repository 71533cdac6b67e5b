package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"leadportal_backend/internal/email"
	"leadportal_backend/internal/notification"
	"leadportal_backend/internal/push"
	"leadportal_backend/internal/scheduler"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/db"
	"leadportal_backend/platform/logger"
)

// The worker consumes visit reminder tasks. It shares the database and the
// notification engine with the API process but serves no HTTP traffic.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	var pusher push.Multicaster
	if cfg.IsFCMEnabled() {
		fcmClient, err := push.NewFCMClient(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize FCM client", "error", err)
			panic("failed to initialize FCM client: " + err.Error())
		}
		pusher = fcmClient
	} else {
		log.Warn("FCM credentials not configured; reminder pushes disabled")
	}

	engine := notification.NewEngine(sender, pusher, nil, cfg, log)

	worker, err := scheduler.NewWorker(cfg, pool, engine, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("scheduler worker running")
	worker.Run(ctx)
	log.Info("worker stopped")
}
