package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	authrepo "leadportal_backend/internal/auth/repository"
	leadsrepo "leadportal_backend/internal/leads/repository"
	"leadportal_backend/internal/notification"
	"leadportal_backend/internal/push"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
)

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	leadRepo *leadsrepo.Repository
	userRepo *authrepo.Repository
	engine   *notification.Engine
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, engine *notification.Engine, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		leadRepo: leadsrepo.New(pool),
		userRepo: authrepo.New(pool),
		engine:   engine,
		log:      log,
	}

	mux.HandleFunc(TaskVisitReminder, w.handleVisitReminder)

	return w, nil
}

// handleVisitReminder pushes a reminder to the lead's assignees plus admins
// and records that the reminder went out. Leads whose schedule was cleared or
// already reminded between enqueue and execution are skipped.
func (w *Worker) handleVisitReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseVisitReminderPayload(task)
	if err != nil {
		return err
	}

	lead, err := w.leadRepo.GetReminderLead(ctx, payload.LeadID)
	if err != nil {
		if err == leadsrepo.ErrNotFound {
			return nil
		}
		return err
	}
	if lead.VisitSchedule == nil || lead.ReminderSent {
		return nil
	}

	tokens, err := w.userRepo.ListPushTokensForUsers(ctx, lead.Access)
	if err != nil {
		return err
	}

	if len(tokens) > 0 {
		stats := w.engine.SendToTokens(ctx, tokens, push.Message{
			Title: "Visit due: " + lead.Name,
			Body:  "Scheduled for " + lead.VisitSchedule.Format("02 Jan 2006 03:04 PM"),
			Data: map[string]string{
				"lead_id": fmt.Sprintf("%d", lead.ID),
				"type":    "visit_reminder",
			},
		})
		w.log.Info("visit reminder dispatched", "lead_id", lead.ID, "success", stats.Success, "failed", stats.Failed)
	}

	return w.leadRepo.MarkReminderSent(ctx, lead.ID)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
