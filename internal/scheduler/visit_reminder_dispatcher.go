package scheduler

import (
	"context"
	"time"

	leadsrepo "leadportal_backend/internal/leads/repository"
	"leadportal_backend/platform/logger"
)

const (
	dispatchInterval = time.Minute
	dispatchBatch    = 50
)

// VisitReminderDispatcher polls for leads whose scheduled visit is due and
// feeds them into the reminder queue.
type VisitReminderDispatcher struct {
	client *Client
	repo   *leadsrepo.Repository
	log    *logger.Logger
}

func NewVisitReminderDispatcher(client *Client, repo *leadsrepo.Repository, log *logger.Logger) *VisitReminderDispatcher {
	return &VisitReminderDispatcher{client: client, repo: repo, log: log}
}

func (d *VisitReminderDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.repo == nil {
		return
	}

	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		leads, err := d.repo.ListDueReminders(ctx, dispatchBatch)
		if err != nil {
			d.log.Warn("due reminder poll failed", "error", err)
			continue
		}

		for _, lead := range leads {
			if err := d.client.EnqueueVisitReminder(ctx, lead.ID); err != nil {
				d.log.Warn("reminder enqueue failed", "lead_id", lead.ID, "error", err)
			}
		}
	}
}
