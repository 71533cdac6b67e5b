package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// ReminderLead is the projection the visit reminder pipeline works with.
type ReminderLead struct {
	ID            int64
	Name          string
	Contact       string
	VisitSchedule *time.Time
	Access        []int64
	ReminderSent  bool
}

const dueRemindersQuery = `
	SELECT id, name, contact, visit_schedule, access
	FROM meta_leads
	WHERE visit_schedule IS NOT NULL
	  AND visit_schedule::date <= CURRENT_DATE
	  AND visit_reminder_sent_at IS NULL
	ORDER BY visit_schedule ASC
	LIMIT $1
`

// ListDueReminders returns leads whose visit is due (date part on or before
// today) and which have not been reminded yet.
func (r *Repository) ListDueReminders(ctx context.Context, limit int) ([]ReminderLead, error) {
	rows, err := r.pool.Query(ctx, dueRemindersQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]ReminderLead, 0)
	for rows.Next() {
		var lead ReminderLead
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Contact, &lead.VisitSchedule, &lead.Access); err != nil {
			return nil, err
		}
		if lead.Access == nil {
			lead.Access = make([]int64, 0)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// GetReminderLead loads the reminder projection for one lead.
func (r *Repository) GetReminderLead(ctx context.Context, leadID int64) (ReminderLead, error) {
	var lead ReminderLead
	var sentAt *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, contact, visit_schedule, access, visit_reminder_sent_at
		FROM meta_leads WHERE id = $1
	`, leadID).Scan(&lead.ID, &lead.Name, &lead.Contact, &lead.VisitSchedule, &lead.Access, &sentAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReminderLead{}, ErrNotFound
		}
		return ReminderLead{}, err
	}
	if lead.Access == nil {
		lead.Access = make([]int64, 0)
	}
	lead.ReminderSent = sentAt != nil
	return lead, nil
}

// MarkReminderSent records that the visit reminder for a lead went out.
func (r *Repository) MarkReminderSent(ctx context.Context, leadID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE meta_leads SET visit_reminder_sent_at = now(), updated_at = now()
		WHERE id = $1
	`, leadID)
	return err
}
