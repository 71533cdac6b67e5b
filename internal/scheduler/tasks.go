package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskVisitReminder = "leads.visit_reminder"

type VisitReminderPayload struct {
	LeadID int64 `json:"leadId"`
}

func NewVisitReminderTask(payload VisitReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVisitReminder, data), nil
}

func ParseVisitReminderPayload(task *asynq.Task) (VisitReminderPayload, error) {
	var payload VisitReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return VisitReminderPayload{}, err
	}
	return payload, nil
}
