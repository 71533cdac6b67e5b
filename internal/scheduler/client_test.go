package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type fakeSchedulerConfig struct {
	url string
}

func (f fakeSchedulerConfig) GetRedisURL() string       { return f.url }
func (f fakeSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (f fakeSchedulerConfig) GetAsynqQueueName() string { return "reminders" }
func (f fakeSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(fakeSchedulerConfig{}); err == nil {
		t.Fatal("expected an error without a redis url")
	}
}

func TestNewClientRejectsMalformedURL(t *testing.T) {
	if _, err := NewClient(fakeSchedulerConfig{url: "not-a-url"}); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestEnqueueVisitReminderDeduplicatesPerLead(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(fakeSchedulerConfig{url: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.EnqueueVisitReminder(ctx, 7); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	// Re-polling the same pending lead must not duplicate the task.
	if err := client.EnqueueVisitReminder(ctx, 7); err != nil {
		t.Fatalf("second enqueue: %v", err)
	}
	if err := client.EnqueueVisitReminder(ctx, 8); err != nil {
		t.Fatalf("distinct lead enqueue: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("reminders")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("pending tasks = %d, want 2", len(tasks))
	}
}
