package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"leadportal_backend/internal/email"
	"leadportal_backend/internal/events"
	"leadportal_backend/internal/push"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/logger"
)

type fakeMulticaster struct {
	mu      sync.Mutex
	calls   []push.Message
	failOn  int // 1-based call index that errors; 0 = never
}

func (f *fakeMulticaster) SendMulticast(_ context.Context, msg push.Message) (push.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msg)
	if f.failOn != 0 && len(f.calls) == f.failOn {
		return push.BatchResult{}, errors.New("transport down")
	}
	return push.BatchResult{SuccessCount: len(msg.Tokens)}, nil
}

func (f *fakeMulticaster) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeTokenReader struct {
	tokens []string
	err    error
}

func (f *fakeTokenReader) ListPushTokens(context.Context) ([]string, error) {
	return f.tokens, f.err
}

type fakeMailer struct {
	mu    sync.Mutex
	sends int
	err   error
}

func (f *fakeMailer) SendNewLeadAlert(context.Context, []string, email.LeadSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends++
	return f.err
}

type fakeNotificationConfig struct{}

func (fakeNotificationConfig) GetOperatorEmails() []string        { return []string{"ops@example.com"} }
func (fakeNotificationConfig) GetBroadcastTimeout() time.Duration { return 5 * time.Second }

func manyTokens(n int) []string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("device-%d", i)
	}
	return tokens
}

func newTestEngine(pusher push.Multicaster, tokens TokenReader, mailer email.Sender) *Engine {
	return NewEngine(mailer, pusher, tokens, fakeNotificationConfig{}, logger.New("test"))
}

func TestBroadcastSplitsIntoTransportLimitBatches(t *testing.T) {
	pusher := &fakeMulticaster{}
	engine := newTestEngine(pusher, &fakeTokenReader{tokens: manyTokens(1200)}, &fakeMailer{})

	stats, err := engine.Broadcast(context.Background(), "hello", "world")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if pusher.callCount() != 3 {
		t.Fatalf("batches = %d, want 3 for 1200 tokens", pusher.callCount())
	}
	if stats.TotalTokens != 1200 || stats.Success != 1200 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	for _, call := range pusher.calls {
		if len(call.Tokens) > push.MulticastLimit {
			t.Fatalf("batch of %d exceeds the transport limit", len(call.Tokens))
		}
	}
}

func TestBroadcastZeroRecipientsIsNotFound(t *testing.T) {
	engine := newTestEngine(&fakeMulticaster{}, &fakeTokenReader{}, &fakeMailer{})

	_, err := engine.Broadcast(context.Background(), "hello", "world")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBroadcastFailedBatchDoesNotAbortSiblings(t *testing.T) {
	pusher := &fakeMulticaster{failOn: 1}
	engine := newTestEngine(pusher, &fakeTokenReader{tokens: manyTokens(1100)}, &fakeMailer{})

	stats, err := engine.Broadcast(context.Background(), "hello", "world")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if pusher.callCount() != 3 {
		t.Fatalf("batches = %d, want 3", pusher.callCount())
	}
	if stats.Success+stats.Failed != 1100 {
		t.Fatalf("stats do not cover all tokens: %+v", stats)
	}
	if stats.Failed == 0 {
		t.Fatal("the failed batch must be counted")
	}
}

func TestHandleLeadCreatedNeverReturnsTransportErrors(t *testing.T) {
	pusher := &fakeMulticaster{failOn: 1}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	engine := newTestEngine(pusher, &fakeTokenReader{tokens: manyTokens(3)}, mailer)

	err := engine.HandleLeadCreated(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    42,
		Name:      "Ravi",
		Contact:   "+919876543210",
	})
	if err != nil {
		t.Fatalf("fan-out failure must not propagate: %v", err)
	}
	if mailer.sends != 1 {
		t.Fatalf("mailer sends = %d, want 1", mailer.sends)
	}
	if pusher.callCount() != 1 {
		t.Fatalf("push calls = %d, want 1", pusher.callCount())
	}
}

func TestHandleLeadCreatedSkipsPushWithoutTokens(t *testing.T) {
	pusher := &fakeMulticaster{}
	engine := newTestEngine(pusher, &fakeTokenReader{}, &fakeMailer{})

	if err := engine.HandleLeadCreated(context.Background(), events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: 1}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if pusher.callCount() != 0 {
		t.Fatal("no tokens registered, push must be skipped")
	}
}

func TestHandleLeadCreatedCarriesCorrelationData(t *testing.T) {
	pusher := &fakeMulticaster{}
	engine := newTestEngine(pusher, &fakeTokenReader{tokens: manyTokens(2)}, &fakeMailer{})

	if err := engine.HandleLeadCreated(context.Background(), events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: 42, Name: "Ravi"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if pusher.callCount() != 1 {
		t.Fatalf("push calls = %d, want 1", pusher.callCount())
	}
	data := pusher.calls[0].Data
	if data["lead_id"] != "42" || data["type"] != "new_lead" {
		t.Fatalf("correlation data = %v", data)
	}
}
