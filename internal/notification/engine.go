// Package notification implements the multi-channel fan-out engine: operator
// email plus batched FCM push on lead creation, and operator-initiated
// custom broadcasts.
package notification

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"leadportal_backend/internal/email"
	"leadportal_backend/internal/events"
	"leadportal_backend/internal/push"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
)

// TokenReader resolves the registered push-delivery addresses.
type TokenReader interface {
	ListPushTokens(ctx context.Context) ([]string, error)
}

// Stats is the aggregate outcome of a push broadcast.
type Stats struct {
	TotalTokens int `json:"total_tokens"`
	Success     int `json:"success"`
	Failed      int `json:"failed"`
}

type Engine struct {
	mailer email.Sender
	push   push.Multicaster
	tokens TokenReader
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// NewEngine builds the fan-out engine. push may be nil when FCM is not
// configured; the push channel is then skipped.
func NewEngine(mailer email.Sender, pusher push.Multicaster, tokens TokenReader, cfg config.NotificationConfig, log *logger.Logger) *Engine {
	return &Engine{mailer: mailer, push: pusher, tokens: tokens, cfg: cfg, log: log}
}

// HandleLeadCreated is the LeadCreated subscriber. Email and push are
// independent failure domains; errors are logged, never returned upstream,
// so ingestion is unaffected by fan-out outcome.
func (e *Engine) HandleLeadCreated(ctx context.Context, event events.Event) error {
	lead, ok := event.(events.LeadCreated)
	if !ok {
		return nil
	}

	e.emailOperators(ctx, lead)
	e.pushNewLead(ctx, lead)
	return nil
}

func (e *Engine) emailOperators(ctx context.Context, lead events.LeadCreated) {
	operators := e.cfg.GetOperatorEmails()
	if len(operators) == 0 {
		return
	}

	summary := email.LeadSummary{
		Name:     lead.Name,
		Contact:  lead.Contact,
		City:     lead.City,
		Platform: lead.Platform,
	}
	if lead.Time != nil {
		summary.Time = lead.Time.Format("02 Jan 2006 15:04")
	}

	if err := e.mailer.SendNewLeadAlert(ctx, operators, summary); err != nil {
		e.log.Error("new lead email failed", "lead_id", lead.LeadID, "error", err)
		return
	}
	e.log.FanoutResult("email", len(operators), len(operators), 0)
}

func (e *Engine) pushNewLead(ctx context.Context, lead events.LeadCreated) {
	if e.push == nil {
		return
	}

	tokens, err := e.tokens.ListPushTokens(ctx)
	if err != nil {
		e.log.Error("push token resolution failed", "lead_id", lead.LeadID, "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	body := lead.Contact
	if lead.City != "" {
		body += " • " + lead.City
	}
	stats := e.dispatchBatches(ctx, tokens, push.Message{
		Title: "New Lead: " + lead.Name,
		Body:  body,
		Data: map[string]string{
			"lead_id": strconv.FormatInt(lead.LeadID, 10),
			"type":    "new_lead",
		},
	})
	e.log.FanoutResult("push", stats.TotalTokens, stats.Success, stats.Failed)
}

// Broadcast sends an operator-supplied title/body to every registered device
// and reports the aggregate outcome. Zero recipients is a client-visible 404.
// A per-broadcast timeout bounds the call so a hung transport cannot stall
// the request indefinitely.
func (e *Engine) Broadcast(ctx context.Context, title, body string) (Stats, error) {
	const op = "notification.Broadcast"

	if timeout := e.cfg.GetBroadcastTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tokens, err := e.tokens.ListPushTokens(ctx)
	if err != nil {
		return Stats{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	if len(tokens) == 0 {
		return Stats{}, apperr.NotFound("recipients")
	}
	if e.push == nil {
		return Stats{}, apperr.NotFound("recipients")
	}

	stats := e.dispatchBatches(ctx, tokens, push.Message{
		Title: title,
		Body:  body,
		Data:  map[string]string{"type": "custom"},
	})
	e.log.FanoutResult("push", stats.TotalTokens, stats.Success, stats.Failed)
	return stats, nil
}

// SendToTokens pushes one message to an explicit token set, batching as
// needed. Used by the visit reminder worker.
func (e *Engine) SendToTokens(ctx context.Context, tokens []string, msg push.Message) Stats {
	if e.push == nil || len(tokens) == 0 {
		return Stats{}
	}
	msg.Tokens = nil
	stats := e.dispatchBatches(ctx, tokens, msg)
	e.log.FanoutResult("push", stats.TotalTokens, stats.Success, stats.Failed)
	return stats
}

// dispatchBatches splits tokens into transport-limit batches and dispatches
// them concurrently. All batches run to completion; one batch's failure never
// prevents the others, and a failed batch counts all its tokens as failed.
func (e *Engine) dispatchBatches(ctx context.Context, tokens []string, msg push.Message) Stats {
	stats := Stats{TotalTokens: len(tokens)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(tokens); start += push.MulticastLimit {
		end := start + push.MulticastLimit
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		g.Go(func() error {
			batchMsg := msg
			batchMsg.Tokens = batch

			result, err := e.push.SendMulticast(gctx, batchMsg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.log.Error("push batch failed", "batch_size", len(batch), "error", err)
				stats.Failed += len(batch)
				return nil
			}
			stats.Success += result.SuccessCount
			stats.Failed += result.FailureCount
			return nil
		})
	}

	// Batch errors are absorbed above; Wait only joins the goroutines.
	_ = g.Wait()
	return stats
}
