// Package email provides the outbound mail capability.
package email

import (
	"context"
	"fmt"

	"leadportal_backend/platform/config"
)

// LeadSummary carries the fields rendered into the new-lead operator alert.
type LeadSummary struct {
	Name     string
	Contact  string
	City     string
	Platform string
	Time     string
}

// Sender is the outbound mail interface consumed by the notification engine.
type Sender interface {
	// SendNewLeadAlert mails a lead summary to the given operator addresses.
	SendNewLeadAlert(ctx context.Context, to []string, lead LeadSummary) error
}

// NewSender constructs the configured Sender implementation.
// When email is disabled, a no-op sender is returned so callers never branch.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return noopSender{}, nil
	}

	if cfg.GetSMTPHost() == "" || cfg.GetEmailFromAddress() == "" {
		return nil, fmt.Errorf("email enabled but SMTP_HOST or EMAIL_FROM_ADDRESS missing")
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

type noopSender struct{}

func (noopSender) SendNewLeadAlert(context.Context, []string, LeadSummary) error { return nil }
