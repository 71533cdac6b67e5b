package notification

import (
	"leadportal_backend/internal/email"
	"leadportal_backend/internal/events"
	"leadportal_backend/internal/push"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
)

type Module struct {
	engine *Engine
}

// NewModule wires the fan-out engine and subscribes it to lead creation.
func NewModule(bus events.Bus, mailer email.Sender, pusher push.Multicaster, tokens TokenReader, cfg config.NotificationConfig, log *logger.Logger) *Module {
	engine := NewEngine(mailer, pusher, tokens, cfg, log)
	bus.Subscribe(events.EventLeadCreated, events.HandlerFunc(engine.HandleLeadCreated))
	return &Module{engine: engine}
}

func (m *Module) Name() string { return "notification" }

// Engine exposes the fan-out engine for the reminder worker.
func (m *Module) Engine() *Engine { return m.engine }
