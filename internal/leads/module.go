// Package leads wires the lead lifecycle module: webhook intake, scoped
// listing, transitions, and the new-lead counters.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"leadportal_backend/internal/events"
	httpmodule "leadportal_backend/internal/http"
	"leadportal_backend/internal/leads/handler"
	"leadportal_backend/internal/leads/repository"
	"leadportal_backend/internal/leads/service"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
)

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg config.LicenseConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, cfg, log)
	return &Module{
		handler: handler.New(svc),
		repo:    repo,
	}
}

func (m *Module) Name() string { return "leads" }

// Repository exposes the lead store for the visit reminder pipeline.
func (m *Module) Repository() *repository.Repository { return m.repo }

func (m *Module) RegisterRoutes(ctx *httpmodule.RouterContext) {
	// Webhook intake is unauthenticated; the ad platform cannot hold a token.
	ctx.V1.POST("/meta-leads", m.handler.CreateLead)

	ctx.Protected.GET("/leads", m.handler.ListLeads)
	ctx.Protected.GET("/leads/count/new", m.handler.CountNew)
	ctx.Protected.GET("/leads/:id", m.handler.GetLead)
	ctx.Protected.PATCH("/leads/:id", m.handler.UpdateLead)
}
