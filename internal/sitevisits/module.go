// Package sitevisits wires site-visit record capture and image uploads.
package sitevisits

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"leadportal_backend/internal/adapters/storage"
	"leadportal_backend/internal/events"
	httpmodule "leadportal_backend/internal/http"
	"leadportal_backend/internal/sitevisits/handler"
	"leadportal_backend/internal/sitevisits/repository"
	"leadportal_backend/internal/sitevisits/service"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, store storage.StorageService, bus events.Bus, cfg config.MinIOConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, bus, cfg, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "sitevisits" }

func (m *Module) RegisterRoutes(ctx *httpmodule.RouterContext) {
	ctx.Protected.POST("/site-visits", m.handler.CreateVisit)
	ctx.Protected.GET("/site-visits/mine", m.handler.ListMine)
	ctx.Protected.POST("/uploads", m.handler.Upload)

	ctx.Admin.GET("/site-visits", m.handler.ListAll)
}
