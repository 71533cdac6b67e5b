// Package auth wires identity verification and user administration.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"leadportal_backend/internal/auth/handler"
	"leadportal_backend/internal/auth/repository"
	"leadportal_backend/internal/auth/service"
	httpmodule "leadportal_backend/internal/http"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
)

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	return &Module{
		handler: handler.New(svc),
		repo:    repo,
	}
}

func (m *Module) Name() string { return "auth" }

// Repository exposes the user store for modules that need account lookups
// (notification fan-out, lead rosters).
func (m *Module) Repository() *repository.Repository { return m.repo }

func (m *Module) RegisterRoutes(ctx *httpmodule.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.POST("/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)
	authGroup.POST("/verify-token", m.handler.VerifyToken)

	ctx.Protected.PATCH("/users/fcm-token", m.handler.UpdateFCMToken)

	ctx.Admin.GET("/users", m.handler.ListUsers)
	ctx.Admin.POST("/users", m.handler.CreateUser)
}
