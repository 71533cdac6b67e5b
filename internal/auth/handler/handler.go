// Package handler exposes the auth HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadportal_backend/internal/auth/service"
	"leadportal_backend/internal/auth/transport"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("phone and password are required"))
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusOK, transport.LoginResponse{Token: token, User: user})
}

func (h *Handler) VerifyToken(c *gin.Context) {
	var req transport.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("token is required"))
		return
	}

	httpkit.JSON(c, http.StatusOK, transport.VerifyTokenResponse{Valid: h.svc.VerifyToken(req.Token)})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req.Name, req.Email, req.Phone, req.Role, req.Password)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusOK, users)
}

func (h *Handler) UpdateFCMToken(c *gin.Context) {
	identity := httpkit.GetIdentity(c)
	if !identity.IsAuthenticated() {
		httpkit.HandleError(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req transport.UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("fcm_token is required"))
		return
	}

	if err := h.svc.RegisterFCMToken(c.Request.Context(), identity.UserID(), req.FCMToken); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"message": "token registered"})
}
