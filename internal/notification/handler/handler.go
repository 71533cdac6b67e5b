// Package handler exposes the custom broadcast endpoint.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadportal_backend/internal/notification"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/httpkit"
)

type Handler struct {
	engine *notification.Engine
}

func New(engine *notification.Engine) *Handler {
	return &Handler{engine: engine}
}

type broadcastRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// Broadcast pushes a custom title/body to every registered device and waits
// for all batches to settle before responding with the aggregate counts.
func (h *Handler) Broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("title and body are required"))
		return
	}

	stats, err := h.engine.Broadcast(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "notification dispatched",
		"stats":   stats,
	})
}
