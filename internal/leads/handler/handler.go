// Package handler exposes the lead HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadportal_backend/internal/leads/service"
	"leadportal_backend/internal/leads/transport"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateLead is the public webhook intake endpoint.
func (h *Handler) CreateLead(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("invalid request body"))
		return
	}

	input := service.CreateLeadInput{
		Name:     req.Name,
		Contact:  req.Contact,
		City:     req.City,
		Platform: req.Platform,
	}
	if req.Time != nil {
		parsed, err := transport.ParseTimestamp(*req.Time)
		if err != nil {
			httpkit.HandleError(c, apperr.Validation("unrecognized time format"))
			return
		}
		input.Time = parsed
	}

	lead, err := h.svc.CreateLead(c.Request.Context(), input)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, gin.H{
		"message": "lead created successfully",
		"data":    lead,
	})
}

func (h *Handler) ListLeads(c *gin.Context) {
	leads, err := h.svc.ListLeads(c.Request.Context(), actorFrom(c))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) GetLead(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}

	detail, err := h.svc.GetLead(c.Request.Context(), actorFrom(c), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, detail)
}

func (h *Handler) UpdateLead(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("invalid request body"))
		return
	}

	patch := service.TransitionPatch{
		Response:   req.Response,
		NewComment: req.NewComment,
		City:       req.City,
	}

	if req.VisitSchedule != nil {
		parsed, err := transport.ParseTimestamp(*req.VisitSchedule)
		if err != nil {
			httpkit.HandleError(c, apperr.Validation("unrecognized visit_schedule format"))
			return
		}
		patch.VisitSchedule = parsed
	}

	access, supplied, err := transport.ParseAccess(req.Access)
	if err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}
	patch.Access = access
	patch.AccessSupplied = supplied

	// Comment author: explicit body field, else the caller's display name.
	if req.User != nil && *req.User != "" {
		patch.Author = *req.User
	} else {
		patch.Author = httpkit.GetIdentity(c).Name()
	}

	result, err := h.svc.ApplyTransition(c.Request.Context(), leadID, patch)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CountNew(c *gin.Context) {
	counts, err := h.svc.CountNew(c.Request.Context(), actorFrom(c))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, counts)
}

func actorFrom(c *gin.Context) service.Actor {
	identity := httpkit.GetIdentity(c)
	return service.Actor{
		ID:      identity.UserID(),
		Name:    identity.Name(),
		IsAdmin: identity.IsAdmin(),
	}
}

func leadIDParam(c *gin.Context) (int64, bool) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("lead id must be numeric"))
		return 0, false
	}
	return leadID, true
}
