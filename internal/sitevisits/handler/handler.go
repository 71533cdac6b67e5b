// Package handler exposes the site-visit HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadportal_backend/internal/sitevisits/service"
	"leadportal_backend/internal/sitevisits/transport"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/httpkit"
	"leadportal_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) CreateVisit(c *gin.Context) {
	identity := httpkit.GetIdentity(c)

	var req transport.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("invalid request body"))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	visit, err := h.svc.CreateVisit(c.Request.Context(), identity.UserID(), service.CreateVisitInput{
		OwnerName:         req.OwnerName,
		OwnerContact:      req.OwnerContact,
		BuiltUpArea:       req.BuiltUpArea,
		Floors:            req.Floors,
		EngineerName:      req.EngineerName,
		EngineerContact:   req.EngineerContact,
		ContractorName:    req.ContractorName,
		ContractorContact: req.ContractorContact,
		Comments:          req.Comments,
		Lat:               req.Lat,
		Lng:               req.Lng,
		Response:          req.Response,
		LocationImages:    req.LocationImages,
		Selfie:            req.Selfie,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, visit)
}

func (h *Handler) ListMine(c *gin.Context) {
	visits, err := h.svc.ListMine(c.Request.Context(), httpkit.GetIdentity(c).UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, visits)
}

func (h *Handler) ListAll(c *gin.Context) {
	visits, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, visits)
}

func (h *Handler) Upload(c *gin.Context) {
	var req transport.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("invalid request body"))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation("image is required"))
		return
	}

	url, err := h.svc.UploadImage(c.Request.Context(), req.Image)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, url)
}
