// Package handler exposes testimonial HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staykedarnath_backend/internal/testimonials/service"
	"staykedarnath_backend/internal/testimonials/transport"
	"staykedarnath_backend/platform/httpkit"
	"staykedarnath_backend/platform/validator"
)

// Handler handles HTTP requests for testimonials.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// New creates a new testimonials handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit accepts a public testimonial submission.
// POST /api/v1/testimonials
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// ListApproved lists publicly visible testimonials.
// GET /api/v1/testimonials
func (h *Handler) ListApproved(c *gin.Context) {
	result, err := h.svc.ListApproved(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListAll lists every testimonial for moderation (admin).
// GET /api/v1/admin/testimonials
func (h *Handler) ListAll(c *gin.Context) {
	result, err := h.svc.ListAll(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Approve makes a testimonial visible (admin).
// POST /api/v1/admin/testimonials/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Approve(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a testimonial (admin).
// DELETE /api/v1/admin/testimonials/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}
