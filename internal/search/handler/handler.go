// Package handler exposes the public search HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staykedarnath_backend/internal/search/service"
	"staykedarnath_backend/internal/search/transport"
	"staykedarnath_backend/platform/httpkit"
	"staykedarnath_backend/platform/validator"
)

// Handler handles HTTP requests for search.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new search handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SearchRooms finds rooms available for a stay.
// GET /api/v1/search/rooms
func (h *Handler) SearchRooms(c *gin.Context) {
	var req transport.SearchRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SearchRooms(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SearchProperties finds properties with matching rooms.
// GET /api/v1/search/properties
func (h *Handler) SearchProperties(c *gin.Context) {
	var req transport.SearchPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SearchProperties(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
