// Package handler exposes booking HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staykedarnath_backend/internal/booking/service"
	"staykedarnath_backend/internal/booking/transport"
	"staykedarnath_backend/platform/httpkit"
	"staykedarnath_backend/platform/validator"
)

// Handler handles HTTP requests for bookings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// New creates a new booking handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateBooking creates a booking for the authenticated customer.
// POST /api/v1/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateBooking(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// ListMyBookings lists the authenticated customer's bookings.
// GET /api/v1/bookings
func (h *Handler) ListMyBookings(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	result, err := h.svc.ListBookingsByCustomer(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetBooking retrieves one booking. Customers may only see their own;
// admins may see any.
// GET /api/v1/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetBookingByID(c.Request.Context(), bookingID)
	if httpkit.HandleError(c, err) {
		return
	}
	if result.CustomerID != ident.UserID() && !ident.HasRole("admin") {
		httpkit.Error(c, http.StatusForbidden, "booking belongs to another customer", nil)
		return
	}
	httpkit.OK(c, result)
}

// CancelBooking cancels the authenticated customer's booking.
// POST /api/v1/bookings/:id/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.CancelBooking(c.Request.Context(), ident.UserID(), bookingID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateBookingStatus transitions a booking's status (admin).
// PUT /api/v1/admin/bookings/:id/status
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateBookingStatus(c.Request.Context(), bookingID, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteBooking removes a booking record (admin).
// DELETE /api/v1/admin/bookings/:id
func (h *Handler) DeleteBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteBooking(c.Request.Context(), bookingID)) {
		return
	}
	httpkit.NoContent(c)
}

// ListSettlements lists property payouts (admin).
// GET /api/v1/admin/settlements
func (h *Handler) ListSettlements(c *gin.Context) {
	var req transport.ListSettlementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListSettlements(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MarkSettlementSettled marks a settlement as paid (admin).
// POST /api/v1/admin/settlements/:id/settle
func (h *Handler) MarkSettlementSettled(c *gin.Context) {
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.MarkSettlementSettled(c.Request.Context(), settlementID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
