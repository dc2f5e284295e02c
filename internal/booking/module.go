// Package booking provides the reservation bounded context module.
package booking

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/internal/booking/handler"
	"staykedarnath_backend/internal/booking/repository"
	"staykedarnath_backend/internal/booking/service"
	"staykedarnath_backend/internal/events"
	apphttp "staykedarnath_backend/internal/http"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
	"staykedarnath_backend/platform/validator"
)

// Module is the booking bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the booking module.
func NewModule(pool *pgxpool.Pool, c cache.Cache, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, c, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "booking"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts booking routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Customer endpoints (authenticated)
	ctx.Protected.POST("/bookings", m.handler.CreateBooking)
	ctx.Protected.GET("/bookings", m.handler.ListMyBookings)
	ctx.Protected.GET("/bookings/:id", m.handler.GetBooking)
	ctx.Protected.POST("/bookings/:id/cancel", m.handler.CancelBooking)

	// Admin endpoints
	ctx.Admin.PUT("/bookings/:id/status", m.handler.UpdateBookingStatus)
	ctx.Admin.DELETE("/bookings/:id", m.handler.DeleteBooking)
	ctx.Admin.GET("/settlements", m.handler.ListSettlements)
	ctx.Admin.POST("/settlements/:id/settle", m.handler.MarkSettlementSettled)
}
