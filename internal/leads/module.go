// Package leads provides the enquiry bounded context module.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/internal/events"
	apphttp "staykedarnath_backend/internal/http"
	"staykedarnath_backend/internal/leads/handler"
	"staykedarnath_backend/internal/leads/repository"
	"staykedarnath_backend/internal/leads/service"
	"staykedarnath_backend/platform/logger"
	"staykedarnath_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public enquiry intake
	ctx.V1.POST("/leads", m.handler.CreateLead)

	// Admin triage
	ctx.Admin.GET("/leads", m.handler.ListLeads)
	ctx.Admin.GET("/leads/:id", m.handler.GetLead)
	ctx.Admin.PUT("/leads/:id/status", m.handler.UpdateLeadStatus)
	ctx.Admin.DELETE("/leads/:id", m.handler.DeleteLead)
}
