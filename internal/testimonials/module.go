// Package testimonials provides the guest review bounded context module.
package testimonials

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/internal/events"
	apphttp "staykedarnath_backend/internal/http"
	"staykedarnath_backend/internal/testimonials/handler"
	"staykedarnath_backend/internal/testimonials/repository"
	"staykedarnath_backend/internal/testimonials/service"
	"staykedarnath_backend/platform/logger"
	"staykedarnath_backend/platform/validator"
)

// Module is the testimonials bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the testimonials module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "testimonials"
}

// RegisterRoutes mounts testimonial routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/testimonials", m.handler.Submit)
	ctx.V1.GET("/testimonials", m.handler.ListApproved)

	ctx.Admin.GET("/testimonials", m.handler.ListAll)
	ctx.Admin.POST("/testimonials/:id/approve", m.handler.Approve)
	ctx.Admin.DELETE("/testimonials/:id", m.handler.Delete)
}
