// Package inventory provides the property/room bounded context module.
package inventory

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/internal/events"
	apphttp "staykedarnath_backend/internal/http"
	"staykedarnath_backend/internal/inventory/handler"
	"staykedarnath_backend/internal/inventory/repository"
	"staykedarnath_backend/internal/inventory/service"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
	"staykedarnath_backend/platform/validator"
)

// Module is the inventory bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the inventory module.
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
	return "inventory"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts inventory routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read-only endpoints
	ctx.V1.GET("/properties", m.handler.ListProperties)
	ctx.V1.GET("/properties/:id", m.handler.GetProperty)
	ctx.V1.GET("/properties/:id/rooms", m.handler.ListRooms)

	// Admin CRUD endpoints
	ctx.Admin.POST("/properties", m.handler.CreateProperty)
	ctx.Admin.PUT("/properties/:id", m.handler.UpdateProperty)
	ctx.Admin.DELETE("/properties/:id", m.handler.DeleteProperty)
	ctx.Admin.POST("/properties/:id/rooms", m.handler.CreateRoom)
	ctx.Admin.PUT("/rooms/:id", m.handler.UpdateRoom)
	ctx.Admin.DELETE("/rooms/:id", m.handler.DeleteRoom)
}
