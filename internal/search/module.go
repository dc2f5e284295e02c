// Package search provides the availability search bounded context module.
package search

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/internal/events"
	apphttp "staykedarnath_backend/internal/http"
	"staykedarnath_backend/internal/search/handler"
	"staykedarnath_backend/internal/search/repository"
	"staykedarnath_backend/internal/search/service"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
	"staykedarnath_backend/platform/validator"
)

// Module is the search bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	cache   cache.Cache
	log     *logger.Logger
}

// NewModule creates and initializes the search module.
func NewModule(pool *pgxpool.Pool, c cache.Cache, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, repo, c, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		cache:   c,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "search"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public search routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/search/rooms", m.handler.SearchRooms)
	ctx.V1.GET("/search/properties", m.handler.SearchProperties)
}

// RegisterHandlers subscribes to the mutations that invalidate cached search
// results. Any inventory or booking change blows away the whole search
// namespace; entries are cheap to recompute.
func (m *Module) RegisterHandlers(bus events.Bus) {
	invalidate := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		m.cache.DeletePrefix(ctx, cache.PrefixSearch)
		m.log.CacheEvent("invalidate_prefix", cache.PrefixSearch)
		return nil
	})

	bus.Subscribe(events.BookingCreated{}.EventName(), invalidate)
	bus.Subscribe(events.BookingStatusChanged{}.EventName(), invalidate)
	bus.Subscribe(events.RoomChanged{}.EventName(), invalidate)
	bus.Subscribe(events.PropertyChanged{}.EventName(), invalidate)
}
