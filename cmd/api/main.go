package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/internal/booking"
	"staykedarnath_backend/internal/events"
	apphttp "staykedarnath_backend/internal/http"
	"staykedarnath_backend/internal/http/router"
	"staykedarnath_backend/internal/inventory"
	"staykedarnath_backend/internal/leads"
	"staykedarnath_backend/internal/notification"
	"staykedarnath_backend/internal/scheduler"
	"staykedarnath_backend/internal/search"
	"staykedarnath_backend/internal/testimonials"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/config"
	"staykedarnath_backend/platform/db"
	"staykedarnath_backend/platform/logger"
	"staykedarnath_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	resultCache, closeCache := initCache(cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(cfg, reminderScheduler, log)
	notificationModule.RegisterHandlers(eventBus)

	inventoryModule := inventory.NewModule(pool, resultCache, eventBus, val, log)
	bookingModule := booking.NewModule(pool, resultCache, eventBus, val, log)
	searchModule := search.NewModule(pool, resultCache, val, log)
	searchModule.RegisterHandlers(eventBus)
	leadsModule := leads.NewModule(pool, eventBus, val, log)
	testimonialsModule := testimonials.NewModule(pool, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			inventoryModule,
			bookingModule,
			searchModule,
			leadsModule,
			testimonialsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCache picks the redis-backed cache when configured, otherwise the
// process-local one. Single-instance deployments do not need redis.
func initCache(cfg config.CacheConfig, log *logger.Logger) (cache.Cache, func()) {
	if cfg.IsRedisCacheEnabled() {
		redisCache, err := cache.NewRedis(cfg.GetRedisURL(), cfg.GetCacheTTL(), log)
		if err == nil {
			log.Info("redis cache initialized", "ttl", cfg.GetCacheTTL())
			return redisCache, func() { _ = redisCache.Close() }
		}
		log.Error("failed to initialize redis cache, falling back to memory", "error", err)
	}
	log.Info("in-memory cache initialized", "ttl", cfg.GetCacheTTL())
	return cache.NewMemory(cfg.GetCacheTTL(), nil), nil
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; check-in reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
