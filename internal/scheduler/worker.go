package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/internal/booking/repository"
	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/platform/config"
	"staykedarnath_backend/platform/logger"
)

// Worker consumes scheduled tasks and turns them back into domain events.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

// NewWorker creates an asynq worker bound to the booking store.
func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskCheckinReminder, w.handleCheckinReminder)

	return w, nil
}

// Run processes tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleCheckinReminder fires a reminder event for a booking that is still
// going ahead. Cancelled or already checked-in bookings are skipped silently.
func (w *Worker) handleCheckinReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCheckinReminderPayload(task)
	if err != nil {
		return err
	}

	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return err
	}

	booking, err := w.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status != repository.StatusPending && booking.Status != repository.StatusConfirmed {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	return w.bus.PublishSync(ctx, events.CheckinReminderDue{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  booking.ID,
		GuestName:  booking.GuestName,
		GuestEmail: booking.GuestEmail,
		CheckIn:    booking.CheckIn,
	})
}
