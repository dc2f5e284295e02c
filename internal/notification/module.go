// Package notification turns domain events into outbound email and schedules
// check-in reminders. Domain modules publish events and stay ignorant of mail
// providers and reminder timing.
package notification

import (
	"context"
	"fmt"
	"time"

	"staykedarnath_backend/internal/email"
	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/internal/scheduler"
	"staykedarnath_backend/platform/config"
	"staykedarnath_backend/platform/logger"
)

// reminderLeadTime is how long before check-in the reminder email fires.
const reminderLeadTime = 24 * time.Hour

// Module wires domain events to the email sender and the reminder scheduler.
type Module struct {
	sender     email.Sender
	reminders  scheduler.ReminderScheduler
	adminEmail string
	log        *logger.Logger
	clock      func() time.Time
}

// NewModule creates the notification module. Reminders may be nil when no
// redis is configured; reminder scheduling is then skipped.
func NewModule(cfg config.NotificationConfig, reminders scheduler.ReminderScheduler, log *logger.Logger) *Module {
	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		sender = email.NewNoopSender(log)
	}

	return &Module{
		sender:     sender,
		reminders:  reminders,
		adminEmail: cfg.GetAdminEmail(),
		log:        log,
		clock:      time.Now,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.BookingCreated{}.EventName(), events.HandlerFunc(m.onBookingCreated))
	bus.Subscribe(events.CheckinReminderDue{}.EventName(), events.HandlerFunc(m.onCheckinReminderDue))
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.onLeadCreated))
}

func (m *Module) onBookingCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if err := m.sender.SendBookingConfirmation(ctx, e.GuestEmail, email.BookingEmailData{
		GuestName:   e.GuestName,
		CheckIn:     e.CheckIn.Format(time.DateOnly),
		CheckOut:    e.CheckOut.Format(time.DateOnly),
		TotalAmount: e.TotalAmount,
	}); err != nil {
		m.log.Error("booking confirmation email failed", "booking_id", e.BookingID, "error", err)
	}

	m.scheduleReminder(ctx, e)
	return nil
}

// scheduleReminder enqueues the check-in reminder a day before arrival.
// Last-minute bookings inside the lead time get no reminder.
func (m *Module) scheduleReminder(ctx context.Context, e events.BookingCreated) {
	if m.reminders == nil {
		return
	}

	runAt := e.CheckIn.Add(-reminderLeadTime)
	if !runAt.After(m.clock()) {
		return
	}

	err := m.reminders.ScheduleCheckinReminder(ctx, scheduler.CheckinReminderPayload{
		BookingID: e.BookingID.String(),
	}, runAt)
	if err != nil {
		m.log.Error("checkin reminder scheduling failed", "booking_id", e.BookingID, "error", err)
		return
	}
	m.log.Info("checkin reminder scheduled", "booking_id", e.BookingID, "run_at", runAt)
}

func (m *Module) onCheckinReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CheckinReminderDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	return m.sender.SendCheckinReminder(ctx, e.GuestEmail, email.BookingEmailData{
		GuestName: e.GuestName,
		CheckIn:   e.CheckIn.Format(time.DateOnly),
	})
}

func (m *Module) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if m.adminEmail == "" {
		return nil
	}
	return m.sender.SendLeadAlert(ctx, m.adminEmail, e.Name, e.Phone, e.Email)
}
