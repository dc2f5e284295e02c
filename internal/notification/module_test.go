package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/email"
	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/internal/scheduler"
	"staykedarnath_backend/platform/logger"
)

type fakeSender struct {
	confirmations []string
	lastBooking   email.BookingEmailData
	reminders     []string
	alerts        []string
}

func (s *fakeSender) SendBookingConfirmation(_ context.Context, toEmail string, data email.BookingEmailData) error {
	s.confirmations = append(s.confirmations, toEmail)
	s.lastBooking = data
	return nil
}

func (s *fakeSender) SendCheckinReminder(_ context.Context, toEmail string, _ email.BookingEmailData) error {
	s.reminders = append(s.reminders, toEmail)
	return nil
}

func (s *fakeSender) SendLeadAlert(_ context.Context, toEmail, _, _, _ string) error {
	s.alerts = append(s.alerts, toEmail)
	return nil
}

type fakeScheduler struct {
	scheduled []time.Time
}

func (s *fakeScheduler) ScheduleCheckinReminder(_ context.Context, _ scheduler.CheckinReminderPayload, runAt time.Time) error {
	s.scheduled = append(s.scheduled, runAt)
	return nil
}

func newTestModule(now time.Time) (*Module, *fakeSender, *fakeScheduler, *events.InMemoryBus) {
	log := logger.New("development")
	sender := &fakeSender{}
	sched := &fakeScheduler{}
	m := &Module{
		sender:     sender,
		reminders:  sched,
		adminEmail: "admin@staykedarnath.in",
		log:        log,
		clock:      func() time.Time { return now },
	}
	bus := events.NewInMemoryBus(log)
	m.RegisterHandlers(bus)
	return m, sender, sched, bus
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBookingCreatedSendsConfirmationAndSchedulesReminder(t *testing.T) {
	_, sender, sched, bus := newTestModule(date("2026-05-01"))

	err := bus.PublishSync(context.Background(), events.BookingCreated{
		BaseEvent:   events.NewBaseEvent(),
		BookingID:   uuid.New(),
		GuestName:   "Asha Rawat",
		GuestEmail:  "asha@example.com",
		CheckIn:     date("2026-05-10"),
		CheckOut:    date("2026-05-12"),
		TotalAmount: 500000,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(sender.confirmations) != 1 || sender.confirmations[0] != "asha@example.com" {
		t.Fatalf("confirmations = %v", sender.confirmations)
	}
	if sender.lastBooking.TotalAmount != 500000 {
		t.Fatalf("email total = %d paise, want 500000", sender.lastBooking.TotalAmount)
	}
	if len(sched.scheduled) != 1 {
		t.Fatalf("scheduled = %d, want 1", len(sched.scheduled))
	}
	if want := date("2026-05-09"); !sched.scheduled[0].Equal(want) {
		t.Fatalf("reminder at %v, want %v", sched.scheduled[0], want)
	}
}

func TestLastMinuteBookingGetsNoReminder(t *testing.T) {
	_, sender, sched, bus := newTestModule(date("2026-05-10"))

	err := bus.PublishSync(context.Background(), events.BookingCreated{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  uuid.New(),
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    date("2026-05-10"),
		CheckOut:   date("2026-05-11"),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(sender.confirmations) != 1 {
		t.Fatalf("confirmations = %d, want 1", len(sender.confirmations))
	}
	if len(sched.scheduled) != 0 {
		t.Fatalf("scheduled = %d, want 0 for same-day booking", len(sched.scheduled))
	}
}

func TestCheckinReminderDueSendsEmail(t *testing.T) {
	_, sender, _, bus := newTestModule(date("2026-05-09"))

	err := bus.PublishSync(context.Background(), events.CheckinReminderDue{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  uuid.New(),
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    date("2026-05-10"),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(sender.reminders) != 1 || sender.reminders[0] != "asha@example.com" {
		t.Fatalf("reminders = %v", sender.reminders)
	}
}

func TestLeadCreatedAlertsAdmin(t *testing.T) {
	m, sender, _, bus := newTestModule(date("2026-05-01"))

	err := bus.PublishSync(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Name:      "Ravi Negi",
		Phone:     "+919876543210",
		Email:     "ravi@example.com",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(sender.alerts) != 1 || sender.alerts[0] != m.adminEmail {
		t.Fatalf("alerts = %v", sender.alerts)
	}

	// No admin inbox configured means no alert, not an error.
	m.adminEmail = ""
	if err := bus.PublishSync(context.Background(), events.LeadCreated{BaseEvent: events.NewBaseEvent()}); err != nil {
		t.Fatalf("publish without admin email: %v", err)
	}
	if len(sender.alerts) != 1 {
		t.Fatalf("alerts grew without an admin inbox: %v", sender.alerts)
	}
}
