// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"staykedarnath_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Inventory Domain Events
// =============================================================================

// PropertyChanged is published when a property is created, updated or deleted.
type PropertyChanged struct {
	BaseEvent
	PropertyID uuid.UUID `json:"propertyId"`
	Action     string    `json:"action"` // created | updated | deleted
}

func (e PropertyChanged) EventName() string { return "inventory.property.changed" }

// RoomChanged is published when a room is created, updated, deleted or its
// status transitions.
type RoomChanged struct {
	BaseEvent
	RoomID     uuid.UUID `json:"roomId"`
	PropertyID uuid.UUID `json:"propertyId"`
	Action     string    `json:"action"` // created | updated | deleted | status_changed
}

func (e RoomChanged) EventName() string { return "inventory.room.changed" }

// =============================================================================
// Booking Domain Events
// =============================================================================

// BookingCreated is published when a new booking is created.
type BookingCreated struct {
	BaseEvent
	BookingID   uuid.UUID `json:"bookingId"`
	RoomID      uuid.UUID `json:"roomId"`
	PropertyID  uuid.UUID `json:"propertyId"`
	CustomerID  uuid.UUID `json:"customerId"`
	GuestName   string    `json:"guestName"`
	GuestEmail  string    `json:"guestEmail"`
	CheckIn     time.Time `json:"checkIn"`
	CheckOut    time.Time `json:"checkOut"`
	TotalAmount int64     `json:"totalAmount"` // paise
}

func (e BookingCreated) EventName() string { return "booking.created" }

// BookingStatusChanged is published when a booking transitions status
// (confirmed, checked_in, checked_out, cancelled).
type BookingStatusChanged struct {
	BaseEvent
	BookingID  uuid.UUID `json:"bookingId"`
	RoomID     uuid.UUID `json:"roomId"`
	CustomerID uuid.UUID `json:"customerId"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
}

func (e BookingStatusChanged) EventName() string { return "booking.status_changed" }

// CheckinReminderDue is published by the scheduler worker when a booking's
// check-in reminder fires.
type CheckinReminderDue struct {
	BaseEvent
	BookingID  uuid.UUID `json:"bookingId"`
	GuestName  string    `json:"guestName"`
	GuestEmail string    `json:"guestEmail"`
	CheckIn    time.Time `json:"checkIn"`
}

func (e CheckinReminderDue) EventName() string { return "booking.checkin_reminder_due" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a stay enquiry arrives from the public site.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	Email  string    `json:"email"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// =============================================================================
// Testimonials Domain Events
// =============================================================================

// TestimonialSubmitted is published when a guest submits a testimonial.
type TestimonialSubmitted struct {
	BaseEvent
	TestimonialID uuid.UUID `json:"testimonialId"`
	GuestName     string    `json:"guestName"`
}

func (e TestimonialSubmitted) EventName() string { return "testimonials.submitted" }
