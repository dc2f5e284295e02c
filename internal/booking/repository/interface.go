package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Booking status values. A booking occupies its room while its status is one
// of the blocking statuses; cancelled and checked_out bookings do not.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
)

// BlockingStatuses are the booking statuses that make a room unavailable for
// an overlapping date range.
func BlockingStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusCheckedIn}
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// Booking is a reservation of one room for a half-open date range
// [CheckIn, CheckOut).
type Booking struct {
	ID          uuid.UUID `db:"id"`
	RoomID      uuid.UUID `db:"room_id"`
	PropertyID  uuid.UUID `db:"property_id"`
	CustomerID  uuid.UUID `db:"customer_id"`
	GuestName   string    `db:"guest_name"`
	GuestEmail  string    `db:"guest_email"`
	GuestPhone  *string   `db:"guest_phone"`
	CheckIn     time.Time `db:"check_in"`
	CheckOut    time.Time `db:"check_out"`
	Status      string    `db:"status"`
	TotalAmount int64     `db:"total_amount"` // paise
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
}

// BookedRoom carries the room attributes the booking service needs at
// creation time.
type BookedRoom struct {
	ID            uuid.UUID
	PropertyID    uuid.UUID
	PricePerNight int64
	Status        string
}

// Settlement is a payout record owed to a property for a checked-out booking.
type Settlement struct {
	ID         uuid.UUID  `db:"id"`
	BookingID  uuid.UUID  `db:"booking_id"`
	PropertyID uuid.UUID  `db:"property_id"`
	Amount     int64      `db:"amount"` // paise
	Status     string     `db:"status"` // pending | settled
	SettledAt  *time.Time `db:"settled_at"`
	CreatedAt  string     `db:"created_at"`
}

// CreateBookingParams contains data for creating a booking.
type CreateBookingParams struct {
	RoomID      uuid.UUID
	PropertyID  uuid.UUID
	CustomerID  uuid.UUID
	GuestName   string
	GuestEmail  string
	GuestPhone  *string
	CheckIn     time.Time
	CheckOut    time.Time
	Status      string
	TotalAmount int64
}

// ListSettlementsParams defines filters for listing settlements.
type ListSettlementsParams struct {
	PropertyID *uuid.UUID
	Status     string
	Offset     int
	Limit      int
}

// Repository defines data access for bookings and settlements.
type Repository interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (Booking, error)
	ListBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) (Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	// FindConflicts returns bookings for the given rooms whose half-open date
	// range overlaps [from, to) and whose status is in statuses.
	FindConflicts(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time, statuses []string) ([]Booking, error)

	// GetBookedRoom resolves the room attributes needed to price a booking.
	GetBookedRoom(ctx context.Context, roomID uuid.UUID) (BookedRoom, error)

	CreateSettlement(ctx context.Context, bookingID, propertyID uuid.UUID, amount int64) (Settlement, error)
	ListSettlements(ctx context.Context, params ListSettlementsParams) ([]Settlement, int, error)
	MarkSettlementSettled(ctx context.Context, id uuid.UUID) (Settlement, error)
}
