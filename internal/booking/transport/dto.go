// Package transport defines request/response DTOs for the booking module.
package transport

import "github.com/google/uuid"

// CreateBookingRequest is the payload for creating a booking. Dates are
// calendar dates in "YYYY-MM-DD" form; the range is half-open, check-out
// exclusive.
type CreateBookingRequest struct {
	RoomID     uuid.UUID `json:"roomId" validate:"required"`
	GuestName  string    `json:"guestName" validate:"required,min=2,max=200"`
	GuestEmail string    `json:"guestEmail" validate:"required,email"`
	GuestPhone *string   `json:"guestPhone,omitempty"`
	CheckIn    string    `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut   string    `json:"checkOut" validate:"required,datetime=2006-01-02"`
}

// UpdateBookingStatusRequest sets a booking's status.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed checked_in checked_out cancelled"`
}

// BookingResponse is the API shape of a booking.
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	RoomID      uuid.UUID `json:"roomId"`
	PropertyID  uuid.UUID `json:"propertyId"`
	CustomerID  uuid.UUID `json:"customerId"`
	GuestName   string    `json:"guestName"`
	GuestEmail  string    `json:"guestEmail"`
	GuestPhone  *string   `json:"guestPhone,omitempty"`
	CheckIn     string    `json:"checkIn"`
	CheckOut    string    `json:"checkOut"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"totalAmount"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ListSettlementsRequest holds query filters for settlement listing.
type ListSettlementsRequest struct {
	PropertyID string `form:"propertyId" validate:"omitempty,uuid"`
	Status     string `form:"status" validate:"omitempty,oneof=pending settled"`
	Page       int    `form:"page" validate:"gte=0"`
	PageSize   int    `form:"pageSize" validate:"gte=0,lte=100"`
}

// SettlementResponse is the API shape of a settlement.
type SettlementResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"bookingId"`
	PropertyID uuid.UUID `json:"propertyId"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	SettledAt  *string   `json:"settledAt,omitempty"`
	CreatedAt  string    `json:"createdAt"`
}

// SettlementListResponse is a paginated settlement list.
type SettlementListResponse struct {
	Items    []SettlementResponse `json:"items"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}
