// Package service implements booking business logic: reservation lifecycle,
// conflict checking at the write path, customer booking lists and settlements.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/booking/repository"
	"staykedarnath_backend/internal/booking/transport"
	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
)

// Service provides business logic for bookings.
type Service struct {
	repo  repository.Repository
	cache cache.Cache
	bus   events.Bus
	log   *logger.Logger
}

// New creates a new booking service.
func New(repo repository.Repository, c cache.Cache, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: c, bus: bus, log: log}
}

// allowedTransitions maps a booking status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	repository.StatusPending:   {repository.StatusConfirmed, repository.StatusCancelled},
	repository.StatusConfirmed: {repository.StatusCheckedIn, repository.StatusCancelled},
	repository.StatusCheckedIn: {repository.StatusCheckedOut},
}

func customerBookingsKey(customerID uuid.UUID) string {
	return cache.PrefixCustomerBookings + customerID.String()
}

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, value)
}

// CreateBooking creates a pending booking for the given customer. The date
// range is validated at the boundary, the room must exist, and an overlapping
// blocking booking is rejected with a conflict error. Conflict checking here
// is the write-path guard; the search read path only filters.
func (s *Service) CreateBooking(ctx context.Context, customerID uuid.UUID, req transport.CreateBookingRequest) (transport.BookingResponse, error) {
	checkIn, err := ParseDate(req.CheckIn)
	if err != nil {
		return transport.BookingResponse{}, apperr.Validation("invalid check-in date")
	}
	checkOut, err := ParseDate(req.CheckOut)
	if err != nil {
		return transport.BookingResponse{}, apperr.Validation("invalid check-out date")
	}
	if !checkIn.Before(checkOut) {
		return transport.BookingResponse{}, apperr.Validation("check-in must be before check-out")
	}

	room, err := s.repo.GetBookedRoom(ctx, req.RoomID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.BookingResponse{}, apperr.NotFound("Room with ID " + req.RoomID.String() + " not found")
		}
		return transport.BookingResponse{}, err
	}

	conflicts, err := s.repo.FindConflicts(ctx, []uuid.UUID{room.ID}, checkIn, checkOut, repository.BlockingStatuses())
	if err != nil {
		return transport.BookingResponse{}, err
	}
	if len(conflicts) > 0 {
		return transport.BookingResponse{}, apperr.Conflict("room is already booked for the selected dates")
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	booking, err := s.repo.CreateBooking(ctx, repository.CreateBookingParams{
		RoomID:      room.ID,
		PropertyID:  room.PropertyID,
		CustomerID:  customerID,
		GuestName:   strings.TrimSpace(req.GuestName),
		GuestEmail:  strings.TrimSpace(req.GuestEmail),
		GuestPhone:  req.GuestPhone,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Status:      repository.StatusPending,
		TotalAmount: nights * room.PricePerNight,
	})
	if err != nil {
		return transport.BookingResponse{}, err
	}

	s.cache.Delete(ctx, customerBookingsKey(customerID))
	s.bus.Publish(ctx, events.BookingCreated{
		BaseEvent:   events.NewBaseEvent(),
		BookingID:   booking.ID,
		RoomID:      booking.RoomID,
		PropertyID:  booking.PropertyID,
		CustomerID:  booking.CustomerID,
		GuestName:   booking.GuestName,
		GuestEmail:  booking.GuestEmail,
		CheckIn:     booking.CheckIn,
		CheckOut:    booking.CheckOut,
		TotalAmount: booking.TotalAmount,
	})

	s.log.Info("booking created", "id", booking.ID, "room_id", booking.RoomID)
	return toBookingResponse(booking), nil
}

// GetBookingByID retrieves a booking.
func (s *Service) GetBookingByID(ctx context.Context, id uuid.UUID) (transport.BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	return toBookingResponse(booking), nil
}

// ListBookingsByCustomer lists a customer's bookings, read-through cached.
func (s *Service) ListBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]transport.BookingResponse, error) {
	key := customerBookingsKey(customerID)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var cached []transport.BookingResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			s.log.CacheEvent("hit", key)
			return cached, nil
		}
	}

	bookings, err := s.repo.ListBookingsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(b))
	}
	if payload, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, payload)
		s.log.CacheEvent("set", key)
	}
	return resp, nil
}

// UpdateBookingStatus transitions a booking to a new status. Checking out a
// booking records a settlement owed to the property.
func (s *Service) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) (transport.BookingResponse, error) {
	if !repository.ValidStatus(status) {
		return transport.BookingResponse{}, apperr.Validation("invalid booking status")
	}

	current, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	if !transitionAllowed(current.Status, status) {
		return transport.BookingResponse{}, apperr.Conflict("cannot transition booking from " + current.Status + " to " + status)
	}

	booking, err := s.repo.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	if status == repository.StatusCheckedOut {
		if _, err := s.repo.CreateSettlement(ctx, booking.ID, booking.PropertyID, booking.TotalAmount); err != nil {
			s.log.Error("settlement creation failed", "booking_id", booking.ID, "error", err)
		}
	}

	s.cache.Delete(ctx, customerBookingsKey(booking.CustomerID))
	s.bus.Publish(ctx, events.BookingStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		CustomerID: booking.CustomerID,
		OldStatus:  current.Status,
		NewStatus:  status,
	})

	s.log.Info("booking status changed", "id", id, "from", current.Status, "to", status)
	return toBookingResponse(booking), nil
}

// CancelBooking cancels a booking owned by the given customer.
func (s *Service) CancelBooking(ctx context.Context, customerID, id uuid.UUID) (transport.BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	if booking.CustomerID != customerID {
		return transport.BookingResponse{}, apperr.Forbidden("booking belongs to another customer")
	}
	return s.UpdateBookingStatus(ctx, id, repository.StatusCancelled)
}

// DeleteBooking removes a booking record entirely (admin cleanup).
func (s *Service) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, customerBookingsKey(booking.CustomerID))
	s.bus.Publish(ctx, events.BookingStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		CustomerID: booking.CustomerID,
		OldStatus:  booking.Status,
		NewStatus:  "deleted",
	})
	s.log.Info("booking deleted", "id", id)
	return nil
}

// ListSettlements lists settlements for the admin panel.
func (s *Service) ListSettlements(ctx context.Context, req transport.ListSettlementsRequest) (transport.SettlementListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	params := repository.ListSettlementsParams{
		Status: req.Status,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if req.PropertyID != "" {
		propertyID, err := uuid.Parse(req.PropertyID)
		if err != nil {
			return transport.SettlementListResponse{}, apperr.Validation("invalid property id")
		}
		params.PropertyID = &propertyID
	}

	items, total, err := s.repo.ListSettlements(ctx, params)
	if err != nil {
		return transport.SettlementListResponse{}, err
	}

	resp := transport.SettlementListResponse{
		Items:    make([]transport.SettlementResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toSettlementResponse(item))
	}
	return resp, nil
}

// MarkSettlementSettled marks a settlement as paid out.
func (s *Service) MarkSettlementSettled(ctx context.Context, id uuid.UUID) (transport.SettlementResponse, error) {
	settlement, err := s.repo.MarkSettlementSettled(ctx, id)
	if err != nil {
		return transport.SettlementResponse{}, err
	}
	s.log.Info("settlement settled", "id", id)
	return toSettlementResponse(settlement), nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func toBookingResponse(b repository.Booking) transport.BookingResponse {
	return transport.BookingResponse{
		ID:          b.ID,
		RoomID:      b.RoomID,
		PropertyID:  b.PropertyID,
		CustomerID:  b.CustomerID,
		GuestName:   b.GuestName,
		GuestEmail:  b.GuestEmail,
		GuestPhone:  b.GuestPhone,
		CheckIn:     b.CheckIn.Format(time.DateOnly),
		CheckOut:    b.CheckOut.Format(time.DateOnly),
		Status:      b.Status,
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toSettlementResponse(s repository.Settlement) transport.SettlementResponse {
	resp := transport.SettlementResponse{
		ID:         s.ID,
		BookingID:  s.BookingID,
		PropertyID: s.PropertyID,
		Amount:     s.Amount,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
	}
	if s.SettledAt != nil {
		formatted := s.SettledAt.Format(time.RFC3339)
		resp.SettledAt = &formatted
	}
	return resp
}
