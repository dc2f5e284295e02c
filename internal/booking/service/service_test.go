package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/booking/repository"
	"staykedarnath_backend/internal/booking/transport"
	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
)

type stubRepo struct {
	rooms       map[uuid.UUID]repository.BookedRoom
	bookings    map[uuid.UUID]repository.Booking
	conflicts   []repository.Booking
	settlements []repository.Settlement

	findConflictsCalls int
	lastStatuses       []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		rooms:    make(map[uuid.UUID]repository.BookedRoom),
		bookings: make(map[uuid.UUID]repository.Booking),
	}
}

func (r *stubRepo) CreateBooking(_ context.Context, params repository.CreateBookingParams) (repository.Booking, error) {
	b := repository.Booking{
		ID:          uuid.New(),
		RoomID:      params.RoomID,
		PropertyID:  params.PropertyID,
		CustomerID:  params.CustomerID,
		GuestName:   params.GuestName,
		GuestEmail:  params.GuestEmail,
		GuestPhone:  params.GuestPhone,
		CheckIn:     params.CheckIn,
		CheckOut:    params.CheckOut,
		Status:      params.Status,
		TotalAmount: params.TotalAmount,
		CreatedAt:   time.Now().Format(time.RFC3339),
		UpdatedAt:   time.Now().Format(time.RFC3339),
	}
	r.bookings[b.ID] = b
	return b, nil
}

func (r *stubRepo) GetBookingByID(_ context.Context, id uuid.UUID) (repository.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return repository.Booking{}, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (r *stubRepo) ListBookingsByCustomer(_ context.Context, customerID uuid.UUID) ([]repository.Booking, error) {
	out := []repository.Booking{}
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateBookingStatus(_ context.Context, id uuid.UUID, status string) (repository.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return repository.Booking{}, apperr.NotFound("booking not found")
	}
	b.Status = status
	r.bookings[id] = b
	return b, nil
}

func (r *stubRepo) DeleteBooking(_ context.Context, id uuid.UUID) error {
	if _, ok := r.bookings[id]; !ok {
		return apperr.NotFound("booking not found")
	}
	delete(r.bookings, id)
	return nil
}

func (r *stubRepo) FindConflicts(_ context.Context, _ []uuid.UUID, _, _ time.Time, statuses []string) ([]repository.Booking, error) {
	r.findConflictsCalls++
	r.lastStatuses = statuses
	return r.conflicts, nil
}

func (r *stubRepo) GetBookedRoom(_ context.Context, roomID uuid.UUID) (repository.BookedRoom, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return repository.BookedRoom{}, apperr.NotFound("room not found")
	}
	return room, nil
}

func (r *stubRepo) CreateSettlement(_ context.Context, bookingID, propertyID uuid.UUID, amount int64) (repository.Settlement, error) {
	s := repository.Settlement{
		ID:         uuid.New(),
		BookingID:  bookingID,
		PropertyID: propertyID,
		Amount:     amount,
		Status:     "pending",
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	r.settlements = append(r.settlements, s)
	return s, nil
}

func (r *stubRepo) ListSettlements(_ context.Context, _ repository.ListSettlementsParams) ([]repository.Settlement, int, error) {
	return r.settlements, len(r.settlements), nil
}

func (r *stubRepo) MarkSettlementSettled(_ context.Context, id uuid.UUID) (repository.Settlement, error) {
	for i, s := range r.settlements {
		if s.ID == id {
			now := time.Now()
			s.Status = "settled"
			s.SettledAt = &now
			r.settlements[i] = s
			return s, nil
		}
	}
	return repository.Settlement{}, apperr.NotFound("settlement not found")
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

func newTestService(repo *stubRepo) (*Service, *recordingBus, *cache.Memory) {
	bus := &recordingBus{}
	mem := cache.NewMemory(time.Minute, nil)
	svc := New(repo, mem, bus, logger.New("development"))
	return svc, bus, mem
}

func seedRoom(repo *stubRepo, price int64) repository.BookedRoom {
	room := repository.BookedRoom{
		ID:            uuid.New(),
		PropertyID:    uuid.New(),
		PricePerNight: price,
		Status:        "available",
	}
	repo.rooms[room.ID] = room
	return room
}

func TestCreateBookingComputesTotalFromNights(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 250000)
	svc, bus, _ := newTestService(repo)

	resp, err := svc.CreateBooking(context.Background(), uuid.New(), transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-13",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if resp.TotalAmount != 3*250000 {
		t.Fatalf("total = %d, want %d", resp.TotalAmount, 3*250000)
	}
	if resp.Status != repository.StatusPending {
		t.Fatalf("status = %q, want pending", resp.Status)
	}
	if got := bus.names(); len(got) != 1 || got[0] != "booking.created" {
		t.Fatalf("published events = %v, want [booking.created]", got)
	}
	created, ok := bus.events[0].(events.BookingCreated)
	if !ok {
		t.Fatalf("event type = %T, want BookingCreated", bus.events[0])
	}
	if created.TotalAmount != resp.TotalAmount {
		t.Fatalf("event total = %d, want %d", created.TotalAmount, resp.TotalAmount)
	}
}

func TestCreateBookingRejectsInvertedRange(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 100000)
	svc, _, _ := newTestService(repo)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-13",
		CheckOut:   "2026-05-10",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if repo.findConflictsCalls != 0 {
		t.Fatalf("conflict check ran %d times for an invalid range", repo.findConflictsCalls)
	}
}

func TestCreateBookingRejectsZeroNights(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 100000)
	svc, _, _ := newTestService(repo)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-10",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateBookingConflictRejected(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 100000)
	repo.conflicts = []repository.Booking{{ID: uuid.New(), RoomID: room.ID}}
	svc, bus, _ := newTestService(repo)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict error", err)
	}
	if len(bus.names()) != 0 {
		t.Fatalf("events published for rejected booking: %v", bus.names())
	}
	wantStatuses := repository.BlockingStatuses()
	if len(repo.lastStatuses) != len(wantStatuses) {
		t.Fatalf("conflict statuses = %v, want %v", repo.lastStatuses, wantStatuses)
	}
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	repo := newStubRepo()
	svc, _, _ := newTestService(repo)

	missing := uuid.New()
	_, err := svc.CreateBooking(context.Background(), uuid.New(), transport.CreateBookingRequest{
		RoomID:     missing,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("err is not *apperr.Error: %v", err)
	}
	want := "Room with ID " + missing.String() + " not found"
	if appErr.Message != want {
		t.Fatalf("message = %q, want %q", appErr.Message, want)
	}
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 100000)
	svc, _, _ := newTestService(repo)

	created, err := svc.CreateBooking(context.Background(), uuid.New(), transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// pending -> checked_in skips confirmation and must be refused.
	if _, err := svc.UpdateBookingStatus(context.Background(), created.ID, repository.StatusCheckedIn); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("pending->checked_in err = %v, want conflict", err)
	}

	for _, status := range []string{repository.StatusConfirmed, repository.StatusCheckedIn, repository.StatusCheckedOut} {
		if _, err := svc.UpdateBookingStatus(context.Background(), created.ID, status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	// Terminal status: no further transitions.
	if _, err := svc.UpdateBookingStatus(context.Background(), created.ID, repository.StatusCancelled); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("checked_out->cancelled err = %v, want conflict", err)
	}
}

func TestCheckoutCreatesSettlement(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 150000)
	svc, _, _ := newTestService(repo)

	created, err := svc.CreateBooking(context.Background(), uuid.New(), transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	for _, status := range []string{repository.StatusConfirmed, repository.StatusCheckedIn, repository.StatusCheckedOut} {
		if _, err := svc.UpdateBookingStatus(context.Background(), created.ID, status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	if len(repo.settlements) != 1 {
		t.Fatalf("settlements = %d, want 1", len(repo.settlements))
	}
	if repo.settlements[0].Amount != created.TotalAmount {
		t.Fatalf("settlement amount = %d, want %d", repo.settlements[0].Amount, created.TotalAmount)
	}
}

func TestCancelBookingRequiresOwnership(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 100000)
	svc, _, _ := newTestService(repo)

	owner := uuid.New()
	created, err := svc.CreateBooking(context.Background(), owner, transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if _, err := svc.CancelBooking(context.Background(), uuid.New(), created.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("foreign cancel err = %v, want forbidden", err)
	}

	resp, err := svc.CancelBooking(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if resp.Status != repository.StatusCancelled {
		t.Fatalf("status = %q, want cancelled", resp.Status)
	}
}

func TestListBookingsByCustomerUsesCache(t *testing.T) {
	repo := newStubRepo()
	room := seedRoom(repo, 100000)
	svc, _, mem := newTestService(repo)

	customerID := uuid.New()
	if _, err := svc.CreateBooking(context.Background(), customerID, transport.CreateBookingRequest{
		RoomID:     room.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-05-10",
		CheckOut:   "2026-05-12",
	}); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	first, err := svc.ListBookingsByCustomer(context.Background(), customerID)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first list len = %d, want 1", len(first))
	}

	// The second read must come from the cache even after the backing store
	// loses the row.
	repo.bookings = map[uuid.UUID]repository.Booking{}
	second, err := svc.ListBookingsByCustomer(context.Background(), customerID)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("cached list len = %d, want 1", len(second))
	}

	// A new booking for the customer invalidates the cached list.
	room2 := seedRoom(repo, 100000)
	if _, err := svc.CreateBooking(context.Background(), customerID, transport.CreateBookingRequest{
		RoomID:     room2.ID,
		GuestName:  "Asha Rawat",
		GuestEmail: "asha@example.com",
		CheckIn:    "2026-06-01",
		CheckOut:   "2026-06-03",
	}); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, ok := mem.Get(context.Background(), cache.PrefixCustomerBookings+customerID.String()); ok {
		t.Fatal("customer bookings cache entry survived a new booking")
	}
}
