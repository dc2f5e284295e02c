package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/platform/apperr"
)

const (
	bookingNotFoundMessage    = "booking not found"
	roomNotFoundMessage       = "room not found"
	settlementNotFoundMessage = "settlement not found"
)

const bookingColumns = `id, room_id, property_id, customer_id, guest_name, guest_email, guest_phone,
		check_in, check_out, status, total_amount, created_at, updated_at`

// Repo implements the booking repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new booking repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateBooking inserts a booking.
func (r *Repo) CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error) {
	query := fmt.Sprintf(`
		INSERT INTO bookings (room_id, property_id, customer_id, guest_name, guest_email, guest_phone,
			check_in, check_out, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, bookingColumns)

	booking, err := scanBooking(r.pool.QueryRow(ctx, query,
		params.RoomID, params.PropertyID, params.CustomerID, params.GuestName, params.GuestEmail,
		params.GuestPhone, params.CheckIn, params.CheckOut, params.Status, params.TotalAmount,
	))
	if err != nil {
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

// GetBookingByID retrieves a booking by ID.
func (r *Repo) GetBookingByID(ctx context.Context, id uuid.UUID) (Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

// ListBookingsByCustomer lists a customer's bookings, newest first.
func (r *Repo) ListBookingsByCustomer(ctx context.Context, customerID uuid.UUID) ([]Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE customer_id = $1
		ORDER BY check_in DESC`, bookingColumns)

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by customer: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateBookingStatus sets a booking's status.
func (r *Repo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) (Booking, error) {
	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, bookingColumns)

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("update booking status: %w", err)
	}
	return booking, nil
}

// DeleteBooking removes a booking.
func (r *Repo) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(bookingNotFoundMessage)
	}
	return nil
}

// FindConflicts returns bookings overlapping [from, to) for the given rooms.
// Overlap on half-open intervals: check_in < to AND check_out > from, so a
// booking ending exactly at `from` (same-day turnover) does not conflict.
func (r *Repo) FindConflicts(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time, statuses []string) ([]Booking, error) {
	if len(roomIDs) == 0 {
		return []Booking{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE room_id = ANY($1)
		  AND status = ANY($2)
		  AND check_in < $3
		  AND check_out > $4`, bookingColumns)

	rows, err := r.pool.Query(ctx, query, roomIDs, statuses, to, from)
	if err != nil {
		return nil, fmt.Errorf("find conflicting bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetBookedRoom resolves pricing attributes for a room.
func (r *Repo) GetBookedRoom(ctx context.Context, roomID uuid.UUID) (BookedRoom, error) {
	query := `SELECT id, property_id, price_per_night, status FROM rooms WHERE id = $1`

	var room BookedRoom
	if err := r.pool.QueryRow(ctx, query, roomID).Scan(
		&room.ID, &room.PropertyID, &room.PricePerNight, &room.Status,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookedRoom{}, apperr.NotFound(roomNotFoundMessage)
		}
		return BookedRoom{}, fmt.Errorf("get booked room: %w", err)
	}
	return room, nil
}

// CreateSettlement records a payout owed to a property.
func (r *Repo) CreateSettlement(ctx context.Context, bookingID, propertyID uuid.UUID, amount int64) (Settlement, error) {
	query := `
		INSERT INTO settlements (booking_id, property_id, amount, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, booking_id, property_id, amount, status, settled_at, created_at`

	settlement, err := scanSettlement(r.pool.QueryRow(ctx, query, bookingID, propertyID, amount))
	if err != nil {
		return Settlement{}, fmt.Errorf("create settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlements lists settlements with filters and pagination.
func (r *Repo) ListSettlements(ctx context.Context, params ListSettlementsParams) ([]Settlement, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.PropertyID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("property_id = $%d", argIdx))
		args = append(args, *params.PropertyID)
		argIdx++
	}
	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM settlements WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count settlements: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT id, booking_id, property_id, amount, status, settled_at, created_at
		FROM settlements
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	items := make([]Settlement, 0)
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan settlement: %w", err)
		}
		items = append(items, settlement)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate settlements: %w", rows.Err())
	}

	return items, total, nil
}

// MarkSettlementSettled flips a settlement to settled.
func (r *Repo) MarkSettlementSettled(ctx context.Context, id uuid.UUID) (Settlement, error) {
	query := `
		UPDATE settlements
		SET status = 'settled', settled_at = now()
		WHERE id = $1
		RETURNING id, booking_id, property_id, amount, status, settled_at, created_at`

	settlement, err := scanSettlement(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settlement{}, apperr.NotFound(settlementNotFoundMessage)
		}
		return Settlement{}, fmt.Errorf("mark settlement settled: %w", err)
	}
	return settlement, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (Booking, error) {
	var b Booking
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&b.ID, &b.RoomID, &b.PropertyID, &b.CustomerID, &b.GuestName, &b.GuestEmail, &b.GuestPhone,
		&b.CheckIn, &b.CheckOut, &b.Status, &b.TotalAmount, &createdAt, &updatedAt,
	); err != nil {
		return Booking{}, err
	}
	b.CreatedAt = createdAt.Format(time.RFC3339)
	b.UpdatedAt = updatedAt.Format(time.RFC3339)
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	items := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		items = append(items, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate bookings: %w", rows.Err())
	}
	return items, nil
}

func scanSettlement(row rowScanner) (Settlement, error) {
	var s Settlement
	var createdAt time.Time
	if err := row.Scan(
		&s.ID, &s.BookingID, &s.PropertyID, &s.Amount, &s.Status, &s.SettledAt, &createdAt,
	); err != nil {
		return Settlement{}, err
	}
	s.CreatedAt = createdAt.Format(time.RFC3339)
	return s, nil
}
