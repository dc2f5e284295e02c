// Package repository provides the data access layer for availability search.
// The primary path delegates to the find_available_rooms database function;
// the remaining queries feed the service's local fallback computation.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	bookingrepo "staykedarnath_backend/internal/booking/repository"
	"staykedarnath_backend/platform/apperr"
)

const roomResultColumns = `r.id, r.name, r.room_type, r.capacity, r.price_per_night,
			p.id, p.name, p.property_type, p.rating, p.address, p.amenities`

// Repo implements both AvailabilityResolver and Store over postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new search repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var (
	_ AvailabilityResolver = (*Repo)(nil)
	_ Store                = (*Repo)(nil)
)

// FindAvailableRooms calls the database-side availability function. Errors
// are wrapped as unavailable so the service branches to its fallback.
func (r *Repo) FindAvailableRooms(ctx context.Context, params RoomSearchParams) ([]RoomResult, error) {
	query := `SELECT room_id, room_name, room_type, capacity, price_per_night,
			property_id, property_name, property_type, rating, address, amenities
		FROM find_available_rooms($1, $2, $3, $4)`

	rows, err := r.pool.Query(ctx, query, params.Location, params.CheckIn, params.CheckOut, params.Guests)
	if err != nil {
		return nil, apperr.Unavailable("availability function query failed", err)
	}
	defer rows.Close()

	results, err := collectRoomResults(rows)
	if err != nil {
		return nil, apperr.Unavailable("availability function scan failed", err)
	}
	return results, nil
}

// ListAvailableRooms returns every operationally available room with its
// property.
func (r *Repo) ListAvailableRooms(ctx context.Context) ([]RoomResult, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM rooms r
		JOIN properties p ON p.id = r.property_id
		WHERE r.status = 'available'
		ORDER BY p.name, r.name`, roomResultColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	defer rows.Close()

	return collectRoomResults(rows)
}

// ConflictingRoomIDs returns the rooms among roomIDs that have a blocking
// booking overlapping the half-open range [from, to).
func (r *Repo) ConflictingRoomIDs(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]struct{}, error) {
	if len(roomIDs) == 0 {
		return map[uuid.UUID]struct{}{}, nil
	}

	query := `
		SELECT DISTINCT room_id FROM bookings
		WHERE room_id = ANY($1)
		  AND status = ANY($2)
		  AND check_in < $3
		  AND check_out > $4`

	rows, err := r.pool.Query(ctx, query, roomIDs, bookingrepo.BlockingStatuses(), to, from)
	if err != nil {
		return nil, fmt.Errorf("find conflicting room ids: %w", err)
	}
	defer rows.Close()

	conflicting := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan conflicting room id: %w", err)
		}
		conflicting[id] = struct{}{}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate conflicting room ids: %w", rows.Err())
	}
	return conflicting, nil
}

// ListCandidateRooms returns available rooms matching the structural property
// filters. Amenity filtering stays in the service.
func (r *Repo) ListCandidateRooms(ctx context.Context, params CandidateParams) ([]RoomResult, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM rooms r
		JOIN properties p ON p.id = r.property_id
		WHERE r.status = 'available'
		  AND r.capacity >= $1
		  AND ($2 = '' OR p.address ILIKE '%%' || $2 || '%%' OR p.name ILIKE '%%' || $2 || '%%')
		  AND ($3 = '' OR p.property_type = $3)
		  AND p.rating >= $4
		ORDER BY p.name, r.name`, roomResultColumns)

	guests := params.Guests
	if guests < 1 {
		guests = 1
	}
	rows, err := r.pool.Query(ctx, query, guests, params.Location, params.PropertyType, params.MinRating)
	if err != nil {
		return nil, fmt.Errorf("list candidate rooms: %w", err)
	}
	defer rows.Close()

	return collectRoomResults(rows)
}

func collectRoomResults(rows pgx.Rows) ([]RoomResult, error) {
	results := make([]RoomResult, 0)
	for rows.Next() {
		var res RoomResult
		if err := rows.Scan(
			&res.RoomID, &res.RoomName, &res.RoomType, &res.Capacity, &res.PricePerNight,
			&res.PropertyID, &res.PropertyName, &res.PropertyType, &res.Rating, &res.Address, &res.Amenities,
		); err != nil {
			return nil, fmt.Errorf("scan room result: %w", err)
		}
		if res.Amenities == nil {
			res.Amenities = []string{}
		}
		results = append(results, res)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate room results: %w", rows.Err())
	}
	return results, nil
}
