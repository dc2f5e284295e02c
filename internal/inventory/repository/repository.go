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
	propertyNotFoundMessage = "property not found"
	roomNotFoundMessage     = "room not found"
)

// Repo implements the inventory repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new inventory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateProperty creates a property.
func (r *Repo) CreateProperty(ctx context.Context, params CreatePropertyParams) (Property, error) {
	query := `
		INSERT INTO properties (name, address, property_type, rating, amenities, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, address, property_type, rating, amenities, description, created_at, updated_at`

	return r.scanProperty(r.pool.QueryRow(ctx, query,
		params.Name, params.Address, params.PropertyType, params.Rating, params.Amenities, params.Description,
	), "create property")
}

// UpdateProperty updates a property.
func (r *Repo) UpdateProperty(ctx context.Context, params UpdatePropertyParams) (Property, error) {
	query := `
		UPDATE properties
		SET name = COALESCE($2, name),
			address = COALESCE($3, address),
			property_type = COALESCE($4, property_type),
			rating = COALESCE($5, rating),
			amenities = COALESCE($6, amenities),
			description = COALESCE($7, description),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, address, property_type, rating, amenities, description, created_at, updated_at`

	prop, err := r.scanProperty(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Address, params.PropertyType, params.Rating, params.Amenities, params.Description,
	), "update property")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, err
	}
	return prop, nil
}

// DeleteProperty deletes a property and, through cascade, its rooms.
func (r *Repo) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(propertyNotFoundMessage)
	}
	return nil
}

// GetPropertyByID retrieves a property by ID.
func (r *Repo) GetPropertyByID(ctx context.Context, id uuid.UUID) (Property, error) {
	query := `
		SELECT id, name, address, property_type, rating, amenities, description, created_at, updated_at
		FROM properties
		WHERE id = $1`

	prop, err := r.scanProperty(r.pool.QueryRow(ctx, query, id), "get property by id")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, err
	}
	return prop, nil
}

// ListProperties lists properties with filters and pagination.
func (r *Repo) ListProperties(ctx context.Context, params ListPropertiesParams) ([]Property, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.LocationText != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(address ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.LocationText+"%")
		argIdx++
	}
	if params.PropertyType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("property_type = $%d", argIdx))
		args = append(args, params.PropertyType)
		argIdx++
	}
	if params.MinRating > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("rating >= $%d", argIdx))
		args = append(args, params.MinRating)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT id, name, address, property_type, rating, amenities, description, created_at, updated_at
		FROM properties
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	items := make([]Property, 0)
	for rows.Next() {
		prop, err := r.scanProperty(rows, "scan property")
		if err != nil {
			return nil, 0, err
		}
		items = append(items, prop)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate properties: %w", rows.Err())
	}

	return items, total, nil
}

// CreateRoom creates a room under a property.
func (r *Repo) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	query := `
		INSERT INTO rooms (property_id, name, room_type, capacity, price_per_night, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, property_id, name, room_type, capacity, price_per_night, status, created_at, updated_at`

	room, err := r.scanRoom(r.pool.QueryRow(ctx, query,
		params.PropertyID, params.Name, params.RoomType, params.Capacity, params.PricePerNight, params.Status,
	), "create room")
	if err != nil {
		return Room{}, err
	}
	return room, nil
}

// UpdateRoom updates a room.
func (r *Repo) UpdateRoom(ctx context.Context, params UpdateRoomParams) (Room, error) {
	query := `
		UPDATE rooms
		SET name = COALESCE($2, name),
			room_type = COALESCE($3, room_type),
			capacity = COALESCE($4, capacity),
			price_per_night = COALESCE($5, price_per_night),
			status = COALESCE($6, status),
			updated_at = now()
		WHERE id = $1
		RETURNING id, property_id, name, room_type, capacity, price_per_night, status, created_at, updated_at`

	room, err := r.scanRoom(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.RoomType, params.Capacity, params.PricePerNight, params.Status,
	), "update room")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Room{}, apperr.NotFound(roomNotFoundMessage)
		}
		return Room{}, err
	}
	return room, nil
}

// DeleteRoom deletes a room.
func (r *Repo) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(roomNotFoundMessage)
	}
	return nil
}

// GetRoomByID retrieves a room by ID.
func (r *Repo) GetRoomByID(ctx context.Context, id uuid.UUID) (Room, error) {
	query := `
		SELECT id, property_id, name, room_type, capacity, price_per_night, status, created_at, updated_at
		FROM rooms
		WHERE id = $1`

	room, err := r.scanRoom(r.pool.QueryRow(ctx, query, id), "get room by id")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Room{}, apperr.NotFound(roomNotFoundMessage)
		}
		return Room{}, err
	}
	return room, nil
}

// ListRoomsByProperty lists all rooms of a property.
func (r *Repo) ListRoomsByProperty(ctx context.Context, propertyID uuid.UUID) ([]Room, error) {
	query := `
		SELECT id, property_id, name, room_type, capacity, price_per_night, status, created_at, updated_at
		FROM rooms
		WHERE property_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list rooms by property: %w", err)
	}
	defer rows.Close()

	items := make([]Room, 0)
	for rows.Next() {
		room, err := r.scanRoom(rows, "scan room")
		if err != nil {
			return nil, err
		}
		items = append(items, room)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate rooms: %w", rows.Err())
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repo) scanProperty(row rowScanner, op string) (Property, error) {
	var prop Property
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&prop.ID, &prop.Name, &prop.Address, &prop.PropertyType, &prop.Rating,
		&prop.Amenities, &prop.Description, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, err
		}
		return Property{}, fmt.Errorf("%s: %w", op, err)
	}
	prop.CreatedAt = createdAt.Format(time.RFC3339)
	prop.UpdatedAt = updatedAt.Format(time.RFC3339)
	return prop, nil
}

func (r *Repo) scanRoom(row rowScanner, op string) (Room, error) {
	var room Room
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&room.ID, &room.PropertyID, &room.Name, &room.RoomType, &room.Capacity,
		&room.PricePerNight, &room.Status, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Room{}, err
		}
		return Room{}, fmt.Errorf("%s: %w", op, err)
	}
	room.CreatedAt = createdAt.Format(time.RFC3339)
	room.UpdatedAt = updatedAt.Format(time.RFC3339)
	return room, nil
}
