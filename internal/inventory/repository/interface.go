package repository

import (
	"context"

	"github.com/google/uuid"
)

// Room status values. Only available rooms are eligible for search.
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
	RoomStatusCleaning    = "cleaning"
)

// ValidRoomStatus reports whether s is a known room status.
func ValidRoomStatus(s string) bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusCleaning:
		return true
	}
	return false
}

// Property represents a stay property (hotel, guest house, homestay).
type Property struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Address      string    `db:"address"`
	PropertyType string    `db:"property_type"`
	Rating       float64   `db:"rating"`
	Amenities    []string  `db:"amenities"`
	Description  *string   `db:"description"`
	CreatedAt    string    `db:"created_at"`
	UpdatedAt    string    `db:"updated_at"`
}

// Room belongs to exactly one property.
type Room struct {
	ID            uuid.UUID `db:"id"`
	PropertyID    uuid.UUID `db:"property_id"`
	Name          string    `db:"name"`
	RoomType      string    `db:"room_type"`
	Capacity      int       `db:"capacity"`
	PricePerNight int64     `db:"price_per_night"` // paise
	Status        string    `db:"status"`
	CreatedAt     string    `db:"created_at"`
	UpdatedAt     string    `db:"updated_at"`
}

// CreatePropertyParams contains data for creating a property.
type CreatePropertyParams struct {
	Name         string
	Address      string
	PropertyType string
	Rating       float64
	Amenities    []string
	Description  *string
}

// UpdatePropertyParams contains data for updating a property.
// Nil fields are left unchanged.
type UpdatePropertyParams struct {
	ID           uuid.UUID
	Name         *string
	Address      *string
	PropertyType *string
	Rating       *float64
	Amenities    []string
	Description  *string
}

// ListPropertiesParams defines filters for listing properties.
type ListPropertiesParams struct {
	LocationText string
	PropertyType string
	MinRating    float64
	Offset       int
	Limit        int
}

// CreateRoomParams contains data for creating a room.
type CreateRoomParams struct {
	PropertyID    uuid.UUID
	Name          string
	RoomType      string
	Capacity      int
	PricePerNight int64
	Status        string
}

// UpdateRoomParams contains data for updating a room.
type UpdateRoomParams struct {
	ID            uuid.UUID
	Name          *string
	RoomType      *string
	Capacity      *int
	PricePerNight *int64
	Status        *string
}

// Repository defines data access for properties and rooms.
type Repository interface {
	CreateProperty(ctx context.Context, params CreatePropertyParams) (Property, error)
	UpdateProperty(ctx context.Context, params UpdatePropertyParams) (Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	GetPropertyByID(ctx context.Context, id uuid.UUID) (Property, error)
	ListProperties(ctx context.Context, params ListPropertiesParams) ([]Property, int, error)

	CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error)
	UpdateRoom(ctx context.Context, params UpdateRoomParams) (Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	GetRoomByID(ctx context.Context, id uuid.UUID) (Room, error)
	ListRoomsByProperty(ctx context.Context, propertyID uuid.UUID) ([]Room, error)
}
