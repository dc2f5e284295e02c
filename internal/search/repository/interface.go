package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RoomResult is one bookable room joined with its property, as returned by
// the availability queries.
type RoomResult struct {
	RoomID        uuid.UUID `json:"roomId"`
	RoomName      string    `json:"roomName"`
	RoomType      string    `json:"roomType"`
	Capacity      int       `json:"capacity"`
	PricePerNight int64     `json:"pricePerNight"` // paise
	PropertyID    uuid.UUID `json:"propertyId"`
	PropertyName  string    `json:"propertyName"`
	PropertyType  string    `json:"propertyType"`
	Rating        float64   `json:"rating"`
	Address       string    `json:"address"`
	Amenities     []string  `json:"amenities"`
}

// RoomSearchParams are the normalized inputs for a room availability search.
// The date range is half-open: a stay occupies [CheckIn, CheckOut).
type RoomSearchParams struct {
	Location string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// CandidateParams filter rooms for the property search. Amenity matching is
// not pushed into SQL; the service applies it after the rows come back.
type CandidateParams struct {
	Location     string
	Guests       int
	PropertyType string
	MinRating    float64
}

// AvailabilityResolver is the primary availability path, backed by the
// database-side find_available_rooms function.
type AvailabilityResolver interface {
	FindAvailableRooms(ctx context.Context, params RoomSearchParams) ([]RoomResult, error)
}

// Store is the local data access the service falls back to when the resolver
// fails, and the source for the property search.
type Store interface {
	// ListAvailableRooms returns every room whose operational status is
	// available, joined with its property.
	ListAvailableRooms(ctx context.Context) ([]RoomResult, error)

	// ConflictingRoomIDs returns the subset of roomIDs that have a blocking
	// booking overlapping [from, to).
	ConflictingRoomIDs(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]struct{}, error)

	// ListCandidateRooms returns available rooms matching the property search
	// filters, ordered by property name for stable grouping.
	ListCandidateRooms(ctx context.Context, params CandidateParams) ([]RoomResult, error)
}
