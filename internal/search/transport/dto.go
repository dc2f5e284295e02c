// Package transport defines request/response DTOs for availability search.
package transport

import (
	"github.com/google/uuid"
)

// SearchRoomsRequest holds the query parameters for a room availability
// search. Dates are calendar dates in "YYYY-MM-DD" form, check-out exclusive.
type SearchRoomsRequest struct {
	Location string `form:"location" validate:"omitempty,max=200"`
	CheckIn  string `form:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `form:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests   int    `form:"guests" validate:"omitempty,gte=1,lte=20"`
}

// SearchPropertiesRequest holds the query parameters for a property search.
// Dates bound the stay the caller is shopping for; rooms with a blocking
// booking in that range do not count toward a property's result.
type SearchPropertiesRequest struct {
	Location     string   `form:"location" validate:"omitempty,max=200"`
	CheckIn      string   `form:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut     string   `form:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests       int      `form:"guests" validate:"omitempty,gte=1,lte=20"`
	PropertyType string   `form:"propertyType" validate:"omitempty,oneof=hotel guesthouse homestay lodge camp"`
	MinRating    float64  `form:"minRating" validate:"omitempty,gte=0,lte=5"`
	Amenities    []string `form:"amenities" validate:"omitempty,max=20,dive,max=50"`
}

// RoomResult is one available room with its property context.
type RoomResult struct {
	RoomID        uuid.UUID `json:"roomId"`
	RoomName      string    `json:"roomName"`
	RoomType      string    `json:"roomType"`
	Capacity      int       `json:"capacity"`
	PricePerNight int64     `json:"pricePerNight"`
	PropertyID    uuid.UUID `json:"propertyId"`
	PropertyName  string    `json:"propertyName"`
	PropertyType  string    `json:"propertyType"`
	Rating        float64   `json:"rating"`
	Address       string    `json:"address"`
	Amenities     []string  `json:"amenities"`
}

// SearchRoomsResponse is the room search result set. Degraded is true when
// both the primary resolver and the local fallback failed and the list is
// empty for operational rather than availability reasons.
type SearchRoomsResponse struct {
	Rooms    []RoomResult `json:"rooms"`
	Count    int          `json:"count"`
	Degraded bool         `json:"degraded,omitempty"`
}

// PropertyResult is one property aggregated from its matching rooms.
type PropertyResult struct {
	PropertyID   uuid.UUID `json:"propertyId"`
	Name         string    `json:"name"`
	PropertyType string    `json:"propertyType"`
	Rating       float64   `json:"rating"`
	Address      string    `json:"address"`
	Amenities    []string  `json:"amenities"`
	LowestPrice  int64     `json:"lowestPrice"`
	RoomCount    int       `json:"roomCount"`
}

// SearchPropertiesResponse is the property search result set. Degraded is
// true when the backend failed and the empty list is operational rather than
// a genuine absence of stays.
type SearchPropertiesResponse struct {
	Properties []PropertyResult `json:"properties"`
	Count      int              `json:"count"`
	Degraded   bool             `json:"degraded,omitempty"`
}
