// Package transport defines request/response DTOs for the inventory module.
package transport

import "github.com/google/uuid"

// CreatePropertyRequest is the payload for creating a property.
type CreatePropertyRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=200"`
	Address      string   `json:"address" validate:"required,min=2,max=500"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=hotel guesthouse homestay lodge camp"`
	Rating       float64  `json:"rating" validate:"gte=0,lte=5"`
	Amenities    []string `json:"amenities" validate:"dive,min=1,max=60"`
	Description  *string  `json:"description,omitempty"`
}

// UpdatePropertyRequest is the payload for updating a property.
type UpdatePropertyRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,min=2,max=500"`
	PropertyType *string  `json:"propertyType,omitempty" validate:"omitempty,oneof=hotel guesthouse homestay lodge camp"`
	Rating       *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Amenities    []string `json:"amenities,omitempty" validate:"omitempty,dive,min=1,max=60"`
	Description  *string  `json:"description,omitempty"`
}

// ListPropertiesRequest holds query filters for property listing.
type ListPropertiesRequest struct {
	Location     string  `form:"location"`
	PropertyType string  `form:"propertyType" validate:"omitempty,oneof=hotel guesthouse homestay lodge camp"`
	MinRating    float64 `form:"minRating" validate:"gte=0,lte=5"`
	Page         int     `form:"page" validate:"gte=0"`
	PageSize     int     `form:"pageSize" validate:"gte=0,lte=100"`
}

// PropertyResponse is the API shape of a property.
type PropertyResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	PropertyType string    `json:"propertyType"`
	Rating       float64   `json:"rating"`
	Amenities    []string  `json:"amenities"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// PropertyListResponse is a paginated property list.
type PropertyListResponse struct {
	Items    []PropertyResponse `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

// PropertyDetailResponse is a property together with its rooms.
type PropertyDetailResponse struct {
	PropertyResponse
	Rooms []RoomResponse `json:"rooms"`
}

// CreateRoomRequest is the payload for creating a room.
type CreateRoomRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	RoomType      string `json:"roomType" validate:"required,min=1,max=100"`
	Capacity      int    `json:"capacity" validate:"required,gte=1,lte=20"`
	PricePerNight int64  `json:"pricePerNight" validate:"required,gte=0"`
	Status        string `json:"status" validate:"omitempty,oneof=available occupied maintenance cleaning"`
}

// UpdateRoomRequest is the payload for updating a room.
type UpdateRoomRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	RoomType      *string `json:"roomType,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity      *int    `json:"capacity,omitempty" validate:"omitempty,gte=1,lte=20"`
	PricePerNight *int64  `json:"pricePerNight,omitempty" validate:"omitempty,gte=0"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance cleaning"`
}

// RoomResponse is the API shape of a room.
type RoomResponse struct {
	ID            uuid.UUID `json:"id"`
	PropertyID    uuid.UUID `json:"propertyId"`
	Name          string    `json:"name"`
	RoomType      string    `json:"roomType"`
	Capacity      int       `json:"capacity"`
	PricePerNight int64     `json:"pricePerNight"`
	Status        string    `json:"status"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}
