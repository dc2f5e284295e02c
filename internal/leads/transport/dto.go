// Package transport defines request/response DTOs for the leads module.
package transport

import "github.com/google/uuid"

// CreateLeadRequest is the public enquiry payload. The phone number is
// normalized to E.164 by the service; Indian numbers may omit the country
// code.
type CreateLeadRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=200"`
	Phone      string  `json:"phone" validate:"required,min=6,max=20"`
	Email      string  `json:"email" validate:"required,email"`
	Message    *string `json:"message,omitempty" validate:"omitempty,max=2000"`
	TravelDate *string `json:"travelDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GroupSize  int     `json:"groupSize" validate:"omitempty,gte=1,lte=100"`
}

// UpdateLeadStatusRequest sets a lead's status.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted converted closed"`
}

// ListLeadsRequest holds query filters for lead listing.
type ListLeadsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=new contacted converted closed"`
	Page     int    `form:"page" validate:"gte=0"`
	PageSize int    `form:"pageSize" validate:"gte=0,lte=100"`
}

// LeadResponse is the API shape of a lead.
type LeadResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Message    *string   `json:"message,omitempty"`
	TravelDate *string   `json:"travelDate,omitempty"`
	GroupSize  int       `json:"groupSize"`
	Status     string    `json:"status"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

// LeadListResponse is a paginated lead list.
type LeadListResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
