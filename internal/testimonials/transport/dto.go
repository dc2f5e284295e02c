// Package transport defines request/response DTOs for testimonials.
package transport

import "github.com/google/uuid"

// SubmitTestimonialRequest is the public submission payload.
type SubmitTestimonialRequest struct {
	GuestName string  `json:"guestName" validate:"required,min=2,max=200"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Rating    int     `json:"rating" validate:"required,gte=1,lte=5"`
	Content   string  `json:"content" validate:"required,min=10,max=2000"`
}

// TestimonialResponse is the API shape of a testimonial.
type TestimonialResponse struct {
	ID        uuid.UUID `json:"id"`
	GuestName string    `json:"guestName"`
	Location  *string   `json:"location,omitempty"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved"`
	CreatedAt string    `json:"createdAt"`
}
