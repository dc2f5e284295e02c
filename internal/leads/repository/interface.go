package repository

import (
	"context"

	"github.com/google/uuid"
)

// Lead status values.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusClosed    = "closed"
)

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusClosed:
		return true
	}
	return false
}

// Lead is a stay enquiry from the public site. Phone is stored in E.164 form.
type Lead struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Phone      string    `db:"phone"`
	Email      string    `db:"email"`
	Message    *string   `db:"message"`
	TravelDate *string   `db:"travel_date"` // YYYY-MM-DD
	GroupSize  int       `db:"group_size"`
	Status     string    `db:"status"`
	CreatedAt  string    `db:"created_at"`
	UpdatedAt  string    `db:"updated_at"`
}

// CreateLeadParams contains data for creating a lead.
type CreateLeadParams struct {
	Name       string
	Phone      string
	Email      string
	Message    *string
	TravelDate *string
	GroupSize  int
}

// ListLeadsParams defines filters for listing leads.
type ListLeadsParams struct {
	Status string
	Offset int
	Limit  int
}

// Repository defines data access for leads.
type Repository interface {
	CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
	ListLeads(ctx context.Context, params ListLeadsParams) ([]Lead, int, error)
	UpdateLeadStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID) error
}
