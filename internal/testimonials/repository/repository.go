// Package repository provides the data access layer for testimonials.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staykedarnath_backend/platform/apperr"
)

const testimonialNotFoundMessage = "testimonial not found"

// Testimonial is a guest review shown on the public site once approved.
type Testimonial struct {
	ID        uuid.UUID `db:"id"`
	GuestName string    `db:"guest_name"`
	Location  *string   `db:"location"`
	Rating    int       `db:"rating"` // 1..5
	Content   string    `db:"content"`
	Approved  bool      `db:"approved"`
	CreatedAt string    `db:"created_at"`
}

// CreateParams contains data for submitting a testimonial.
type CreateParams struct {
	GuestName string
	Location  *string
	Rating    int
	Content   string
}

// Repository defines data access for testimonials.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Testimonial, error)
	List(ctx context.Context, approvedOnly bool) ([]Testimonial, error)
	Approve(ctx context.Context, id uuid.UUID) (Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const testimonialColumns = `id, guest_name, location, rating, content, approved, created_at`

// Repo implements the testimonials repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new testimonials repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts an unapproved testimonial.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Testimonial, error) {
	query := fmt.Sprintf(`
		INSERT INTO testimonials (guest_name, location, rating, content, approved)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING %s`, testimonialColumns)

	testimonial, err := scanTestimonial(r.pool.QueryRow(ctx, query,
		params.GuestName, params.Location, params.Rating, params.Content,
	))
	if err != nil {
		return Testimonial{}, fmt.Errorf("create testimonial: %w", err)
	}
	return testimonial, nil
}

// List returns testimonials, optionally only approved ones, newest first.
func (r *Repo) List(ctx context.Context, approvedOnly bool) ([]Testimonial, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM testimonials
		WHERE ($1 = FALSE OR approved = TRUE)
		ORDER BY created_at DESC`, testimonialColumns)

	rows, err := r.pool.Query(ctx, query, approvedOnly)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	items := make([]Testimonial, 0)
	for rows.Next() {
		testimonial, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, testimonial)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate testimonials: %w", rows.Err())
	}
	return items, nil
}

// Approve marks a testimonial as visible on the public site.
func (r *Repo) Approve(ctx context.Context, id uuid.UUID) (Testimonial, error) {
	query := fmt.Sprintf(`
		UPDATE testimonials
		SET approved = TRUE
		WHERE id = $1
		RETURNING %s`, testimonialColumns)

	testimonial, err := scanTestimonial(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Testimonial{}, apperr.NotFound(testimonialNotFoundMessage)
		}
		return Testimonial{}, fmt.Errorf("approve testimonial: %w", err)
	}
	return testimonial, nil
}

// Delete removes a testimonial.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(testimonialNotFoundMessage)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTestimonial(row rowScanner) (Testimonial, error) {
	var t Testimonial
	var createdAt time.Time
	if err := row.Scan(
		&t.ID, &t.GuestName, &t.Location, &t.Rating, &t.Content, &t.Approved, &createdAt,
	); err != nil {
		return Testimonial{}, err
	}
	t.CreatedAt = createdAt.Format(time.RFC3339)
	return t, nil
}
