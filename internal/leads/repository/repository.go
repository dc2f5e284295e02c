// Package repository provides the data access layer for leads.
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

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, name, phone, email, message, travel_date, group_size, status, created_at, updated_at`

// Repo implements the leads repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// CreateLead inserts a lead with status new.
func (r *Repo) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	query := fmt.Sprintf(`
		INSERT INTO leads (name, phone, email, message, travel_date, group_size, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'new')
		RETURNING %s`, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		params.Name, params.Phone, params.Email, params.Message, params.TravelDate, params.GroupSize,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetLeadByID retrieves a lead by ID.
func (r *Repo) GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// ListLeads lists leads with an optional status filter, newest first.
func (r *Repo) ListLeads(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}
	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, leadColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", rows.Err())
	}
	return items, total, nil
}

// UpdateLeadStatus sets a lead's status.
func (r *Repo) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error) {
	query := fmt.Sprintf(`
		UPDATE leads
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead status: %w", err)
	}
	return lead, nil
}

// DeleteLead removes a lead.
func (r *Repo) DeleteLead(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var l Lead
	var travelDate *time.Time
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&l.ID, &l.Name, &l.Phone, &l.Email, &l.Message, &travelDate, &l.GroupSize, &l.Status,
		&createdAt, &updatedAt,
	); err != nil {
		return Lead{}, err
	}
	if travelDate != nil {
		formatted := travelDate.Format(time.DateOnly)
		l.TravelDate = &formatted
	}
	l.CreatedAt = createdAt.Format(time.RFC3339)
	l.UpdatedAt = updatedAt.Format(time.RFC3339)
	return l, nil
}
