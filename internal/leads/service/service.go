// Package service implements lead business logic: enquiry intake with phone
// normalization and the admin triage lifecycle.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/internal/leads/repository"
	"staykedarnath_backend/internal/leads/transport"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/logger"
)

// defaultRegion is the region used to parse phone numbers without a country
// code. The booking site serves Indian pilgrims almost exclusively.
const defaultRegion = "IN"

// Service provides business logic for leads.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// NormalizePhone parses a phone number and returns it in E.164 form.
// Numbers without a country code are parsed as Indian numbers.
func NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), defaultRegion)
	if err != nil {
		return "", apperr.Validation("invalid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", apperr.Validation("invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// CreateLead records a stay enquiry and notifies the admin channel.
func (s *Service) CreateLead(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	groupSize := req.GroupSize
	if groupSize < 1 {
		groupSize = 1
	}

	lead, err := s.repo.CreateLead(ctx, repository.CreateLeadParams{
		Name:       strings.TrimSpace(req.Name),
		Phone:      phone,
		Email:      strings.TrimSpace(req.Email),
		Message:    req.Message,
		TravelDate: req.TravelDate,
		GroupSize:  groupSize,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Phone:     lead.Phone,
		Email:     lead.Email,
	})

	s.log.Info("lead created", "id", lead.ID)
	return toLeadResponse(lead), nil
}

// ListLeads lists leads for the admin panel.
func (s *Service) ListLeads(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	items, total, err := s.repo.ListLeads(ctx, repository.ListLeadsParams{
		Status: req.Status,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	resp := transport.LeadListResponse{
		Items:    make([]transport.LeadResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, lead := range items {
		resp.Items = append(resp.Items, toLeadResponse(lead))
	}
	return resp, nil
}

// GetLeadByID retrieves a lead.
func (s *Service) GetLeadByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetLeadByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// UpdateLeadStatus moves a lead through the triage lifecycle.
func (s *Service) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status string) (transport.LeadResponse, error) {
	if !repository.ValidStatus(status) {
		return transport.LeadResponse{}, apperr.Validation("invalid lead status")
	}

	lead, err := s.repo.UpdateLeadStatus(ctx, id, status)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	s.log.Info("lead status changed", "id", id, "status", status)
	return toLeadResponse(lead), nil
}

// DeleteLead removes a lead.
func (s *Service) DeleteLead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteLead(ctx, id); err != nil {
		return err
	}
	s.log.Info("lead deleted", "id", id)
	return nil
}

func toLeadResponse(l repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Phone:      l.Phone,
		Email:      l.Email,
		Message:    l.Message,
		TravelDate: l.TravelDate,
		GroupSize:  l.GroupSize,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
