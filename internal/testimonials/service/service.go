// Package service implements testimonial submission and moderation.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/internal/testimonials/repository"
	"staykedarnath_backend/internal/testimonials/transport"
	"staykedarnath_backend/platform/logger"
)

// Service provides business logic for testimonials.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new testimonials service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Submit records a guest testimonial. It stays hidden until approved.
func (s *Service) Submit(ctx context.Context, req transport.SubmitTestimonialRequest) (transport.TestimonialResponse, error) {
	testimonial, err := s.repo.Create(ctx, repository.CreateParams{
		GuestName: strings.TrimSpace(req.GuestName),
		Location:  req.Location,
		Rating:    req.Rating,
		Content:   strings.TrimSpace(req.Content),
	})
	if err != nil {
		return transport.TestimonialResponse{}, err
	}

	s.bus.Publish(ctx, events.TestimonialSubmitted{
		BaseEvent:     events.NewBaseEvent(),
		TestimonialID: testimonial.ID,
		GuestName:     testimonial.GuestName,
	})

	s.log.Info("testimonial submitted", "id", testimonial.ID)
	return toResponse(testimonial), nil
}

// ListApproved returns the testimonials visible on the public site.
func (s *Service) ListApproved(ctx context.Context) ([]transport.TestimonialResponse, error) {
	return s.list(ctx, true)
}

// ListAll returns every testimonial for moderation.
func (s *Service) ListAll(ctx context.Context) ([]transport.TestimonialResponse, error) {
	return s.list(ctx, false)
}

func (s *Service) list(ctx context.Context, approvedOnly bool) ([]transport.TestimonialResponse, error) {
	items, err := s.repo.List(ctx, approvedOnly)
	if err != nil {
		return nil, err
	}
	out := make([]transport.TestimonialResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out, nil
}

// Approve makes a testimonial publicly visible.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (transport.TestimonialResponse, error) {
	testimonial, err := s.repo.Approve(ctx, id)
	if err != nil {
		return transport.TestimonialResponse{}, err
	}
	s.log.Info("testimonial approved", "id", id)
	return toResponse(testimonial), nil
}

// Delete removes a testimonial.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("testimonial deleted", "id", id)
	return nil
}

func toResponse(t repository.Testimonial) transport.TestimonialResponse {
	return transport.TestimonialResponse{
		ID:        t.ID,
		GuestName: t.GuestName,
		Location:  t.Location,
		Rating:    t.Rating,
		Content:   t.Content,
		Approved:  t.Approved,
		CreatedAt: t.CreatedAt,
	}
}
