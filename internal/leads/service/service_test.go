package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/internal/leads/repository"
	"staykedarnath_backend/internal/leads/transport"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/logger"
)

type stubRepo struct {
	leads map[uuid.UUID]repository.Lead
}

func newStubRepo() *stubRepo {
	return &stubRepo{leads: make(map[uuid.UUID]repository.Lead)}
}

func (r *stubRepo) CreateLead(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:         uuid.New(),
		Name:       params.Name,
		Phone:      params.Phone,
		Email:      params.Email,
		Message:    params.Message,
		TravelDate: params.TravelDate,
		GroupSize:  params.GroupSize,
		Status:     repository.StatusNew,
		CreatedAt:  time.Now().Format(time.RFC3339),
		UpdatedAt:  time.Now().Format(time.RFC3339),
	}
	r.leads[lead.ID] = lead
	return lead, nil
}

func (r *stubRepo) GetLeadByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (r *stubRepo) ListLeads(_ context.Context, params repository.ListLeadsParams) ([]repository.Lead, int, error) {
	out := []repository.Lead{}
	for _, lead := range r.leads {
		if params.Status != "" && lead.Status != params.Status {
			continue
		}
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (r *stubRepo) UpdateLeadStatus(_ context.Context, id uuid.UUID, status string) (repository.Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.Status = status
	r.leads[id] = lead
	return lead, nil
}

func (r *stubRepo) DeleteLead(_ context.Context, id uuid.UUID) error {
	if _, ok := r.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(r.leads, id)
	return nil
}

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService() (*Service, *stubRepo, *recordingBus) {
	repo := newStubRepo()
	bus := &recordingBus{}
	return New(repo, bus, logger.New("development")), repo, bus
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"098765 43210", "+919876543210"},
		{"+91 98765 43210", "+919876543210"},
		{"+44 20 7946 0958", "+442079460958"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if err != nil {
			t.Fatalf("NormalizePhone(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneRejectsGarbage(t *testing.T) {
	for _, in := range []string{"12", "not-a-number", "+91 12"} {
		if _, err := NormalizePhone(in); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("NormalizePhone(%q) err = %v, want validation error", in, err)
		}
	}
}

func TestCreateLeadNormalizesPhoneAndPublishes(t *testing.T) {
	svc, _, bus := newTestService()

	resp, err := svc.CreateLead(context.Background(), transport.CreateLeadRequest{
		Name:  "Ravi Negi",
		Phone: "98765 43210",
		Email: "ravi@example.com",
	})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if resp.Phone != "+919876543210" {
		t.Fatalf("phone = %q, want E.164 form", resp.Phone)
	}
	if resp.Status != repository.StatusNew {
		t.Fatalf("status = %q, want new", resp.Status)
	}
	if resp.GroupSize != 1 {
		t.Fatalf("groupSize = %d, want default 1", resp.GroupSize)
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != "leads.lead.created" {
		t.Fatalf("published events = %v", bus.events)
	}
}

func TestCreateLeadRejectsInvalidPhone(t *testing.T) {
	svc, repo, bus := newTestService()

	_, err := svc.CreateLead(context.Background(), transport.CreateLeadRequest{
		Name:  "Ravi Negi",
		Phone: "123",
		Email: "ravi@example.com",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(repo.leads) != 0 {
		t.Fatal("lead persisted despite invalid phone")
	}
	if len(bus.events) != 0 {
		t.Fatal("event published despite invalid phone")
	}
}

func TestUpdateLeadStatus(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateLead(context.Background(), transport.CreateLeadRequest{
		Name:  "Ravi Negi",
		Phone: "9876543210",
		Email: "ravi@example.com",
	})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}

	updated, err := svc.UpdateLeadStatus(context.Background(), created.ID, repository.StatusContacted)
	if err != nil {
		t.Fatalf("UpdateLeadStatus: %v", err)
	}
	if updated.Status != repository.StatusContacted {
		t.Fatalf("status = %q, want contacted", updated.Status)
	}

	if _, err := svc.UpdateLeadStatus(context.Background(), created.ID, "bogus"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("bogus status err = %v, want validation error", err)
	}
}
