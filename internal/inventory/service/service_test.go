package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/internal/inventory/repository"
	"staykedarnath_backend/internal/inventory/transport"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
)

type stubRepo struct {
	properties map[uuid.UUID]repository.Property
	rooms      map[uuid.UUID]repository.Room

	listCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		properties: make(map[uuid.UUID]repository.Property),
		rooms:      make(map[uuid.UUID]repository.Room),
	}
}

func (r *stubRepo) CreateProperty(_ context.Context, params repository.CreatePropertyParams) (repository.Property, error) {
	p := repository.Property{
		ID:           uuid.New(),
		Name:         params.Name,
		Address:      params.Address,
		PropertyType: params.PropertyType,
		Rating:       params.Rating,
		Amenities:    params.Amenities,
		Description:  params.Description,
		CreatedAt:    time.Now().Format(time.RFC3339),
		UpdatedAt:    time.Now().Format(time.RFC3339),
	}
	r.properties[p.ID] = p
	return p, nil
}

func (r *stubRepo) UpdateProperty(_ context.Context, params repository.UpdatePropertyParams) (repository.Property, error) {
	p, ok := r.properties[params.ID]
	if !ok {
		return repository.Property{}, apperr.NotFound("property not found")
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Rating != nil {
		p.Rating = *params.Rating
	}
	r.properties[params.ID] = p
	return p, nil
}

func (r *stubRepo) DeleteProperty(_ context.Context, id uuid.UUID) error {
	if _, ok := r.properties[id]; !ok {
		return apperr.NotFound("property not found")
	}
	delete(r.properties, id)
	return nil
}

func (r *stubRepo) GetPropertyByID(_ context.Context, id uuid.UUID) (repository.Property, error) {
	p, ok := r.properties[id]
	if !ok {
		return repository.Property{}, apperr.NotFound("property not found")
	}
	return p, nil
}

func (r *stubRepo) ListProperties(_ context.Context, _ repository.ListPropertiesParams) ([]repository.Property, int, error) {
	r.listCalls++
	out := []repository.Property{}
	for _, p := range r.properties {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *stubRepo) CreateRoom(_ context.Context, params repository.CreateRoomParams) (repository.Room, error) {
	room := repository.Room{
		ID:            uuid.New(),
		PropertyID:    params.PropertyID,
		Name:          params.Name,
		RoomType:      params.RoomType,
		Capacity:      params.Capacity,
		PricePerNight: params.PricePerNight,
		Status:        params.Status,
		CreatedAt:     time.Now().Format(time.RFC3339),
		UpdatedAt:     time.Now().Format(time.RFC3339),
	}
	r.rooms[room.ID] = room
	return room, nil
}

func (r *stubRepo) UpdateRoom(_ context.Context, params repository.UpdateRoomParams) (repository.Room, error) {
	room, ok := r.rooms[params.ID]
	if !ok {
		return repository.Room{}, apperr.NotFound("room not found")
	}
	if params.Status != nil {
		room.Status = *params.Status
	}
	r.rooms[params.ID] = room
	return room, nil
}

func (r *stubRepo) DeleteRoom(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rooms[id]; !ok {
		return apperr.NotFound("room not found")
	}
	delete(r.rooms, id)
	return nil
}

func (r *stubRepo) GetRoomByID(_ context.Context, id uuid.UUID) (repository.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return repository.Room{}, apperr.NotFound("room not found")
	}
	return room, nil
}

func (r *stubRepo) ListRoomsByProperty(_ context.Context, propertyID uuid.UUID) ([]repository.Room, error) {
	out := []repository.Room{}
	for _, room := range r.rooms {
		if room.PropertyID == propertyID {
			out = append(out, room)
		}
	}
	return out, nil
}

type recordingBus struct {
	names []string
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.names = append(b.names, event.EventName())
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService() (*Service, *stubRepo, *recordingBus, *cache.Memory) {
	repo := newStubRepo()
	bus := &recordingBus{}
	mem := cache.NewMemory(time.Minute, nil)
	return New(repo, mem, bus, logger.New("development")), repo, bus, mem
}

func createProperty(t *testing.T, svc *Service) transport.PropertyResponse {
	t.Helper()
	prop, err := svc.CreateProperty(context.Background(), transport.CreatePropertyRequest{
		Name:         "Himalayan View",
		Address:      "Kedarnath Road",
		PropertyType: "hotel",
		Rating:       4.2,
		Amenities:    []string{"WiFi", "wifi ", "Parking"},
	})
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
	return prop
}

func TestCreatePropertyNormalizesAmenities(t *testing.T) {
	svc, _, bus, _ := newTestService()

	prop := createProperty(t, svc)
	if len(prop.Amenities) != 2 {
		t.Fatalf("amenities = %v, want deduped lowercase pair", prop.Amenities)
	}
	if prop.Amenities[0] != "wifi" || prop.Amenities[1] != "parking" {
		t.Fatalf("amenities = %v", prop.Amenities)
	}
	if len(bus.names) != 1 || bus.names[0] != "inventory.property.changed" {
		t.Fatalf("events = %v", bus.names)
	}
}

func TestListPropertiesReadThroughCache(t *testing.T) {
	svc, repo, _, _ := newTestService()
	createProperty(t, svc)

	if _, err := svc.ListProperties(context.Background(), transport.ListPropertiesRequest{}); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := svc.ListProperties(context.Background(), transport.ListPropertiesRequest{}); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("repo list calls = %d, want 1 (second read cached)", repo.listCalls)
	}

	// Filtered listings bypass the cache.
	if _, err := svc.ListProperties(context.Background(), transport.ListPropertiesRequest{Location: "Kedarnath"}); err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("repo list calls = %d, want 2 after filtered query", repo.listCalls)
	}
}

func TestPropertyMutationInvalidatesListCache(t *testing.T) {
	svc, repo, _, _ := newTestService()
	prop := createProperty(t, svc)

	if _, err := svc.ListProperties(context.Background(), transport.ListPropertiesRequest{}); err != nil {
		t.Fatalf("list: %v", err)
	}

	name := "Himalayan View Deluxe"
	if _, err := svc.UpdateProperty(context.Background(), prop.ID, transport.UpdatePropertyRequest{Name: &name}); err != nil {
		t.Fatalf("UpdateProperty: %v", err)
	}

	resp, err := svc.ListProperties(context.Background(), transport.ListPropertiesRequest{})
	if err != nil {
		t.Fatalf("list after update: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("repo list calls = %d, want 2 (cache invalidated by update)", repo.listCalls)
	}
	if resp.Items[0].Name != name {
		t.Fatalf("stale name %q after update", resp.Items[0].Name)
	}
}

func TestCreateRoomRequiresProperty(t *testing.T) {
	svc, _, _, _ := newTestService()

	missing := uuid.New()
	_, err := svc.CreateRoom(context.Background(), missing, transport.CreateRoomRequest{
		Name:          "101",
		RoomType:      "deluxe",
		Capacity:      2,
		PricePerNight: 250000,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("err is not *apperr.Error: %v", err)
	}
	want := "Property with ID " + missing.String() + " not found"
	if appErr.Message != want {
		t.Fatalf("message = %q, want %q", appErr.Message, want)
	}
}

func TestRoomMutationInvalidatesRoomCache(t *testing.T) {
	svc, _, bus, mem := newTestService()
	prop := createProperty(t, svc)

	created, err := svc.CreateRoom(context.Background(), prop.ID, transport.CreateRoomRequest{
		Name:          "101",
		RoomType:      "deluxe",
		Capacity:      2,
		PricePerNight: 250000,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if _, err := svc.ListRoomsByProperty(context.Background(), prop.ID); err != nil {
		t.Fatalf("ListRoomsByProperty: %v", err)
	}
	if _, ok := mem.Get(context.Background(), cache.PrefixRooms+prop.ID.String()); !ok {
		t.Fatal("rooms not cached after listing")
	}

	status := repository.RoomStatusMaintenance
	if _, err := svc.UpdateRoom(context.Background(), created.ID, transport.UpdateRoomRequest{Status: &status}); err != nil {
		t.Fatalf("UpdateRoom: %v", err)
	}
	if _, ok := mem.Get(context.Background(), cache.PrefixRooms+prop.ID.String()); ok {
		t.Fatal("rooms cache survived a status change")
	}

	last := bus.names[len(bus.names)-1]
	if last != "inventory.room.changed" {
		t.Fatalf("last event = %q, want inventory.room.changed", last)
	}
}

func TestUpdateRoomRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestService()
	prop := createProperty(t, svc)

	created, err := svc.CreateRoom(context.Background(), prop.ID, transport.CreateRoomRequest{
		Name:          "101",
		RoomType:      "deluxe",
		Capacity:      2,
		PricePerNight: 250000,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	bogus := "under_water"
	if _, err := svc.UpdateRoom(context.Background(), created.ID, transport.UpdateRoomRequest{Status: &bogus}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
