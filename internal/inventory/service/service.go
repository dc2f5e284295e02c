// Package service implements inventory business logic: property and room
// management with read-through caching and change events.
package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/events"
	"staykedarnath_backend/internal/inventory/repository"
	"staykedarnath_backend/internal/inventory/transport"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
)

// Service provides business logic for inventory.
type Service struct {
	repo  repository.Repository
	cache cache.Cache
	bus   events.Bus
	log   *logger.Logger
}

// New creates a new inventory service.
func New(repo repository.Repository, c cache.Cache, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: c, bus: bus, log: log}
}

const allPropertiesKey = cache.PrefixProperties + "all"

func roomsKey(propertyID uuid.UUID) string {
	return cache.PrefixRooms + propertyID.String()
}

// ListProperties retrieves properties with optional filters. The unfiltered
// first page is served read-through from the cache; filtered queries go
// straight to the store.
func (s *Service) ListProperties(ctx context.Context, req transport.ListPropertiesRequest) (transport.PropertyListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	unfiltered := req.Location == "" && req.PropertyType == "" && req.MinRating == 0 && page == 1 && pageSize == 50
	if unfiltered {
		if payload, ok := s.cache.Get(ctx, allPropertiesKey); ok {
			var cached transport.PropertyListResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				s.log.CacheEvent("hit", allPropertiesKey)
				return cached, nil
			}
		}
	}

	items, total, err := s.repo.ListProperties(ctx, repository.ListPropertiesParams{
		LocationText: strings.TrimSpace(req.Location),
		PropertyType: req.PropertyType,
		MinRating:    req.MinRating,
		Offset:       (page - 1) * pageSize,
		Limit:        pageSize,
	})
	if err != nil {
		return transport.PropertyListResponse{}, err
	}

	resp := toPropertyListResponse(items, total, page, pageSize)
	if unfiltered {
		if payload, err := json.Marshal(resp); err == nil {
			s.cache.Set(ctx, allPropertiesKey, payload)
			s.log.CacheEvent("set", allPropertiesKey)
		}
	}
	return resp, nil
}

// GetPropertyByID retrieves a single property.
func (s *Service) GetPropertyByID(ctx context.Context, id uuid.UUID) (transport.PropertyResponse, error) {
	prop, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		return transport.PropertyResponse{}, err
	}
	return toPropertyResponse(prop), nil
}

// GetPropertyDetail retrieves a property with its rooms. The room list is
// cached per property.
func (s *Service) GetPropertyDetail(ctx context.Context, id uuid.UUID) (transport.PropertyDetailResponse, error) {
	prop, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		return transport.PropertyDetailResponse{}, err
	}

	rooms, err := s.listRoomsCached(ctx, id)
	if err != nil {
		return transport.PropertyDetailResponse{}, err
	}

	return transport.PropertyDetailResponse{
		PropertyResponse: toPropertyResponse(prop),
		Rooms:            rooms,
	}, nil
}

// ListRoomsByProperty retrieves all rooms of a property, read-through cached.
func (s *Service) ListRoomsByProperty(ctx context.Context, propertyID uuid.UUID) ([]transport.RoomResponse, error) {
	if _, err := s.repo.GetPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.listRoomsCached(ctx, propertyID)
}

func (s *Service) listRoomsCached(ctx context.Context, propertyID uuid.UUID) ([]transport.RoomResponse, error) {
	key := roomsKey(propertyID)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var cached []transport.RoomResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			s.log.CacheEvent("hit", key)
			return cached, nil
		}
	}

	rooms, err := s.repo.ListRoomsByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		resp = append(resp, toRoomResponse(room))
	}
	if payload, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, payload)
		s.log.CacheEvent("set", key)
	}
	return resp, nil
}

// CreateProperty creates a new property.
func (s *Service) CreateProperty(ctx context.Context, req transport.CreatePropertyRequest) (transport.PropertyResponse, error) {
	prop, err := s.repo.CreateProperty(ctx, repository.CreatePropertyParams{
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		PropertyType: req.PropertyType,
		Rating:       req.Rating,
		Amenities:    normalizeAmenities(req.Amenities),
		Description:  req.Description,
	})
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	s.invalidateProperty(ctx, prop.ID, "created")
	s.log.Info("property created", "id", prop.ID, "name", prop.Name)
	return toPropertyResponse(prop), nil
}

// UpdateProperty updates an existing property.
func (s *Service) UpdateProperty(ctx context.Context, id uuid.UUID, req transport.UpdatePropertyRequest) (transport.PropertyResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}

	prop, err := s.repo.UpdateProperty(ctx, repository.UpdatePropertyParams{
		ID:           id,
		Name:         name,
		Address:      req.Address,
		PropertyType: req.PropertyType,
		Rating:       req.Rating,
		Amenities:    normalizeAmenities(req.Amenities),
		Description:  req.Description,
	})
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	s.invalidateProperty(ctx, id, "updated")
	s.log.Info("property updated", "id", id)
	return toPropertyResponse(prop), nil
}

// DeleteProperty deletes a property and its rooms.
func (s *Service) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, roomsKey(id))
	s.invalidateProperty(ctx, id, "deleted")
	s.log.Info("property deleted", "id", id)
	return nil
}

// CreateRoom creates a room. The owning property must exist; a missing
// property surfaces as a descriptive not-found error.
func (s *Service) CreateRoom(ctx context.Context, propertyID uuid.UUID, req transport.CreateRoomRequest) (transport.RoomResponse, error) {
	if _, err := s.repo.GetPropertyByID(ctx, propertyID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.RoomResponse{}, apperr.NotFound("Property with ID " + propertyID.String() + " not found")
		}
		return transport.RoomResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = repository.RoomStatusAvailable
	}

	room, err := s.repo.CreateRoom(ctx, repository.CreateRoomParams{
		PropertyID:    propertyID,
		Name:          strings.TrimSpace(req.Name),
		RoomType:      strings.TrimSpace(req.RoomType),
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		Status:        status,
	})
	if err != nil {
		return transport.RoomResponse{}, err
	}

	s.invalidateRoom(ctx, room.ID, propertyID, "created")
	s.log.Info("room created", "id", room.ID, "property_id", propertyID)
	return toRoomResponse(room), nil
}

// UpdateRoom updates a room, including status transitions.
func (s *Service) UpdateRoom(ctx context.Context, id uuid.UUID, req transport.UpdateRoomRequest) (transport.RoomResponse, error) {
	if req.Status != nil && !repository.ValidRoomStatus(*req.Status) {
		return transport.RoomResponse{}, apperr.Validation("invalid room status")
	}

	room, err := s.repo.UpdateRoom(ctx, repository.UpdateRoomParams{
		ID:            id,
		Name:          req.Name,
		RoomType:      req.RoomType,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		Status:        req.Status,
	})
	if err != nil {
		return transport.RoomResponse{}, err
	}

	action := "updated"
	if req.Status != nil {
		action = "status_changed"
	}
	s.invalidateRoom(ctx, id, room.PropertyID, action)
	s.log.Info("room updated", "id", id, "action", action)
	return toRoomResponse(room), nil
}

// DeleteRoom deletes a room.
func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("Room with ID " + id.String() + " not found")
		}
		return err
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidateRoom(ctx, id, room.PropertyID, "deleted")
	s.log.Info("room deleted", "id", id)
	return nil
}

// invalidateProperty drops cache entries derived from property data and
// publishes the change so subscribers (search) can invalidate theirs.
func (s *Service) invalidateProperty(ctx context.Context, id uuid.UUID, action string) {
	s.cache.Delete(ctx, allPropertiesKey)
	s.bus.Publish(ctx, events.PropertyChanged{
		BaseEvent:  events.NewBaseEvent(),
		PropertyID: id,
		Action:     action,
	})
}

func (s *Service) invalidateRoom(ctx context.Context, roomID, propertyID uuid.UUID, action string) {
	s.cache.Delete(ctx, roomsKey(propertyID))
	s.bus.Publish(ctx, events.RoomChanged{
		BaseEvent:  events.NewBaseEvent(),
		RoomID:     roomID,
		PropertyID: propertyID,
		Action:     action,
	})
}

func normalizeAmenities(amenities []string) []string {
	if amenities == nil {
		return nil
	}
	out := make([]string, 0, len(amenities))
	seen := make(map[string]struct{}, len(amenities))
	for _, a := range amenities {
		trimmed := strings.ToLower(strings.TrimSpace(a))
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func toPropertyResponse(p repository.Property) transport.PropertyResponse {
	return transport.PropertyResponse{
		ID:           p.ID,
		Name:         p.Name,
		Address:      p.Address,
		PropertyType: p.PropertyType,
		Rating:       p.Rating,
		Amenities:    p.Amenities,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPropertyListResponse(items []repository.Property, total, page, pageSize int) transport.PropertyListResponse {
	resp := transport.PropertyListResponse{
		Items:    make([]transport.PropertyResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, p := range items {
		resp.Items = append(resp.Items, toPropertyResponse(p))
	}
	return resp
}

func toRoomResponse(r repository.Room) transport.RoomResponse {
	return transport.RoomResponse{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		Name:          r.Name,
		RoomType:      r.RoomType,
		Capacity:      r.Capacity,
		PricePerNight: r.PricePerNight,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
