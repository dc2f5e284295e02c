// Package service implements availability search: a primary database-side
// resolver with a local fallback recomputation, fronted by a TTL cache.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"staykedarnath_backend/internal/search/repository"
	"staykedarnath_backend/internal/search/transport"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
)

// Service provides room and property search.
type Service struct {
	resolver repository.AvailabilityResolver
	store    repository.Store
	cache    cache.Cache
	log      *logger.Logger
	group    singleflight.Group
}

// New creates a new search service. Resolver and store are usually the same
// repository; they are separate parameters so either path can be swapped out.
func New(resolver repository.AvailabilityResolver, store repository.Store, c cache.Cache, log *logger.Logger) *Service {
	return &Service{resolver: resolver, store: store, cache: c, log: log}
}

// roomsKey builds a cache fingerprint for a room search. Location is
// lowercased so equivalent queries share an entry.
func roomsKey(params repository.RoomSearchParams) string {
	return fmt.Sprintf("%srooms:%s|%s|%s|%d",
		cache.PrefixSearch,
		strings.ToLower(strings.TrimSpace(params.Location)),
		params.CheckIn.Format(time.DateOnly),
		params.CheckOut.Format(time.DateOnly),
		params.Guests,
	)
}

func propertiesKey(params repository.CandidateParams, checkIn, checkOut time.Time, amenities []string) string {
	return fmt.Sprintf("%sproperties:%s|%s|%s|%d|%s|%.1f|%s",
		cache.PrefixSearch,
		strings.ToLower(strings.TrimSpace(params.Location)),
		checkIn.Format(time.DateOnly),
		checkOut.Format(time.DateOnly),
		params.Guests,
		params.PropertyType,
		params.MinRating,
		strings.Join(amenities, ","),
	)
}

// SearchRooms returns the rooms available for the requested stay. The primary
// path is the database-side availability function; when it fails the service
// recomputes availability locally from the room and booking tables. When both
// paths fail the response is an empty, degraded result rather than an error.
// Successful results are cached under a fingerprint of the query.
func (s *Service) SearchRooms(ctx context.Context, req transport.SearchRoomsRequest) (transport.SearchRoomsResponse, error) {
	params, err := normalizeRoomSearch(req)
	if err != nil {
		return transport.SearchRoomsResponse{}, err
	}

	key := roomsKey(params)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var cached transport.SearchRoomsResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			s.log.CacheEvent("hit", key)
			return cached, nil
		}
	}

	// Concurrent identical searches share one computation.
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.searchRoomsUncached(ctx, key, params), nil
	})
	if err != nil {
		return transport.SearchRoomsResponse{}, err
	}
	return result.(transport.SearchRoomsResponse), nil
}

func (s *Service) searchRoomsUncached(ctx context.Context, key string, params repository.RoomSearchParams) transport.SearchRoomsResponse {
	rooms, primaryErr := s.resolver.FindAvailableRooms(ctx, params)
	if primaryErr != nil {
		s.log.SearchFallback("search_rooms", primaryErr)

		var fallbackErr error
		rooms, fallbackErr = s.recomputeAvailability(ctx, params)
		if fallbackErr != nil {
			s.log.SearchDegraded("search_rooms", fallbackErr)
			return transport.SearchRoomsResponse{Rooms: []transport.RoomResult{}, Degraded: true}
		}
	}

	resp := transport.SearchRoomsResponse{
		Rooms: toRoomResults(rooms),
		Count: len(rooms),
	}
	if payload, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, payload)
		s.log.CacheEvent("set", key)
	}
	return resp
}

// recomputeAvailability is the local fallback: all operationally available
// rooms, narrowed by location and capacity, minus rooms with a blocking
// booking overlapping the requested range.
func (s *Service) recomputeAvailability(ctx context.Context, params repository.RoomSearchParams) ([]repository.RoomResult, error) {
	all, err := s.store.ListAvailableRooms(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]repository.RoomResult, 0, len(all))
	for _, room := range all {
		if !matchesLocation(room, params.Location) {
			continue
		}
		if room.Capacity < params.Guests {
			continue
		}
		candidates = append(candidates, room)
	}

	return s.excludeConflicting(ctx, candidates, params.CheckIn, params.CheckOut)
}

// excludeConflicting drops rooms with a blocking booking overlapping the
// half-open range [from, to).
func (s *Service) excludeConflicting(ctx context.Context, rooms []repository.RoomResult, from, to time.Time) ([]repository.RoomResult, error) {
	if len(rooms) == 0 {
		return rooms, nil
	}

	ids := make([]uuid.UUID, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.RoomID)
	}

	conflicting, err := s.store.ConflictingRoomIDs(ctx, ids, from, to)
	if err != nil {
		return nil, err
	}

	free := make([]repository.RoomResult, 0, len(rooms))
	for _, room := range rooms {
		if _, booked := conflicting[room.RoomID]; booked {
			continue
		}
		free = append(free, room)
	}
	return free, nil
}

// SearchProperties returns properties with at least one room free for the
// requested stay, aggregated with the lowest nightly price and the matching
// room count. Structural filters run in the database; amenity filtering is an
// AND over the property's amenity set, applied here after conflict exclusion.
func (s *Service) SearchProperties(ctx context.Context, req transport.SearchPropertiesRequest) (transport.SearchPropertiesResponse, error) {
	checkIn, checkOut, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return transport.SearchPropertiesResponse{}, err
	}

	params := repository.CandidateParams{
		Location:     strings.TrimSpace(req.Location),
		Guests:       req.Guests,
		PropertyType: req.PropertyType,
		MinRating:    req.MinRating,
	}
	if params.Guests < 1 {
		params.Guests = 1
	}
	wanted := normalizeAmenities(req.Amenities)

	key := propertiesKey(params, checkIn, checkOut, wanted)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var cached transport.SearchPropertiesResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			s.log.CacheEvent("hit", key)
			return cached, nil
		}
	}

	// Search is best-effort: a backend failure degrades to an empty,
	// uncached result instead of surfacing as an error.
	rooms, err := s.store.ListCandidateRooms(ctx, params)
	if err != nil {
		s.log.SearchDegraded("search_properties", err)
		return transport.SearchPropertiesResponse{Properties: []transport.PropertyResult{}, Degraded: true}, nil
	}

	free, err := s.excludeConflicting(ctx, rooms, checkIn, checkOut)
	if err != nil {
		s.log.SearchDegraded("search_properties", err)
		return transport.SearchPropertiesResponse{Properties: []transport.PropertyResult{}, Degraded: true}, nil
	}

	resp := transport.SearchPropertiesResponse{
		Properties: groupByProperty(free, wanted),
	}
	resp.Count = len(resp.Properties)

	if payload, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, payload)
		s.log.CacheEvent("set", key)
	}
	return resp, nil
}

// groupByProperty aggregates room rows into one result per property,
// preserving the row order of first appearance. Properties missing any of
// the wanted amenities are dropped.
func groupByProperty(rooms []repository.RoomResult, wanted []string) []transport.PropertyResult {
	results := make([]transport.PropertyResult, 0)
	index := make(map[uuid.UUID]int)

	for _, room := range rooms {
		if !hasAllAmenities(room.Amenities, wanted) {
			continue
		}

		i, seen := index[room.PropertyID]
		if !seen {
			index[room.PropertyID] = len(results)
			results = append(results, transport.PropertyResult{
				PropertyID:   room.PropertyID,
				Name:         room.PropertyName,
				PropertyType: room.PropertyType,
				Rating:       room.Rating,
				Address:      room.Address,
				Amenities:    room.Amenities,
				LowestPrice:  room.PricePerNight,
				RoomCount:    1,
			})
			continue
		}

		results[i].RoomCount++
		if room.PricePerNight < results[i].LowestPrice {
			results[i].LowestPrice = room.PricePerNight
		}
	}
	return results
}

// parseStayRange parses the calendar-date pair and rejects inverted or empty
// ranges. The range is half-open, check-out exclusive.
func parseStayRange(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(time.DateOnly, checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid check-in date")
	}
	checkOut, err := time.Parse(time.DateOnly, checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid check-out date")
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, apperr.Validation("check-in must be before check-out")
	}
	return checkIn, checkOut, nil
}

func normalizeRoomSearch(req transport.SearchRoomsRequest) (repository.RoomSearchParams, error) {
	checkIn, checkOut, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return repository.RoomSearchParams{}, err
	}

	guests := req.Guests
	if guests < 1 {
		guests = 1
	}
	return repository.RoomSearchParams{
		Location: strings.TrimSpace(req.Location),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   guests,
	}, nil
}

func matchesLocation(room repository.RoomResult, location string) bool {
	if location == "" {
		return true
	}
	needle := strings.ToLower(location)
	return strings.Contains(strings.ToLower(room.Address), needle) ||
		strings.Contains(strings.ToLower(room.PropertyName), needle)
}

// hasAllAmenities reports whether the property's amenity set contains every
// wanted amenity.
func hasAllAmenities(have, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, a := range have {
		set[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

// normalizeAmenities lowercases, trims, dedupes and sorts the amenity filter
// so equivalent queries produce the same cache fingerprint.
func normalizeAmenities(amenities []string) []string {
	seen := make(map[string]struct{}, len(amenities))
	out := make([]string, 0, len(amenities))
	for _, a := range amenities {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func toRoomResults(rooms []repository.RoomResult) []transport.RoomResult {
	out := make([]transport.RoomResult, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, transport.RoomResult(r))
	}
	return out
}
