package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"staykedarnath_backend/internal/search/repository"
	"staykedarnath_backend/internal/search/transport"
	"staykedarnath_backend/platform/apperr"
	"staykedarnath_backend/platform/cache"
	"staykedarnath_backend/platform/logger"
)

type stubResolver struct {
	mu    sync.Mutex
	calls int
	rooms []repository.RoomResult
	err   error
}

func (r *stubResolver) FindAvailableRooms(context.Context, repository.RoomSearchParams) ([]repository.RoomResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.rooms, nil
}

func (r *stubResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type stubBooking struct {
	roomID   uuid.UUID
	checkIn  time.Time
	checkOut time.Time
}

type stubStore struct {
	rooms      []repository.RoomResult
	bookings   []stubBooking
	candidates []repository.RoomResult

	listErr      error
	conflictErr  error
	candidateErr error
}

func (s *stubStore) ListAvailableRooms(context.Context) ([]repository.RoomResult, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rooms, nil
}

func (s *stubStore) ConflictingRoomIDs(_ context.Context, roomIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]struct{}, error) {
	if s.conflictErr != nil {
		return nil, s.conflictErr
	}
	wanted := make(map[uuid.UUID]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = struct{}{}
	}
	conflicting := make(map[uuid.UUID]struct{})
	for _, b := range s.bookings {
		if _, ok := wanted[b.roomID]; !ok {
			continue
		}
		// Half-open overlap, check-out exclusive.
		if b.checkIn.Before(to) && b.checkOut.After(from) {
			conflicting[b.roomID] = struct{}{}
		}
	}
	return conflicting, nil
}

func (s *stubStore) ListCandidateRooms(context.Context, repository.CandidateParams) ([]repository.RoomResult, error) {
	if s.candidateErr != nil {
		return nil, s.candidateErr
	}
	return s.candidates, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func room(name, propertyName, address string, capacity int, price int64) repository.RoomResult {
	return repository.RoomResult{
		RoomID:        uuid.New(),
		RoomName:      name,
		RoomType:      "deluxe",
		Capacity:      capacity,
		PricePerNight: price,
		PropertyID:    uuid.New(),
		PropertyName:  propertyName,
		PropertyType:  "hotel",
		Rating:        4.2,
		Address:       address,
		Amenities:     []string{"wifi", "parking"},
	}
}

func newService(resolver *stubResolver, store *stubStore, ttl time.Duration, clk cache.Clock) (*Service, *cache.Memory) {
	mem := cache.NewMemory(ttl, clk)
	return New(resolver, store, mem, logger.New("development")), mem
}

func roomsRequest() transport.SearchRoomsRequest {
	return transport.SearchRoomsRequest{
		Location: "Kedarnath",
		CheckIn:  "2026-05-10",
		CheckOut: "2026-05-12",
		Guests:   2,
	}
}

func TestSearchRoomsPrimaryPath(t *testing.T) {
	resolver := &stubResolver{rooms: []repository.RoomResult{
		room("101", "Himalayan View", "Kedarnath Road", 2, 250000),
	}}
	svc, _ := newService(resolver, &stubStore{}, time.Minute, nil)

	resp, err := svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("SearchRooms: %v", err)
	}
	if resp.Count != 1 || len(resp.Rooms) != 1 {
		t.Fatalf("count = %d, rooms = %d, want 1", resp.Count, len(resp.Rooms))
	}
	if resp.Degraded {
		t.Fatal("primary result marked degraded")
	}
	if resp.Rooms[0].PropertyName != "Himalayan View" {
		t.Fatalf("property = %q", resp.Rooms[0].PropertyName)
	}
}

func TestSearchRoomsRepeatedQueryServedFromCache(t *testing.T) {
	resolver := &stubResolver{rooms: []repository.RoomResult{
		room("101", "Himalayan View", "Kedarnath Road", 2, 250000),
	}}
	svc, _ := newService(resolver, &stubStore{}, time.Minute, nil)

	first, err := svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	second, err := svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("second search: %v", err)
	}

	if resolver.callCount() != 1 {
		t.Fatalf("resolver calls = %d, want 1", resolver.callCount())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSearchRoomsCacheExpiresAfterTTL(t *testing.T) {
	resolver := &stubResolver{rooms: []repository.RoomResult{
		room("101", "Himalayan View", "Kedarnath Road", 2, 250000),
	}}
	clk := &fakeClock{now: date("2026-05-01")}
	svc, _ := newService(resolver, &stubStore{}, 5*time.Minute, clk.Now)

	if _, err := svc.SearchRooms(context.Background(), roomsRequest()); err != nil {
		t.Fatalf("first search: %v", err)
	}

	clk.Advance(4 * time.Minute)
	if _, err := svc.SearchRooms(context.Background(), roomsRequest()); err != nil {
		t.Fatalf("within-TTL search: %v", err)
	}
	if resolver.callCount() != 1 {
		t.Fatalf("resolver calls within TTL = %d, want 1", resolver.callCount())
	}

	clk.Advance(2 * time.Minute)
	if _, err := svc.SearchRooms(context.Background(), roomsRequest()); err != nil {
		t.Fatalf("post-TTL search: %v", err)
	}
	if resolver.callCount() != 2 {
		t.Fatalf("resolver calls after TTL = %d, want 2", resolver.callCount())
	}
}

func TestSearchRoomsDistinctQueriesDistinctEntries(t *testing.T) {
	resolver := &stubResolver{rooms: []repository.RoomResult{
		room("101", "Himalayan View", "Kedarnath Road", 2, 250000),
	}}
	svc, _ := newService(resolver, &stubStore{}, time.Minute, nil)

	if _, err := svc.SearchRooms(context.Background(), roomsRequest()); err != nil {
		t.Fatalf("first search: %v", err)
	}

	other := roomsRequest()
	other.Guests = 4
	if _, err := svc.SearchRooms(context.Background(), other); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if resolver.callCount() != 2 {
		t.Fatalf("resolver calls = %d, want 2 for distinct fingerprints", resolver.callCount())
	}
}

func TestSearchRoomsFallbackFiltersAndExcludesConflicts(t *testing.T) {
	inRange := room("101", "Himalayan View", "Kedarnath Road", 2, 250000)
	booked := room("102", "Himalayan View", "Kedarnath Road", 2, 250000)
	tooSmall := room("103", "Himalayan View", "Kedarnath Road", 1, 150000)
	elsewhere := room("201", "Valley Inn", "Rishikesh Highway", 2, 180000)

	resolver := &stubResolver{err: apperr.Unavailable("availability function query failed", errors.New("function does not exist"))}
	store := &stubStore{
		rooms: []repository.RoomResult{inRange, booked, tooSmall, elsewhere},
		bookings: []stubBooking{
			{roomID: booked.RoomID, checkIn: date("2026-05-11"), checkOut: date("2026-05-14")},
		},
	}
	svc, _ := newService(resolver, store, time.Minute, nil)

	resp, err := svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("SearchRooms: %v", err)
	}
	if resp.Degraded {
		t.Fatal("fallback result marked degraded")
	}
	if len(resp.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1 (location+capacity filtered, conflict excluded)", len(resp.Rooms))
	}
	if resp.Rooms[0].RoomID != inRange.RoomID {
		t.Fatalf("got room %s, want %s", resp.Rooms[0].RoomID, inRange.RoomID)
	}
}

func TestSearchRoomsSameDayTurnoverNotAConflict(t *testing.T) {
	r := room("101", "Himalayan View", "Kedarnath Road", 2, 250000)

	resolver := &stubResolver{err: apperr.Unavailable("primary down", errors.New("boom"))}
	store := &stubStore{
		rooms: []repository.RoomResult{r},
		bookings: []stubBooking{
			// Guest departs the morning the searched stay begins.
			{roomID: r.RoomID, checkIn: date("2026-05-07"), checkOut: date("2026-05-10")},
			// And another guest arrives the day the searched stay ends.
			{roomID: r.RoomID, checkIn: date("2026-05-12"), checkOut: date("2026-05-15")},
		},
	}
	svc, _ := newService(resolver, store, time.Minute, nil)

	resp, err := svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("SearchRooms: %v", err)
	}
	if len(resp.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1: adjacent bookings must not block [2026-05-10, 2026-05-12)", len(resp.Rooms))
	}
}

func TestSearchRoomsNestedOverlapConflicts(t *testing.T) {
	r := room("101", "Himalayan View", "Kedarnath Road", 4, 250000)

	resolver := &stubResolver{err: apperr.Unavailable("primary down", errors.New("boom"))}
	store := &stubStore{
		rooms: []repository.RoomResult{r},
		bookings: []stubBooking{
			// Booking entirely inside the searched range.
			{roomID: r.RoomID, checkIn: date("2026-05-10"), checkOut: date("2026-05-11")},
		},
	}
	svc, _ := newService(resolver, store, time.Minute, nil)

	resp, err := svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("SearchRooms: %v", err)
	}
	if len(resp.Rooms) != 0 {
		t.Fatalf("rooms = %d, want 0: nested booking must block the range", len(resp.Rooms))
	}
}

func TestSearchRoomsBothPathsDownReturnsEmptyDegraded(t *testing.T) {
	resolver := &stubResolver{err: apperr.Unavailable("primary down", errors.New("boom"))}
	store := &stubStore{listErr: errors.New("connection refused")}
	svc, mem := newService(resolver, store, time.Minute, nil)

	resp, err := svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("degraded search returned error: %v", err)
	}
	if !resp.Degraded {
		t.Fatal("response not marked degraded")
	}
	if len(resp.Rooms) != 0 {
		t.Fatalf("rooms = %d, want 0", len(resp.Rooms))
	}
	if mem.Len() != 0 {
		t.Fatalf("degraded result was cached, %d entries", mem.Len())
	}

	// Once the backend recovers the next search must retry the primary path.
	resolver.err = nil
	resolver.rooms = []repository.RoomResult{room("101", "Himalayan View", "Kedarnath Road", 2, 250000)}
	resp, err = svc.SearchRooms(context.Background(), roomsRequest())
	if err != nil {
		t.Fatalf("recovered search: %v", err)
	}
	if resp.Degraded || len(resp.Rooms) != 1 {
		t.Fatalf("recovery not reflected: degraded=%v rooms=%d", resp.Degraded, len(resp.Rooms))
	}
}

func TestSearchRoomsRejectsInvertedRange(t *testing.T) {
	resolver := &stubResolver{}
	svc, _ := newService(resolver, &stubStore{}, time.Minute, nil)

	req := roomsRequest()
	req.CheckIn, req.CheckOut = req.CheckOut, req.CheckIn
	if _, err := svc.SearchRooms(context.Background(), req); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if resolver.callCount() != 0 {
		t.Fatalf("resolver called %d times for an invalid range", resolver.callCount())
	}
}

func propertiesRequest() transport.SearchPropertiesRequest {
	return transport.SearchPropertiesRequest{
		Location: "Kedarnath",
		CheckIn:  "2026-05-10",
		CheckOut: "2026-05-12",
	}
}

func TestSearchPropertiesGroupsRoomsPerProperty(t *testing.T) {
	a1 := room("101", "Himalayan View", "Kedarnath Road", 2, 250000)
	a2 := a1
	a2.RoomID = uuid.New()
	a2.RoomName = "102"
	a2.PricePerNight = 180000
	b1 := room("201", "Valley Inn", "Kedarnath Bazaar", 2, 300000)

	store := &stubStore{candidates: []repository.RoomResult{a1, a2, b1}}
	svc, _ := newService(&stubResolver{}, store, time.Minute, nil)

	resp, err := svc.SearchProperties(context.Background(), propertiesRequest())
	if err != nil {
		t.Fatalf("SearchProperties: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}

	first := resp.Properties[0]
	if first.PropertyID != a1.PropertyID {
		t.Fatalf("first property = %s, want %s", first.PropertyID, a1.PropertyID)
	}
	if first.RoomCount != 2 {
		t.Fatalf("roomCount = %d, want 2", first.RoomCount)
	}
	if first.LowestPrice != 180000 {
		t.Fatalf("lowestPrice = %d, want 180000", first.LowestPrice)
	}
}

func TestSearchPropertiesExcludesBookedRooms(t *testing.T) {
	cheap := room("101", "Himalayan View", "Kedarnath Road", 2, 180000)
	pricey := cheap
	pricey.RoomID = uuid.New()
	pricey.RoomName = "102"
	pricey.PricePerNight = 250000

	store := &stubStore{
		candidates: []repository.RoomResult{cheap, pricey},
		bookings: []stubBooking{
			// The cheap room is taken for the searched stay.
			{roomID: cheap.RoomID, checkIn: date("2026-05-09"), checkOut: date("2026-05-11")},
		},
	}
	svc, _ := newService(&stubResolver{}, store, time.Minute, nil)

	resp, err := svc.SearchProperties(context.Background(), propertiesRequest())
	if err != nil {
		t.Fatalf("SearchProperties: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	got := resp.Properties[0]
	if got.RoomCount != 1 {
		t.Fatalf("roomCount = %d, want 1: booked rooms must not be counted", got.RoomCount)
	}
	if got.LowestPrice != 250000 {
		t.Fatalf("lowestPrice = %d, want 250000: booked rooms must not set the price", got.LowestPrice)
	}
}

func TestSearchPropertiesAmenityFilterRequiresAll(t *testing.T) {
	withPool := room("101", "Himalayan View", "Kedarnath Road", 2, 250000)
	withPool.Amenities = []string{"wifi", "parking", "pool"}
	noPool := room("201", "Valley Inn", "Kedarnath Bazaar", 2, 180000)
	noPool.Amenities = []string{"wifi", "parking"}

	store := &stubStore{candidates: []repository.RoomResult{withPool, noPool}}
	svc, _ := newService(&stubResolver{}, store, time.Minute, nil)

	req := propertiesRequest()
	req.Amenities = []string{"WiFi", " Pool "}
	resp, err := svc.SearchProperties(context.Background(), req)
	if err != nil {
		t.Fatalf("SearchProperties: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1: every requested amenity must be present", resp.Count)
	}
	if resp.Properties[0].PropertyID != withPool.PropertyID {
		t.Fatalf("wrong property survived the amenity filter")
	}
}

func TestSearchPropertiesStoreFailureDegradesToEmpty(t *testing.T) {
	store := &stubStore{candidateErr: errors.New("connection refused")}
	svc, mem := newService(&stubResolver{}, store, time.Minute, nil)

	resp, err := svc.SearchProperties(context.Background(), propertiesRequest())
	if err != nil {
		t.Fatalf("degraded search returned error: %v", err)
	}
	if !resp.Degraded {
		t.Fatal("response not marked degraded")
	}
	if len(resp.Properties) != 0 || resp.Count != 0 {
		t.Fatalf("properties = %d, count = %d, want empty", len(resp.Properties), resp.Count)
	}
	if mem.Len() != 0 {
		t.Fatalf("degraded result was cached, %d entries", mem.Len())
	}

	// A conflict-lookup failure degrades the same way.
	store.candidateErr = nil
	store.candidates = []repository.RoomResult{room("101", "Himalayan View", "Kedarnath Road", 2, 250000)}
	store.conflictErr = errors.New("connection refused")
	resp, err = svc.SearchProperties(context.Background(), propertiesRequest())
	if err != nil {
		t.Fatalf("degraded search returned error: %v", err)
	}
	if !resp.Degraded || len(resp.Properties) != 0 {
		t.Fatalf("degraded=%v properties=%d, want empty degraded result", resp.Degraded, len(resp.Properties))
	}

	// Once the backend recovers the next search succeeds and is cached.
	store.conflictErr = nil
	resp, err = svc.SearchProperties(context.Background(), propertiesRequest())
	if err != nil {
		t.Fatalf("recovered search: %v", err)
	}
	if resp.Degraded || resp.Count != 1 {
		t.Fatalf("recovery not reflected: degraded=%v count=%d", resp.Degraded, resp.Count)
	}
}

func TestSearchPropertiesCachedByFingerprint(t *testing.T) {
	store := &stubStore{candidates: []repository.RoomResult{
		room("101", "Himalayan View", "Kedarnath Road", 2, 250000),
	}}
	svc, _ := newService(&stubResolver{}, store, time.Minute, nil)

	req := propertiesRequest()
	req.Amenities = []string{"parking", "wifi"}
	first, err := svc.SearchProperties(context.Background(), req)
	if err != nil {
		t.Fatalf("first search: %v", err)
	}

	// Same filter set in a different spelling and order hits the same entry,
	// even after the store stops returning rows.
	store.candidates = nil
	req.Amenities = []string{"WIFI", "Parking"}
	second, err := svc.SearchProperties(context.Background(), req)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("equivalent queries produced different results:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
