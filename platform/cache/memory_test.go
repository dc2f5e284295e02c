package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

// fakeClock is a controllable clock for TTL tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestMemory(ttl time.Duration) (*Memory, *fakeClock) {
	clk := &fakeClock{now: time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)}
	return NewMemory(ttl, clk.Now), clk
}

func TestMemoryGetReturnsStoredValueWithinTTL(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestMemory(5 * time.Minute)

	c.Set(ctx, "search:rooms:a", []byte(`[{"roomId":"r1"}]`))

	clk.Advance(4*time.Minute + 59*time.Second)
	got, ok := c.Get(ctx, "search:rooms:a")
	if !ok {
		t.Fatalf("expected hit before TTL elapsed")
	}
	if !bytes.Equal(got, []byte(`[{"roomId":"r1"}]`)) {
		t.Fatalf("expected stored payload, got %q", got)
	}
}

func TestMemoryGetMissesAfterTTL(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestMemory(5 * time.Minute)

	c.Set(ctx, "search:rooms:a", []byte("payload"))

	clk.Advance(5 * time.Minute)
	if _, ok := c.Get(ctx, "search:rooms:a"); ok {
		t.Fatalf("expected miss once TTL elapsed")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, have %d entries", c.Len())
	}
}

func TestMemorySetRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestMemory(5 * time.Minute)

	c.Set(ctx, "k", []byte("v1"))
	clk.Advance(4 * time.Minute)
	c.Set(ctx, "k", []byte("v2"))
	clk.Advance(4 * time.Minute)

	got, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatalf("expected hit: second Set restarted the TTL window")
	}
	if string(got) != "v2" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemory(5 * time.Minute)

	c.Set(ctx, "rooms:p1", []byte("a"))
	c.Delete(ctx, "rooms:p1")

	if _, ok := c.Get(ctx, "rooms:p1"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemoryDeletePrefixOnlyRemovesNamespace(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemory(5 * time.Minute)

	c.Set(ctx, "search:rooms:q1", []byte("a"))
	c.Set(ctx, "search:properties:q2", []byte("b"))
	c.Set(ctx, "properties:all", []byte("c"))

	c.DeletePrefix(ctx, PrefixSearch)

	if _, ok := c.Get(ctx, "search:rooms:q1"); ok {
		t.Errorf("expected search:rooms:q1 to be invalidated")
	}
	if _, ok := c.Get(ctx, "search:properties:q2"); ok {
		t.Errorf("expected search:properties:q2 to be invalidated")
	}
	if _, ok := c.Get(ctx, "properties:all"); !ok {
		t.Errorf("expected unrelated properties:all entry to survive")
	}
}

func TestMemoryZeroTTLFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	c := NewMemory(0, clk.Now)

	c.Set(ctx, "k", []byte("v"))
	clk.Advance(DefaultTTL - time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatalf("expected default TTL to apply")
	}
	clk.Advance(2 * time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expected expiry at default TTL")
	}
}
