// Package cache provides the short-lived result cache used by the search and
// inventory read paths. Entries are opaque byte payloads keyed by namespaced
// strings; a fixed TTL bounds staleness and mutations invalidate by prefix.
package cache

import (
	"context"
	"time"
)

// Default TTL for cached read-through results.
const DefaultTTL = 5 * time.Minute

// Key namespaces. Each cached collection uses a distinct prefix so
// invalidation can target exactly the entries derived from a mutated entity.
const (
	PrefixProperties       = "properties:"
	PrefixRooms            = "rooms:"
	PrefixCustomerBookings = "bookings:customer:"
	PrefixSearch           = "search:"
)

// Cache is an injectable key/value cache with TTL semantics. Implementations
// must treat expired entries as misses. Values are opaque bytes; callers own
// serialization so repeated hits return byte-identical payloads.
type Cache interface {
	// Get returns the payload for key, or false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores the payload under key, stamped with the current time.
	Set(ctx context.Context, key string, value []byte)

	// Delete removes a single key.
	Delete(ctx context.Context, key string)

	// DeletePrefix removes every key under the given namespace prefix.
	DeletePrefix(ctx context.Context, prefix string)
}

// Clock returns the current time. Injected so tests control expiry
// deterministically instead of sleeping against the wall clock.
type Clock func() time.Time
