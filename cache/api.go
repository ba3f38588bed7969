package cache

import (
	"context"
	"time"
)

// Cache is an in-memory key/value cache with a fixed capacity and
// least-recently-used eviction (pluggable via the policy package).
//
// The cache is unsynchronized: no method is safe for concurrent use.
// Callers that share an instance across goroutines must serialize every
// operation externally (e.g. hold a mutex for the duration of each call).
//
// Typical complexity for operations is amortized O(1):
// one index lookup plus a constant number of sentinel-list relinks.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present.
	// It uses the cache's DefaultTTL (if any).
	// Returns false if the key already exists (no update is performed).
	Add(k K, v V) bool

	// Put inserts or updates k→v. An existing entry's value is overwritten
	// in place and the entry is promoted to MRU; the entry count does not
	// change. A new key at capacity evicts the LRU entry first.
	// With capacity 0 nothing is ever retained and Put is a no-op.
	Put(k K, v V)

	// PutWithTTL is Put with a per-key TTL (relative duration).
	// A non-positive ttl disables expiration for this entry.
	PutWithTTL(k K, v V, ttl time.Duration)

	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted: a read counts as a use.
	// A miss is reported through the flag, never through a default value —
	// the zero value of V may be a legitimately stored value.
	Get(k K) (V, bool)

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss
	// and storing the loaded value. If no Loader was configured, returns
	// ErrNoLoader. The load runs inline on the caller's goroutine.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Peek returns the value for k without promoting the entry and without
	// recording a hit or a miss. Expired entries are still collected.
	Peek(k K) (V, bool)

	// Contains reports whether k is resident, without promoting the entry.
	Contains(k K) bool

	// Delete removes k if present and returns true on success.
	// Deleting an absent key is a no-op, not an error.
	Delete(k K) bool

	// Clear empties the cache and resets the recency list to its initial
	// two-sentinel state. O(1): the old index and nodes are left to the GC.
	// Policy state is reset as well.
	Clear()

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the configured capacity.
	Cap() int

	// Keys returns the resident keys in recency order, MRU first.
	// O(n). Expired-but-uncollected entries are included: expiration is
	// lazy and happens on keyed access.
	Keys() []K

	// Oldest returns the current eviction candidate (the LRU entry)
	// without removing or promoting it.
	Oldest() (K, V, bool)

	// Resize changes the capacity, evicting LRU entries as needed, and
	// returns how many entries were evicted. Negative capacity is
	// ErrInvalidCapacity.
	Resize(capacity int) (int, error)
}
