package cache

// entry is an intrusive doubly linked list node owned by the cache.
// It stores the key/value alongside list links and metadata used by
// eviction policies and TTL/cost accounting.
//
// The recency list is bounded by two permanent sentinel entries
// (see Cache.head/tail): every live entry always has non-nil prev and
// next, so insert/unlink is a uniform four-pointer update with no
// empty-list or first/last special cases. Sentinels carry no data,
// are never counted toward capacity, and are never returned to callers.
type entry[K comparable, V any] struct {
	key K
	val V

	// Intrusive list links: head side is MRU, tail side is LRU.
	prev *entry[K, V]
	next *entry[K, V]

	// Absolute expiration deadline in UnixNano.
	// Zero means "no TTL".
	exp int64

	// Logical "cost" used when MaxCost is enabled.
	// Entries are evicted until both length and cost limits are satisfied.
	cost int32
}

// Key returns the entry key (part of policy.Node interface).
func (e *entry[K, V]) Key() K { return e.key }

// Value returns a pointer to the stored value (part of policy.Node interface).
// The pointer must not escape the policy call that received the node.
func (e *entry[K, V]) Value() *V { return &e.val }
