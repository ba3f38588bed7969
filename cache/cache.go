package cache

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/IvanBrykalov/lrucache/policy"
	"github.com/IvanBrykalov/lrucache/policy/lru"
)

// ErrInvalidCapacity is returned by New/NewWithOptions/Resize when the
// requested capacity is negative. Capacity 0 is legal but degenerate:
// such a cache retains nothing.
var ErrInvalidCapacity = errors.New("cache: capacity must be non-negative")

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// cache is an unsynchronized in-memory KV store with a pluggable eviction
// policy. The index map and the sentinel-bounded recency list always hold
// exactly the same key set; both are updated within each operation before
// it returns, so no intermediate state is ever observable.
type cache[K comparable, V any] struct {
	m    map[K]*entry[K, V]
	head *entry[K, V] // sentinel; head.next is MRU
	tail *entry[K, V] // sentinel; tail.prev is LRU
	len  int          // number of resident entries
	cost int64        // total cost (if MaxCost is enabled)
	cap  int          // entry capacity, fixed at construction (Resize excepted)

	pol policy.CachePolicy[K, V]
	opt Options[K, V]
}

// New constructs a cache with the given capacity and default options
// (LRU policy, no TTL, no metrics). Negative capacity is ErrInvalidCapacity.
func New[K comparable, V any](capacity int) (Cache[K, V], error) {
	return NewWithOptions(capacity, Options[K, V]{})
}

// NewWithOptions constructs a fully configured cache.
// Defaults:
//   - nil Metrics -> NoopMetrics
//   - nil Policy  -> LRU
func NewWithOptions[K comparable, V any](capacity int, opt Options[K, V]) (Cache[K, V], error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New[K, V]()
	}

	c := &cache[K, V]{
		m:   make(map[K]*entry[K, V], capacity),
		cap: capacity,
		opt: opt,
	}

	// Two permanent boundary sentinels, directly linked to each other.
	c.head = &entry[K, V]{}
	c.tail = &entry[K, V]{}
	c.head.next = c.tail
	c.tail.prev = c.head

	c.pol = opt.Policy.New(hooks[K, V]{c: c})
	return c, nil
}

// ---- Cache[K,V] implementation ----

// Add inserts k→v only if absent, using DefaultTTL if set.
// Returns false if the key already exists (no update is performed)
// or if capacity is 0 (nothing is ever retained).
func (c *cache[K, V]) Add(k K, v V) bool {
	if c.cap == 0 {
		return false
	}
	if _, exists := c.m[k]; exists {
		return false
	}
	c.insert(k, v, c.defaultDeadline())
	return true
}

// Put inserts or updates k→v, using DefaultTTL if set,
// and promotes the entry according to the active policy.
func (c *cache[K, V]) Put(k K, v V) {
	c.put(k, v, c.defaultDeadline())
}

// PutWithTTL inserts or updates k→v with a per-key TTL (relative duration).
// A non-positive ttl disables expiration for this entry.
func (c *cache[K, V]) PutWithTTL(k K, v V, ttl time.Duration) {
	c.put(k, v, c.deadline(ttl))
}

func (c *cache[K, V]) put(k K, v V, exp int64) {
	// Degenerate capacity: retain nothing. Returning before touching the
	// list or index keeps the sentinel links trivially intact.
	if c.cap == 0 {
		return
	}

	if e, ok := c.m[k]; ok {
		// In-place overwrite: exactly one entry for k, count unchanged,
		// promoted to MRU. Adjust the cost delta.
		oldCost := int64(e.cost)
		e.val = v
		e.exp = exp
		e.cost = c.costOf(v)
		c.cost += int64(e.cost) - oldCost

		c.pol.OnUpdate(e)
		c.enforceLimits()
		return
	}

	c.insert(k, v, exp)
}

// insert admits a new entry (key known to be absent, capacity known > 0).
func (c *cache[K, V]) insert(k K, v V, exp int64) {
	e := &entry[K, V]{key: k, val: v, exp: exp, cost: c.costOf(v)}
	c.m[k] = e

	// Let the policy place the entry (and optionally propose an eviction,
	// e.g. the LRU of a 2Q probation queue).
	if ev := c.pol.OnAdd(e); ev != nil {
		c.evict(ev.(*entry[K, V]), EvictCapacity)
	}
	c.enforceLimits()
}

// Get returns the value and promotes the entry according to the policy.
// TTL: if expired, the entry is evicted and a miss is returned.
func (c *cache[K, V]) Get(k K) (V, bool) {
	e, ok := c.m[k]
	if !ok {
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	if c.expired(e) {
		c.evict(e, EvictTTL)
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}

	c.pol.OnGet(e)
	c.opt.Metrics.Hit()
	return e.val, true
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader
// inline and stores the result. If no Loader is configured, returns ErrNoLoader.
//
// The cache is single-threaded, so there are no concurrent loads to coalesce;
// ctx is threaded through to the Loader for deadline/cancellation handling.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}
	v, err := c.opt.Loader(ctx, k)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Put(k, v)
	return v, nil
}

// Peek returns the value without promoting the entry. It records no hit/miss;
// expired entries are still collected on the way.
func (c *cache[K, V]) Peek(k K) (V, bool) {
	e, ok := c.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	if c.expired(e) {
		c.evict(e, EvictTTL)
		var zero V
		return zero, false
	}
	return e.val, true
}

// Contains reports residency without promoting the entry.
func (c *cache[K, V]) Contains(k K) bool {
	_, ok := c.Peek(k)
	return ok
}

// Delete removes an entry by key. Returns true if the entry existed.
// Explicit deletes are not evictions: no Evict metric, no OnEvict callback.
func (c *cache[K, V]) Delete(k K) bool {
	e, ok := c.m[k]
	if !ok {
		return false
	}
	c.pol.OnRemove(e)
	c.unlink(e)
	delete(c.m, k)
	c.opt.Metrics.Size(c.len, c.cost)
	return true
}

// Clear resets the cache to its initial empty state in O(1):
// a fresh index, relinked sentinels, and a fresh policy instance.
// The old nodes are reclaimed by the GC as a whole.
func (c *cache[K, V]) Clear() {
	c.m = make(map[K]*entry[K, V])
	c.head.next = c.tail
	c.tail.prev = c.head
	c.len = 0
	c.cost = 0
	c.pol = c.opt.Policy.New(hooks[K, V]{c: c})
	c.opt.Metrics.Size(0, 0)
}

// Len returns the number of resident entries.
func (c *cache[K, V]) Len() int { return c.len }

// Cap returns the configured capacity.
func (c *cache[K, V]) Cap() int { return c.cap }

// Keys returns resident keys in recency order, MRU first.
func (c *cache[K, V]) Keys() []K {
	ks := make([]K, 0, c.len)
	for e := c.head.next; e != c.tail; e = e.next {
		ks = append(ks, e.key)
	}
	return ks
}

// Oldest returns the current eviction candidate without removing it.
func (c *cache[K, V]) Oldest() (K, V, bool) {
	if e := c.back(); e != nil {
		return e.key, e.val, true
	}
	var k K
	var v V
	return k, v, false
}

// Resize changes the capacity and evicts LRU entries until the new limit
// holds. Returns the number of evictions. Negative capacity is rejected.
func (c *cache[K, V]) Resize(capacity int) (int, error) {
	if capacity < 0 {
		return 0, ErrInvalidCapacity
	}
	c.cap = capacity
	evicted := 0
	for c.len > c.cap {
		tail := c.back()
		if tail == nil {
			break
		}
		c.evict(tail, EvictCapacity)
		evicted++
	}
	c.opt.Metrics.Size(c.len, c.cost)
	return evicted, nil
}

// -------------------- internals --------------------

func (c *cache[K, V]) expired(e *entry[K, V]) bool {
	if e.exp == 0 {
		return false
	}
	return c.now() > e.exp
}

func (c *cache[K, V]) now() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// defaultDeadline returns an absolute deadline based on DefaultTTL.
func (c *cache[K, V]) defaultDeadline() int64 {
	if c.opt.DefaultTTL <= 0 {
		return 0
	}
	return c.deadline(c.opt.DefaultTTL)
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func (c *cache[K, V]) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return c.now() + int64(ttl)
}

// costOf computes the per-entry cost (clamped to int32 range).
func (c *cache[K, V]) costOf(v V) int32 {
	if c.opt.Cost == nil {
		return 0
	}
	iv := c.opt.Cost(v)
	if iv < 0 {
		iv = 0
	}
	if iv > math.MaxInt32 {
		iv = math.MaxInt32
	}
	return int32(iv)
}

// pushFront inserts e right after the head sentinel (MRU) in O(1).
// Sentinels guarantee e's neighbors are non-nil: four pointer writes, no branches.
func (c *cache[K, V]) pushFront(e *entry[K, V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
	c.len++
	c.cost += int64(e.cost)
}

// moveToFront promotes e to MRU in O(1).
func (c *cache[K, V]) moveToFront(e *entry[K, V]) {
	if c.head.next == e {
		return
	}
	// detach
	e.prev.next = e.next
	e.next.prev = e.prev
	// relink at MRU
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

// unlink removes e from the list and updates counters in O(1).
func (c *cache[K, V]) unlink(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	c.len--
	c.cost -= int64(e.cost)
	if c.cost < 0 {
		c.cost = 0
	}
}

// back returns the current LRU entry, or nil if the cache is empty.
func (c *cache[K, V]) back() *entry[K, V] {
	if c.len == 0 {
		return nil
	}
	return c.tail.prev
}

// evict removes the entry, updates metrics, and calls OnEvict.
func (c *cache[K, V]) evict(e *entry[K, V], reason EvictReason) {
	c.pol.OnRemove(e)
	c.unlink(e)
	delete(c.m, e.key)
	c.opt.Metrics.Evict(reason)
	if cb := c.opt.OnEvict; cb != nil {
		cb(e.key, e.val, reason)
	}
}

// enforceLimits evicts LRU entries until both count and cost limits are satisfied.
// An always-available eviction candidate is guaranteed whenever len > 0.
func (c *cache[K, V]) enforceLimits() {
	for c.len > c.cap {
		tail := c.back()
		if tail == nil {
			break
		}
		c.evict(tail, EvictCapacity)
	}
	if c.opt.MaxCost > 0 {
		for c.cost > c.opt.MaxCost {
			tail := c.back()
			if tail == nil {
				break
			}
			c.evict(tail, EvictCost)
		}
	}
	c.opt.Metrics.Size(c.len, c.cost)
}

// -------------------- policy hooks --------------------

// hooks adapts the cache's list operations to policy.Hooks.
type hooks[K comparable, V any] struct{ c *cache[K, V] }

func (h hooks[K, V]) MoveToFront(x policy.Node[K, V]) { h.c.moveToFront(x.(*entry[K, V])) }
func (h hooks[K, V]) PushFront(x policy.Node[K, V])   { h.c.pushFront(x.(*entry[K, V])) }
func (h hooks[K, V]) Remove(x policy.Node[K, V]) {
	// Policies detach list nodes only; index bookkeeping stays with the cache.
	h.c.unlink(x.(*entry[K, V]))
}
func (h hooks[K, V]) Back() policy.Node[K, V] {
	// Avoid handing policies a non-nil interface wrapping a nil *entry.
	if e := h.c.back(); e != nil {
		return e
	}
	return nil
}
func (h hooks[K, V]) Len() int { return h.c.len }
