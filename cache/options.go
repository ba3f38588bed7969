package cache

import (
	"context"
	"time"

	"github.com/IvanBrykalov/lrucache/policy"
)

// EvictReason explains why an entry was removed.
// Explicit Delete and Clear are not evictions and carry no reason.
type EvictReason int

const (
	// EvictCapacity — removed to satisfy the entry-count limit
	// (including shrinking via Resize and policy-proposed admissions).
	EvictCapacity EvictReason = iota
	// EvictTTL — expired by TTL (lazy eviction on access).
	EvictTTL
	// EvictCost — removed to satisfy the MaxCost limit.
	EvictCost
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// Calls happen inline inside cache operations; keep implementations cheap.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, cost int64)
}

// Clock provides time in UnixNano; useful for deterministic TTL tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. The zero value is safe;
// defaults are applied in NewWithOptions():
//   - nil Policy   => LRU
//   - nil Metrics  => NoopMetrics
//   - nil Clock    => time.Now()
type Options[K comparable, V any] struct {
	// Policy is a pluggable eviction policy (LRU/2Q/…); nil => LRU by default.
	Policy policy.Policy[K, V]

	// DefaultTTL applies to Add/Put when per-key TTL is not provided (0 = no TTL).
	DefaultTTL time.Duration

	// Cost-based limiting (e.g., bytes). If Cost is non-nil and MaxCost > 0,
	// the cache evicts until both entry count and total cost limits are satisfied.
	Cost    func(v V) int // nil = all entries have equal cost (0)
	MaxCost int64         // total cost limit; 0 disables cost limiting

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called for every eviction (capacity/TTL/cost), inline in the
	// operation that triggered it. Explicit Delete/Clear do not fire it.
	OnEvict func(k K, v V, reason EvictReason)
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}
