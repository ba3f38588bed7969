// Package cache provides a generic, fixed-capacity in-memory cache with
// pluggable eviction policies (LRU by default), per-entry TTL, an optional
// miss Loader, lightweight metrics hooks, and cost-based capacity.
//
// Design
//
//   - Concurrency: there is none. The cache is single-threaded by contract:
//     no method locks, blocks, or yields, and every operation runs to
//     completion on the caller's goroutine. Sharing an instance across
//     goroutines requires external serialization (a mutex held for the
//     duration of each call); see cmd/bench for a worked example.
//
//   - Storage: a map[K]*entry for lookups plus an intrusive MRU↔LRU doubly
//     linked list for ordering. The list is bounded by two permanent
//     sentinel nodes, so every insert and unlink is the same four-pointer
//     update regardless of position or emptiness. The map and the list hold
//     exactly the same key set at every operation boundary. All operations
//     are O(1) expected.
//
//   - Capacity: a non-negative entry count fixed at construction (Resize
//     excepted). Capacity 0 is legal and degenerate: the cache retains
//     nothing and Put is a no-op. Negative capacity is ErrInvalidCapacity.
//
//   - Misses: Get reports absence through its second return value, never
//     through a zero value — the zero value of V may be legitimately stored.
//
//   - Policies: eviction policy is pluggable via the policy package.
//     LRU is the default. A 2Q policy is provided (resists scan pollution).
//
//   - TTL: entries can have per-item deadlines (UnixNano). Expiration is
//     lazy on access; there is no background sweeper to stop or close.
//
//   - Cost/MaxCost: besides entry count, you may account a user-defined
//     "cost" per value (Options.Cost) and enforce a MaxCost budget.
//
//   - GetOrLoad: loads through Options.Loader on miss, inline. There is no
//     singleflight here — a single-threaded cache has no concurrent loads
//     to coalesce. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug a Prometheus adapter to export
//     metrics (see metrics/prom).
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every eviction
//     (reason is one of EvictCapacity, EvictTTL, EvictCost). Explicit
//     Delete and Clear are not evictions and do not fire it.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](10_000)
//	if err != nil { ... }
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Delete("a")
//
// With TTL
//
//	c, _ := cache.New[string, string](1024)
//	c.PutWithTTL("tmp", "v", 200*time.Millisecond)
//	time.Sleep(300 * time.Millisecond)
//	_, ok := c.Get("tmp") // ok == false (expired)
//
// With GetOrLoad
//
//	c, _ := cache.NewWithOptions(1024, cache.Options[string, string]{
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Using an alternative policy (2Q)
//
//	c, _ := cache.NewWithOptions(50_000, cache.Options[string, string]{
//	    Policy: twoq.New[string, string](12_500 /* A1in ≈ 25% */, 25_000 /* ghosts */),
//	})
//
// Exporting metrics (example Prometheus adapter)
//
//	m := prom.New(nil, "lrucache", "demo", nil) // implements Metrics
//	c, _ := cache.NewWithOptions(10_000, cache.Options[string, []byte]{
//	    Metrics: m,
//	})
//
// See options.go for all available Options fields and package policy for the
// Policy/Hooks interfaces used to implement custom strategies.
package cache
