package policy

// Node is the minimal contract a cache entry must satisfy for a policy.
// It provides read-only access to the key and a pointer to the value.
// The pointer allows in-place updates without re-linking the intrusive node.
type Node[K comparable, V any] interface {
	Key() K
	Value() *V
}

// Hooks expose O(1) list operations that a policy can use to manipulate
// the cache's intrusive MRU/LRU list. Implementations are provided by the cache.
//
// The cache is unsynchronized: every hook call happens inline on the caller's
// goroutine, as part of the Get/Put/Delete that triggered it.
// Important: hooks manage only the list; the cache owns the key->entry index.
type Hooks[K comparable, V any] interface {
	// MoveToFront promotes the node to MRU.
	MoveToFront(Node[K, V])
	// PushFront inserts the node at MRU (used on admission).
	PushFront(Node[K, V])
	// Remove detaches the node from the list (index bookkeeping is done by the cache).
	Remove(Node[K, V])
	// Back returns the current LRU node (or nil if empty).
	Back() Node[K, V]
	// Len returns the number of resident nodes in the cache.
	Len() int
}

// CachePolicy is a policy instance bound to a particular cache's hooks.
// All methods run inline inside the cache operation that triggered them.
//
// Semantics:
//   - OnAdd may return an eviction candidate (e.g., LRU of a probation queue).
//     The cache will evict that node and subsequently call OnRemove for it.
//   - OnGet/OnUpdate typically promote the node (e.g., move to MRU).
//   - OnRemove is a notification to update policy-internal state
//     (e.g., maintain ghost queues). The cache performs actual deletion.
type CachePolicy[K comparable, V any] interface {
	OnAdd(Node[K, V]) (evict Node[K, V])
	OnGet(Node[K, V])
	OnUpdate(Node[K, V])
	OnRemove(Node[K, V])
}

// Policy is a factory that creates policy instances bound to a particular
// cache's hooks. Clear requests a fresh instance so that a policy never
// carries queue state across a reset.
type Policy[K comparable, V any] interface {
	New(Hooks[K, V]) CachePolicy[K, V]
}
