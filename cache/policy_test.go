package cache

import (
	"strconv"
	"testing"

	"github.com/IvanBrykalov/lrucache/policy/twoq"
)

// End-to-end 2Q behavior through the cache: a long scan of one-shot keys
// must not evict a mature entry, and a key seen again shortly after its
// probation eviction is readmitted straight into the mature queue.
func TestCache_TwoQScanResistance(t *testing.T) {
	t.Parallel()

	c, err := NewWithOptions(4, Options[string, string]{
		Policy: twoq.New[string, string](1, 8),
	})
	if err != nil {
		t.Fatal(err)
	}

	c.Put("hot", "v")
	if _, ok := c.Get("hot"); !ok { // promote out of probation into Am
		t.Fatal("hot must be resident")
	}

	for i := 0; i < 100; i++ {
		c.Put("scan:"+strconv.Itoa(i), "v")
	}

	if _, ok := c.Peek("hot"); !ok {
		t.Fatal("mature entry must survive the scan")
	}
	if n := c.Len(); n > c.Cap() {
		t.Fatalf("Len %d exceeds capacity %d", n, c.Cap())
	}

	// scan:95 was evicted from probation and is still in the ghost queue:
	// re-putting it admits to Am, so it survives further scanning.
	c.Put("scan:95", "v")
	for i := 100; i < 150; i++ {
		c.Put("scan:"+strconv.Itoa(i), "v")
	}
	if _, ok := c.Peek("scan:95"); !ok {
		t.Fatal("readmitted entry must survive further scanning")
	}
	if _, ok := c.Peek("hot"); !ok {
		t.Fatal("mature entry must still be resident")
	}
}

// Delete must keep 2Q bookkeeping consistent: a deleted probation key
// lands in ghosts and its readmission bypasses probation.
func TestCache_TwoQDeleteFeedsGhosts(t *testing.T) {
	t.Parallel()

	c, err := NewWithOptions(4, Options[string, string]{
		Policy: twoq.New[string, string](2, 4),
	})
	if err != nil {
		t.Fatal(err)
	}

	c.Put("a", "1")
	if !c.Delete("a") {
		t.Fatal("Delete a must be true")
	}

	c.Put("a", "2") // ghost hit -> Am
	c.Put("b", "1")
	c.Put("c", "1")
	c.Put("d", "1") // probation overflow evicts b, never a

	if v, ok := c.Peek("a"); !ok || v != "2" {
		t.Fatalf("a must be resident in Am, got %q ok=%v", v, ok)
	}
}
