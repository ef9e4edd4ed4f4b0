package cache

import (
	"sync"
	"testing"
	"time"
)

func TestCache_SetGet_NoTTL(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1, 0)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected hit with value 1, got ok=%v v=%v", ok, v)
	}
	if c.Len() != 1 {
		t.Fatalf("expected Len=1, got %d", c.Len())
	}
}

func TestCache_TTL_Expiry(t *testing.T) {
	c := New[string, string]()

	// Freeze time via now indirection
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c.Set("k", "v", time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	base = base.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry excluded from Len, got %d", c.Len())
	}

	c.PurgeExpired()
	if len(c.items) != 0 {
		t.Fatalf("expected purge to drop expired entries")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1, 0)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(j, n, 0)
				c.Get(j)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() != 100 {
		t.Fatalf("expected 100 entries, got %d", c.Len())
	}
}
