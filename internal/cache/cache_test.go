package cache

import (
	"sync"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](0)
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d/%d, want 1/1", hits, misses)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](2)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Get(1) // 2 becomes the oldest
	c.Set(3, 3)

	if _, ok := c.Get(2); ok {
		t.Error("key 2 should have been evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("key 1 should still be cached")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("key 3 should be cached")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCache_GetOrCreate(t *testing.T) {
	c := New[int, []uint16](4)
	calls := 0
	create := func() []uint16 {
		calls++
		return make([]uint16, 256)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.GetOrCreate(7, create); len(got) != 256 {
				t.Errorf("len = %d", len(got))
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[int, int](0)
	for i := range 10 {
		c.Set(i, i)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear", c.Len())
	}
	c.Set(1, 1)
	if v, ok := c.Get(1); !ok || v != 1 {
		t.Error("cache unusable after Clear")
	}
}
