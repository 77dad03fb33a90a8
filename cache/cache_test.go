package cache

import (
	"fmt"
	"testing"

	"github.com/david-basis/archmodel/sysml"
)

func TestNewModelCache(t *testing.T) {
	c := NewModelCache(100)
	if c.Len() != 0 {
		t.Error("new cache should be empty")
	}
}

func TestModelCachePutGet(t *testing.T) {
	c := NewModelCache(100)

	src := "package Demo { part def Engine; }"
	m, err := sysml.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c.Put(src, m)

	if got := c.Get(src); got != m {
		t.Error("should retrieve the identical model pointer")
	}
	if c.Get("package Other { }") != nil {
		t.Error("different source should miss")
	}

	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 1, 1", hits, misses)
	}
}

func TestModelCacheEviction(t *testing.T) {
	c := NewModelCache(2)

	sources := make([]string, 3)
	for i := range sources {
		sources[i] = fmt.Sprintf("package P%d { }", i)
		m, err := sysml.Parse(sources[i])
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		c.Put(sources[i], m)
	}

	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
	// FIFO: the first entry is gone, the newer two remain.
	if c.Get(sources[0]) != nil {
		t.Error("oldest entry should have been evicted")
	}
	if c.Get(sources[1]) == nil || c.Get(sources[2]) == nil {
		t.Error("newer entries should survive eviction")
	}
	if _, _, evictions := c.Stats(); evictions != 1 {
		t.Errorf("evictions = %d, want 1", evictions)
	}
}

func TestModelCacheUnbounded(t *testing.T) {
	c := NewModelCache(0)
	for i := 0; i < 10; i++ {
		src := fmt.Sprintf("package P%d { }", i)
		m, _ := sysml.Parse(src)
		c.Put(src, m)
	}
	if c.Len() != 10 {
		t.Errorf("len = %d, want 10", c.Len())
	}
}

func TestModelCacheClear(t *testing.T) {
	c := NewModelCache(10)
	m, _ := sysml.Parse("package P { }")
	c.Put("package P { }", m)
	c.Get("package P { }")

	c.Clear()
	if c.Len() != 0 {
		t.Error("cache should be empty after Clear")
	}
	if hits, misses, evictions := c.Stats(); hits != 0 || misses != 0 || evictions != 0 {
		t.Errorf("counters not reset: %d %d %d", hits, misses, evictions)
	}
}
