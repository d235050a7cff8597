package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/toolvet/toolvet/internal/descriptor"
)

func TestCacheKey_StableAndDistinct(t *testing.T) {
	loadedAt := time.Now()
	a := &descriptor.Tool{ID: "resize", LoadedAt: loadedAt}
	b := &descriptor.Tool{ID: "resize", LoadedAt: loadedAt}

	if CacheKey(a) != CacheKey(b) {
		t.Fatal("same identity must derive the same key")
	}

	c := &descriptor.Tool{ID: "resize", LoadedAt: loadedAt.Add(time.Nanosecond)}
	if CacheKey(a) == CacheKey(c) {
		t.Fatal("different load times must derive different keys")
	}

	d := &descriptor.Tool{ID: "rotate", LoadedAt: loadedAt}
	if CacheKey(a) == CacheKey(d) {
		t.Fatal("different tool IDs must derive different keys")
	}
}

func TestResultCache_GetSetClear(t *testing.T) {
	c := NewResultCache()

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss on empty cache")
	}

	result := &ValidationResult{Valid: true, Score: 100}
	c.Set("k", result)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != result {
		t.Fatal("expected the stored result pointer")
	}
	if c.Len() != 1 {
		t.Fatalf("expected len 1, got %d", c.Len())
	}

	c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after clear")
	}
	if c.Len() != 0 {
		t.Fatalf("expected len 0 after clear, got %d", c.Len())
	}
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	c := NewResultCache()
	result := &ValidationResult{Valid: true, Score: 100}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set("k", result)
			c.Get("k")
			c.Len()
		}()
	}
	wg.Wait()

	if got, ok := c.Get("k"); !ok || got != result {
		t.Fatal("expected consistent entry after concurrent access")
	}
}

func BenchmarkResultCache_Get(b *testing.B) {
	c := NewResultCache()
	c.Set("k", &ValidationResult{Valid: true, Score: 100})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Get("k")
	}
}
