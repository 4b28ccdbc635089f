package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetSetDelete(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Get() on empty cache should miss")
	}

	c.Set("a", "value-a")
	got, found := c.Get("a")
	if !found || got != "value-a" {
		t.Errorf("Get(a) = %q, %v; want value-a, true", got, found)
	}

	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Error("Get() after Delete() should miss")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("k", 42)
	if _, found := c.Get("k"); !found {
		t.Fatal("fresh entry should hit")
	}

	time.Sleep(20 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired entry should miss")
	}
	if size := c.Size(); size != 0 {
		t.Errorf("Size() = %d after expired read, want 0", size)
	}
}

func TestEvictionAtCapacity(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	if size := c.Size(); size != 3 {
		t.Errorf("Size() = %d, want 3", size)
	}
	if _, found := c.Get("k0"); found {
		t.Error("oldest entry should have been evicted")
	}
	if _, found := c.Get("k3"); !found {
		t.Error("newest entry should survive")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)
	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Errorf("CleanExpired() = %d, want 2", cleaned)
	}
	if size := c.Size(); size != 0 {
		t.Errorf("Size() = %d after cleanup, want 0", size)
	}
}
