package cache

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Hour)
	c.Set("alberca", "9 a 21")
	c.Set("salon", "1 semana")
	c.Get("alberca")
	c.Set("basura", "L-M-V")

	if _, ok := c.Get("salon"); ok {
		t.Fatal("salon should have been evicted")
	}
	if v, ok := c.Get("alberca"); !ok || v != "9 a 21" {
		t.Fatal("recently used entry evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	clk := &clock{t: time.Date(2023, 10, 25, 9, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](10, time.Minute)
	c.now = clk.now

	c.Set("a", 1)
	c.Set("b", 2)
	clk.t = clk.t.Add(30 * time.Second)
	c.Set("c", 3)
	clk.t = clk.t.Add(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Fatal("a expired")
	}

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("swept %d, want 1 (b)", n)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatal("c should still be cached")
	}
}

func TestManagerStop(t *testing.T) {
	m := NewManager(nil)
	m.Register(NewLRUCache[int](1, time.Millisecond))
	m.StartCleanup(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	m.Stop()
}

func TestDelete(t *testing.T) {
	c := NewLRUCache[int](3, time.Hour)
	c.Set("x", 1)
	c.Delete("x")
	c.Delete("missing")
	if c.Size() != 0 {
		t.Fatal("delete did not remove the entry")
	}
}
