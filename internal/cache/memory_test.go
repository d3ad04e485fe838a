package cache

import (
	"testing"
	"time"
)

func newMemoryTestCache(t *testing.T, size int, onEvict EvictCallback) Cache {
	t.Helper()
	c, err := New("memory", ProviderConfig{Size: size, TTL: time.Hour, OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := newMemoryTestCache(t, 10, nil)

	val, ok, err := c.Get("missing")
	if err != nil || ok || val != nil {
		t.Fatalf("Get(missing) = %v, %v, %v; want nil, false, nil", val, ok, err)
	}

	if err := c.Set("key", []byte("value")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err = c.Get("key")
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if string(val) != "value" {
		t.Fatalf("Expected 'value', got %q", string(val))
	}
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	c := newMemoryTestCache(t, 10, nil)

	input := []byte("abc")
	_ = c.Set("k", input)
	input[0] = 'x'

	val, _, _ := c.Get("k")
	if string(val) != "abc" {
		t.Fatalf("Stored value changed with caller's slice: %q", string(val))
	}
	val[1] = 'y'
	again, _, _ := c.Get("k")
	if string(again) != "abc" {
		t.Fatalf("Stored value changed with returned slice: %q", string(again))
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newMemoryTestCache(t, 10, nil)

	_ = c.Set("k", []byte("v"))
	existed, err := c.Delete("k")
	if err != nil || !existed {
		t.Fatalf("Delete(k) = %v, %v; want true, nil", existed, err)
	}
	if c.Contains("k") {
		t.Fatal("Expected key to be gone after Delete")
	}

	existed, err = c.Delete("k")
	if err != nil || existed {
		t.Fatalf("Second Delete(k) = %v, %v; want false, nil", existed, err)
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	var evicted []string
	c := newMemoryTestCache(t, 2, func(key string, _ []byte) {
		evicted = append(evicted, key)
	})

	_ = c.Set("a", []byte("1"))
	_ = c.Set("b", []byte("2"))
	_ = c.Set("c", []byte("3"))

	if c.Contains("a") {
		t.Fatal("Expected 'a' to be evicted")
	}
	if c.Len() != 2 {
		t.Fatalf("Expected Len 2, got %d", c.Len())
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("Expected eviction of 'a', got %v", evicted)
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 10, TTL: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	defer c.Close()

	_ = c.Set("k", []byte("v"))
	time.Sleep(60 * time.Millisecond)

	if _, ok, _ := c.Get("k"); ok {
		t.Fatal("Expected entry to expire")
	}
}
