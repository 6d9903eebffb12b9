package gallery

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("empty cache returned a hit")
	}
	if err := c.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	body, ok, err := c.Get(ctx, "a")
	if err != nil || !ok || string(body) != "1" {
		t.Errorf("Get = %q, %v, %v", body, ok, err)
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"))
	_ = c.Set(ctx, "b", []byte("2"))
	_, _, _ = c.Get(ctx, "a") // a is now most recent
	_ = c.Set(ctx, "c", []byte("3"))

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Error("expected a to survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(10, 20*time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"))
	time.Sleep(60 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("expected entry to expire")
	}
}

// TestRedisCache runs against a real server when GALLERY_TEST_REDIS_ADDR is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("GALLERY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GALLERY_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisOptions{
		Addr:   addr,
		Prefix: "gallery-test:" + t.Name() + ":",
		TTL:    time.Minute,
	})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close() //nolint:errcheck

	key := Query{SearchTerm: "cats"}.Key()
	if _, ok, err := c.Get(ctx, key+time.Now().String()); err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, key, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	body, ok, err := c.Get(ctx, key)
	if err != nil || !ok || string(body) != `[{"id":"1"}]` {
		t.Errorf("Get = %q, %v, %v", body, ok, err)
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("expected error for unreachable redis")
	}
}
