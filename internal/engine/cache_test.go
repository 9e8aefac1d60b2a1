package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("youtube_details", "dQw4w9WgXcQ")
		k2 := CacheKey("youtube_details", "dQw4w9WgXcQ")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("youtube_details", "a")
		k2 := CacheKey("youtube_formats", "a")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "yt:" {
			t.Errorf("expected yt: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache("", time.Minute, 100, 5*time.Minute)
	defer c.Close()

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := c.Get(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	c.Set(ctx, key, []byte("hello"))

	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCacheNil(t *testing.T) {
	var c *Cache
	c.Set(context.Background(), "k", []byte("v"))
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("nil cache should never hit")
	}
	c.Close()
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache("", time.Millisecond, 100, 5*time.Minute)
	defer c.Close()

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	c.Set(ctx, key, []byte("temp"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache("", time.Minute, 3, 5*time.Minute)
	defer c.Close()
	ctx := context.Background()

	for i := range 5 {
		c.Set(ctx, CacheKey("evict", fmt.Sprintf("item-%d", i)), []byte(fmt.Sprintf("v%d", i)))
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestCacheRedisL2(t *testing.T) {
	mr := miniredis.RunT(t)
	writer := NewCache("redis://"+mr.Addr(), time.Minute, 100, time.Minute)
	defer writer.Close()
	if writer.rdb == nil {
		t.Fatal("expected L2 enabled")
	}

	ctx := context.Background()
	key := CacheKey("youtube_playlist", "PLx", "5")
	writer.Set(ctx, key, []byte(`["aaaaaaaaaaa"]`))
	if !mr.Exists(key) {
		t.Fatal("expected value in redis")
	}

	// a fresh process only has L2
	reader := NewCache("redis://"+mr.Addr(), time.Minute, 100, time.Minute)
	defer reader.Close()
	got, ok := reader.Get(ctx, key)
	if !ok || string(got) != `["aaaaaaaaaaa"]` {
		t.Fatalf("L2 Get() = %q, %v", got, ok)
	}
	if _, ok := reader.l1.Load(key); !ok {
		t.Error("expected L2 hit to populate L1")
	}
}

func TestCacheStats(t *testing.T) {
	c := NewCache("", time.Minute, 100, 5*time.Minute)
	defer c.Close()
	hits0, misses0 := metrics.CacheHits.Load(), metrics.CacheMisses.Load()

	ctx := context.Background()
	key := CacheKey("stats", "test")

	c.Get(ctx, key)
	c.Set(ctx, key, []byte("x"))
	c.Get(ctx, key)

	if d := metrics.CacheHits.Load() - hits0; d != 1 {
		t.Errorf("hits delta = %d, want 1", d)
	}
	if d := metrics.CacheMisses.Load() - misses0; d != 1 {
		t.Errorf("misses delta = %d, want 1", d)
	}
}
