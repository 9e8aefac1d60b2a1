package toolutil

import (
	"context"
	"testing"
	"time"

	"github.com/anatolykoptev/go_yt/internal/engine"
)

func TestNormRef(t *testing.T) {
	if got, err := NormRef("  https://youtu.be/x \n"); err != nil || got != "https://youtu.be/x" {
		t.Errorf("NormRef() = %q, %v", got, err)
	}
	if _, err := NormRef("   "); err != ErrRefRequired {
		t.Errorf("NormRef(blank) error = %v, want ErrRefRequired", err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 25}, {-3, 25}, {10, 10}, {100, 100}, {500, 100},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.n, 25, 100); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCacheJSONRoundTrip(t *testing.T) {
	c := engine.NewCache("", time.Minute, 10, time.Minute)
	defer c.Close()
	ctx := context.Background()
	key := engine.CacheKey("youtube_details", "dQw4w9WgXcQ")

	if _, ok := CacheLoadJSON[engine.VideoMetadata](ctx, c, key); ok {
		t.Fatal("expected miss")
	}
	want := engine.VideoMetadata{Title: "Song", Duration: "3:33", DurationSeconds: 213, VideoID: "dQw4w9WgXcQ"}
	CacheStoreJSON(ctx, c, key, want)

	got, ok := CacheLoadJSON[engine.VideoMetadata](ctx, c, key)
	if !ok || got != want {
		t.Errorf("CacheLoadJSON() = %+v, %v; want %+v", got, ok, want)
	}

	c.Set(ctx, "bad", []byte("{"))
	if _, ok := CacheLoadJSON[engine.VideoMetadata](ctx, c, "bad"); ok {
		t.Error("corrupt entry should be a miss")
	}

	// nil cache is a permanent miss
	CacheStoreJSON(ctx, nil, key, want)
	if _, ok := CacheLoadJSON[engine.VideoMetadata](ctx, nil, key); ok {
		t.Error("nil cache should miss")
	}
}
