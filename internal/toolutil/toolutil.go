// Package toolutil provides shared helper functions for go_yt MCP tools.
package toolutil

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
)

// ErrRefRequired is returned by tools called without a reference.
var ErrRefRequired = errors.New("ref is required")

// NormRef trims a tool-supplied reference and rejects empty ones.
func NormRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrRefRequired
	}
	return ref, nil
}

// ClampLimit returns def for n <= 0 and caps n at ceiling.
func ClampLimit(n, def, ceiling int) int {
	if n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

// CacheLoadJSON tries to load a cached value of type T from c.
// Returns the decoded value and true on hit; zero value and false on miss or decode error.
func CacheLoadJSON[T any](ctx context.Context, c *engine.Cache, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it in c.
func CacheStoreJSON[T any](ctx context.Context, c *engine.Cache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data)
}
