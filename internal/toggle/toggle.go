// Package toggle stores the runtime on/off switches the adapter consults.
package toggle

import (
	"context"
	"sync"
)

// PreferFullDownload makes video requests download the file instead of
// extracting a direct stream URL.
const PreferFullDownload = 1

// Store answers whether a numbered feature switch is on.
type Store interface {
	Enabled(ctx context.Context, key int) (bool, error)
}

// Setter is implemented by stores that can flip switches.
type Setter interface {
	Set(ctx context.Context, key int, on bool) error
}

// Static is an in-memory store, used when no database is configured.
type Static struct {
	mu sync.RWMutex
	on map[int]bool
}

func NewStatic(on map[int]bool) *Static {
	s := &Static{on: make(map[int]bool, len(on))}
	for k, v := range on {
		s.on[k] = v
	}
	return s
}

func (s *Static) Enabled(_ context.Context, key int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.on[key], nil
}

func (s *Static) Set(_ context.Context, key int, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on[key] = on
	return nil
}
