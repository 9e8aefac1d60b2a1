package sources

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_yt/internal/engine"
)

var (
	// ErrNoResults means the backend answered but had no usable video.
	ErrNoResults = errors.New("no results")
	// ErrIncomplete means the first result lacks a field every record needs.
	ErrIncomplete = errors.New("incomplete result")
	// ErrNoAPIKey means the official API backend has no key configured.
	ErrNoAPIKey = errors.New("no api key configured")
)

// Backend is one metadata/search service. Each adapter normalizes its native
// response into engine.VideoMetadata with the same field set.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string) (*engine.VideoMetadata, error)
}

func newMetadata(source, id, title, duration, thumb string, seconds int) *engine.VideoMetadata {
	return &engine.VideoMetadata{
		Title:           title,
		Duration:        duration,
		DurationSeconds: max(seconds, 0),
		Thumbnail:       thumb,
		VideoID:         id,
		Link:            WatchURL(id),
		Source:          source,
	}
}
