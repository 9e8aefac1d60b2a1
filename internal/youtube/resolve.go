package youtube

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
)

const sliderLimit = 10

// Unknown is the record returned when no source could resolve a reference.
// An empty VideoID is how callers tell it apart from real data.
func Unknown() engine.VideoMetadata {
	return engine.VideoMetadata{Title: "Unknown", Duration: "0:00"}
}

// wellFormed reports whether v can be returned to callers. With wantID set,
// the record must describe that exact video.
func wellFormed(v *engine.VideoMetadata, wantID string) bool {
	if v == nil || !sources.IsVideoID(v.VideoID) || v.Title == "" {
		return false
	}
	return wantID == "" || v.VideoID == wantID
}

// Search tries every backend in priority order and returns the first
// well-formed result. Later backends never run once one succeeds.
func (a *API) Search(ctx context.Context, query string) (*engine.VideoMetadata, error) {
	return a.search(ctx, query, "")
}

func (a *API) search(ctx context.Context, query, wantID string) (*engine.VideoMetadata, error) {
	for _, b := range a.backends {
		engine.IncrBackendSearch(b.Name())
		v, err := b.Search(ctx, query)
		if err == nil && wellFormed(v, wantID) {
			slog.Debug("youtube: resolved", slog.String("backend", b.Name()), slog.String("id", v.VideoID))
			return v, nil
		}
		engine.IncrBackendFailure()
		if err == nil {
			err = sources.ErrIncomplete
		}
		slog.Debug("youtube: backend failed, falling through", slog.String("backend", b.Name()), slog.Any("error", err))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, ErrNotFound
}

// pageSearch is the last resort on the raw reference text.
func (a *API) pageSearch(ctx context.Context, link string) *engine.VideoMetadata {
	if a.scraper == nil {
		return nil
	}
	engine.IncrBackendSearch(a.scraper.Name())
	v, err := a.scraper.Search(ctx, link)
	if err != nil || !wellFormed(v, "") {
		slog.Debug("youtube: page search failed", slog.String("ref", link), slog.Any("error", err))
		return nil
	}
	return v
}

// Details resolves ref to its canonical record. The id is extracted once and
// searched through the backend chain; failing that, the page scraper searches
// the raw reference. When nothing works the Unknown record is returned.
func (a *API) Details(ctx context.Context, ref string, isID bool) engine.VideoMetadata {
	link := sources.NormalizeLink(ref, isID)

	var v *engine.VideoMetadata
	if id := sources.ExtractVideoID(link); id != "" {
		v, _ = a.search(ctx, id, id)
	}
	if v == nil {
		v = a.pageSearch(ctx, link)
	}
	if v == nil {
		engine.IncrUnknownResult()
		slog.Warn("youtube: all sources failed", slog.String("ref", link))
		return Unknown()
	}
	out := *v
	out.DurationSeconds = sources.DurationToSeconds(out.Duration)
	return out
}

func (a *API) Title(ctx context.Context, ref string, isID bool) string {
	return a.Details(ctx, ref, isID).Title
}

func (a *API) Duration(ctx context.Context, ref string, isID bool) string {
	return a.Details(ctx, ref, isID).Duration
}

func (a *API) Thumbnail(ctx context.Context, ref string, isID bool) string {
	return a.Details(ctx, ref, isID).Thumbnail
}

// Track resolves ref for the play queue. Without an extractable id the whole
// backend chain searches the reference text.
func (a *API) Track(ctx context.Context, ref string, isID bool) (engine.Track, string) {
	link := sources.NormalizeLink(ref, isID)
	id := sources.ExtractVideoID(link)
	query := id
	if query == "" {
		query = link
	}

	v, err := a.search(ctx, query, id)
	if err != nil && id != "" {
		v = a.pageSearch(ctx, link)
	}
	if v == nil {
		return engine.Track{}, ""
	}
	return engine.Track{
		Title:       v.Title,
		Link:        sources.WatchURL(v.VideoID),
		VideoID:     v.VideoID,
		DurationMin: v.Duration,
		Thumb:       v.Thumbnail,
	}, v.VideoID
}

// Slider returns the index-th of up to ten page results for ref, or an
// empty item with duration "0:00" when there are not enough results.
func (a *API) Slider(ctx context.Context, ref string, isID bool, index int) engine.SliderItem {
	empty := engine.SliderItem{Duration: "0:00"}
	if a.scraper == nil || index < 0 {
		return empty
	}
	link := sources.NormalizeLink(ref, isID)
	results, err := a.scraper.SearchN(ctx, link, sliderLimit)
	if err != nil || len(results) <= index {
		return empty
	}
	item := results[index]
	return engine.SliderItem{
		Title:     item.Title,
		Duration:  item.Duration,
		Thumbnail: item.Thumbnail,
		VideoID:   item.VideoID,
	}
}

// Exists reports whether ref is a YouTube link.
func (a *API) Exists(ref string, isID bool) bool {
	if isID {
		ref = sources.WatchURL(ref)
	}
	return sources.IsYouTubeURL(ref)
}
