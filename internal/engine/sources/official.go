package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
)

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type ytDataVideosResp struct {
	Items []ytDataVideo `json:"items"`
}

type ytDataVideo struct {
	ID      string `json:"id"`
	Snippet struct {
		Title      string                     `json:"title"`
		Thumbnails map[string]ytDataThumbnail `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

type ytDataThumbnail struct {
	URL string `json:"url"`
}

// OfficialAPI searches via the YouTube Data API v3: one search call for the
// id, then one videos call for duration and thumbnail.
type OfficialAPI struct {
	client *engine.Client
	base   string
	keys   []string
}

// NewOfficialAPI builds the adapter. Empty keys are ignored; later keys are
// only tried after a quota error on the previous one.
func NewOfficialAPI(client *engine.Client, base string, keys ...string) *OfficialAPI {
	o := &OfficialAPI{client: client, base: strings.TrimRight(base, "/")}
	for _, k := range keys {
		if k != "" {
			o.keys = append(o.keys, k)
		}
	}
	return o
}

func (o *OfficialAPI) Name() string { return "official" }

func (o *OfficialAPI) Search(ctx context.Context, query string) (*engine.VideoMetadata, error) {
	if len(o.keys) == 0 {
		return nil, ErrNoAPIKey
	}
	var lastErr error
	for i, key := range o.keys {
		v, err := o.searchWithKey(ctx, query, key)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !errors.Is(err, engine.ErrQuotaExceeded) {
			break
		}
		if i+1 < len(o.keys) {
			slog.Debug("youtube data API quota exceeded, trying fallback key")
		}
	}
	return nil, lastErr
}

func (o *OfficialAPI) searchWithKey(ctx context.Context, query, key string) (*engine.VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("key", key)
	params.Set("maxResults", "1")
	params.Set("type", "video")

	var search ytDataSearchResp
	if err := o.client.GetJSON(ctx, o.base+"/search", params, &search); err != nil {
		return nil, fmt.Errorf("youtube data API search: %w", err)
	}
	if len(search.Items) == 0 || search.Items[0].ID.VideoID == "" {
		return nil, ErrNoResults
	}
	id := search.Items[0].ID.VideoID

	params = url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", id)
	params.Set("key", key)

	var details ytDataVideosResp
	if err := o.client.GetJSON(ctx, o.base+"/videos", params, &details); err != nil {
		return nil, fmt.Errorf("youtube data API videos: %w", err)
	}
	if len(details.Items) == 0 {
		return nil, fmt.Errorf("youtube data API videos %s: %w", id, ErrNoResults)
	}
	v := details.Items[0]
	if v.Snippet.Title == "" {
		return nil, ErrIncomplete
	}

	duration := ParseISODuration(v.ContentDetails.Duration)
	return newMetadata(o.Name(), id, v.Snippet.Title, duration, pickThumbnail(v.Snippet.Thumbnails), DurationToSeconds(duration)), nil
}

func pickThumbnail(thumbs map[string]ytDataThumbnail) string {
	for _, q := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[q]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
