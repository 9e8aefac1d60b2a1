package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
)

type invidiousVideo struct {
	Type            string `json:"type"`
	Title           string `json:"title"`
	VideoID         string `json:"videoId"`
	LengthSeconds   int    `json:"lengthSeconds"`
	VideoThumbnails []struct {
		Quality string `json:"quality"`
		URL     string `json:"url"`
	} `json:"videoThumbnails"`
}

// Invidious searches a community Invidious mirror (/api/v1/search).
type Invidious struct {
	client *engine.Client
	base   string
}

func NewInvidious(client *engine.Client, base string) *Invidious {
	return &Invidious{client: client, base: strings.TrimRight(base, "/")}
}

func (v *Invidious) Name() string { return "invidious" }

// Search returns the first result. An empty thumbnail list makes the result
// unusable, so the step fails rather than producing a partial record.
func (v *Invidious) Search(ctx context.Context, query string) (*engine.VideoMetadata, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "video")

	var results []invidiousVideo
	if err := v.client.GetJSON(ctx, v.base+"/search", params, &results); err != nil {
		return nil, fmt.Errorf("invidious search: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	first := results[0]
	if first.VideoID == "" || len(first.VideoThumbnails) == 0 {
		return nil, ErrIncomplete
	}
	return newMetadata(v.Name(), first.VideoID, first.Title, FormatSeconds(first.LengthSeconds),
		first.VideoThumbnails[0].URL, first.LengthSeconds), nil
}
