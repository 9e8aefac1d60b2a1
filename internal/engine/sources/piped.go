package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
)

type pipedItem struct {
	URL       string `json:"url"` // "/watch?v=<id>"
	Type      string `json:"type"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration"`
}

// pipedSearchResp accepts both the {"items": [...]} envelope and a bare array,
// since mirrors differ.
type pipedSearchResp struct {
	Items []pipedItem `json:"items"`
}

func (r *pipedSearchResp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &r.Items)
	}
	var env struct {
		Items []pipedItem `json:"items"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	r.Items = env.Items
	return nil
}

// Piped searches a community Piped mirror (/search).
type Piped struct {
	client *engine.Client
	base   string
}

func NewPiped(client *engine.Client, base string) *Piped {
	return &Piped{client: client, base: strings.TrimRight(base, "/")}
}

func (p *Piped) Name() string { return "piped" }

func (p *Piped) Search(ctx context.Context, query string) (*engine.VideoMetadata, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("filter", "videos")

	var resp pipedSearchResp
	if err := p.client.GetJSON(ctx, p.base+"/search", params, &resp); err != nil {
		return nil, fmt.Errorf("piped search: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoResults
	}
	first := resp.Items[0]
	id := pipedVideoID(first.URL)
	if !IsVideoID(id) || first.Title == "" {
		return nil, ErrIncomplete
	}
	// live streams report -1
	secs := max(first.Duration, 0)
	return newMetadata(p.Name(), id, first.Title, FormatSeconds(secs), first.Thumbnail, secs), nil
}

// pipedVideoID takes the substring after the final '='.
func pipedVideoID(u string) string {
	if i := strings.LastIndexByte(u, '='); i >= 0 {
		return u[i+1:]
	}
	return ""
}
