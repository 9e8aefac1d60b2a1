package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_yt/internal/engine"
)

const ytSearchFilter = "EgIQAQ%3D%3D" // videos-only filter param

var errNoInitialData = errors.New("ytInitialData not found in YouTube search response")

// PageFetcher loads a results page body.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// HTTPFetcher fetches pages with a plain http.Client.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.UserAgentChrome)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search page status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
}

// BrowserFetcher fetches pages through the stealth client (Chrome TLS
// fingerprint, optional proxy pool).
type BrowserFetcher struct {
	Client *engine.BrowserClient
}

func (f BrowserFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, status, err := f.Client.Do("GET", pageURL, engine.ChromeHeaders(), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("youtube search page status %d", status)
	}
	return data, nil
}

// Scraper is the last-resort backend: it reads ytInitialData out of the
// public results page.
type Scraper struct {
	fetcher PageFetcher
	base    string
}

func NewScraper(fetcher PageFetcher, base string) *Scraper {
	return &Scraper{fetcher: fetcher, base: base}
}

func (s *Scraper) Name() string { return "scraper" }

func (s *Scraper) Search(ctx context.Context, query string) (*engine.VideoMetadata, error) {
	videos, err := s.SearchN(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	return &videos[0], nil
}

// SearchN returns up to limit results in page order. An empty page is ErrNoResults.
func (s *Scraper) SearchN(ctx context.Context, query string, limit int) ([]engine.VideoMetadata, error) {
	searchURL := s.base + "?search_query=" + url.QueryEscape(query) + "&sp=" + ytSearchFilter
	body, err := s.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}
	data, err := initialData(body)
	if err != nil {
		return nil, err
	}
	videos := extractVideosFromInitialData(data, limit)
	if len(videos) == 0 {
		return nil, ErrNoResults
	}
	return videos, nil
}

// initialData locates the ytInitialData object among the page's script tags.
func initialData(body []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse youtube search page: %w", err)
	}
	var data []byte
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		idx := strings.Index(text, "ytInitialData")
		if idx < 0 {
			return true
		}
		start := strings.IndexByte(text[idx:], '{')
		if start < 0 {
			return true
		}
		data = extractJSON([]byte(text[idx+start:]))
		return data == nil
	})
	if data == nil {
		return nil, errNoInitialData
	}
	return data, nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr, escaped := false, false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

type ytRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

type ytVideoRenderer struct {
	VideoID    string `json:"videoId"`
	Title      ytRuns `json:"title"`
	LengthText struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
}

// extractVideosFromInitialData recursively walks ytInitialData JSON for videoRenderer entries.
func extractVideosFromInitialData(data []byte, limit int) []engine.VideoMetadata {
	var results []engine.VideoMetadata
	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if len(results) >= limit {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(v, &obj); err == nil {
			if raw, ok := obj["videoRenderer"]; ok {
				var vr ytVideoRenderer
				if err := json.Unmarshal(raw, &vr); err == nil && vr.VideoID != "" {
					results = append(results, rendererMetadata(vr))
					return
				}
			}
			// map order is random; walk the well-known containers in order first
			for _, k := range []string{"contents", "twoColumnSearchResultsRenderer", "primaryContents",
				"sectionListRenderer", "itemSectionRenderer"} {
				if child, ok := obj[k]; ok {
					walk(child)
					delete(obj, k)
				}
			}
			for _, child := range obj {
				if len(results) >= limit {
					return
				}
				walk(child)
			}
			return
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil {
			for _, item := range arr {
				if len(results) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return results
}

func rendererMetadata(vr ytVideoRenderer) engine.VideoMetadata {
	title := ""
	if len(vr.Title.Runs) > 0 {
		title = vr.Title.Runs[0].Text
	}
	thumb := ""
	if len(vr.Thumbnail.Thumbnails) > 0 {
		thumb, _, _ = strings.Cut(vr.Thumbnail.Thumbnails[0].URL, "?")
	}
	duration := vr.LengthText.SimpleText
	if duration == "" {
		duration = "0:00"
	}
	return *newMetadata("scraper", vr.VideoID, title, duration, thumb, DurationToSeconds(duration))
}
