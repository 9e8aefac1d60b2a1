package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rickID = "dQw4w9WgXcQ"

func TestSearchShortCircuits(t *testing.T) {
	first := failing("official")
	second := &fakeBackend{name: "invidious", v: video(rickID, "Never Gonna Give You Up")}
	third := &fakeBackend{name: "piped", v: video("zzzzzzzzzzz", "Other")}
	api := newTestAPI(testDeps{backends: []sources.Backend{first, second, third}})

	got, err := api.Search(context.Background(), "rick astley")
	require.NoError(t, err)
	assert.Equal(t, rickID, got.VideoID)
	assert.Equal(t, 1, first.calls())
	assert.Equal(t, 1, second.calls())
	assert.Zero(t, third.calls(), "backend after a success must not run")
}

func TestSearchSkipsIncompleteResults(t *testing.T) {
	noTitle := &fakeBackend{name: "official", v: &engine.VideoMetadata{VideoID: rickID}}
	ok := &fakeBackend{name: "piped", v: video(rickID, "Song")}
	api := newTestAPI(testDeps{backends: []sources.Backend{noTitle, ok}})

	got, err := api.Search(context.Background(), "song")
	require.NoError(t, err)
	assert.Equal(t, "Song", got.Title)
}

func TestSearchSkipsNonVideoIDs(t *testing.T) {
	playlist := &fakeBackend{name: "piped", v: &engine.VideoMetadata{Title: "Mix", Duration: "0:00", VideoID: "PLabc"}}
	ok := &fakeBackend{name: "scraper", v: video(rickID, "Song")}
	api := newTestAPI(testDeps{backends: []sources.Backend{playlist, ok}})

	got, err := api.Search(context.Background(), "mix")
	require.NoError(t, err)
	assert.Equal(t, rickID, got.VideoID)
	assert.Equal(t, 1, ok.calls())
}

func TestSearchAllFail(t *testing.T) {
	api := newTestAPI(testDeps{backends: []sources.Backend{failing("official"), failing("piped")}})
	_, err := api.Search(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchStopsOnCancel(t *testing.T) {
	first := failing("official")
	second := &fakeBackend{name: "piped", v: video(rickID, "Song")}
	api := newTestAPI(testDeps{backends: []sources.Backend{first, second}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.Search(ctx, "song")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, second.calls())
}

func TestDetailsUnknown(t *testing.T) {
	scraper := failing("scraper")
	api := newTestAPI(testDeps{backends: []sources.Backend{failing("official"), scraper}, scraper: scraper})

	got := api.Details(context.Background(), "https://youtu.be/"+rickID, false)
	assert.Equal(t, Unknown(), got)
	assert.Empty(t, got.VideoID)
	assert.Equal(t, "Unknown", api.Title(context.Background(), rickID, true))
	assert.Equal(t, "0:00", api.Duration(context.Background(), rickID, true))
	assert.Empty(t, api.Thumbnail(context.Background(), rickID, true))
}

func TestDetailsSearchesByID(t *testing.T) {
	wrong := &fakeBackend{name: "invidious", v: video("zzzzzzzzzzz", "Cover version")}
	right := &fakeBackend{name: "piped", v: video(rickID, "Never Gonna Give You Up")}
	api := newTestAPI(testDeps{backends: []sources.Backend{wrong, right}})

	got := api.Details(context.Background(), "https://www.youtube.com/watch?v="+rickID+"&list=PL1&t=42", false)
	assert.Equal(t, rickID, got.VideoID)
	assert.Equal(t, 213, got.DurationSeconds)
	assert.Equal(t, []string{rickID}, wrong.queries)
	assert.Equal(t, []string{rickID}, right.queries)
}

func TestDetailsBareIDNeedsFlag(t *testing.T) {
	b := &fakeBackend{name: "piped", v: video(rickID, "Song")}
	scraper := &fakeBackend{name: "scraper", v: video("zzzzzzzzzzz", "Page hit")}
	api := newTestAPI(testDeps{backends: []sources.Backend{b}, scraper: scraper})

	got := api.Details(context.Background(), rickID, true)
	assert.Equal(t, rickID, got.VideoID)
	assert.Zero(t, scraper.calls())

	// without the flag a bare id is just search text
	got = api.Details(context.Background(), rickID, false)
	assert.Equal(t, "zzzzzzzzzzz", got.VideoID)
	assert.Equal(t, []string{rickID}, scraper.queries)
}

func TestDetailsThroughHTTPBackends(t *testing.T) {
	var officialHits, invidiousHits, pipedHits atomic.Int32

	official := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		officialHits.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"errors":[{"reason":"quotaExceeded"}]}}`)
	}))
	defer official.Close()
	invidious := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invidiousHits.Add(1)
		if q := r.URL.Query().Get("q"); q != rickID {
			t.Errorf("invidious q = %q, want %q", q, rickID)
		}
		_, _ = io.WriteString(w, `[{"type":"video","title":"Never Gonna Give You Up","videoId":"`+rickID+`",
			"lengthSeconds":213,"videoThumbnails":[{"quality":"high","url":"https://inv.example/hq.jpg"}]}]`)
	}))
	defer invidious.Close()
	piped := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pipedHits.Add(1)
	}))
	defer piped.Close()

	client := engine.NewClient(engine.Config{HTTPClient: http.DefaultClient, RetryBackoffStep: time.Millisecond})
	api := newTestAPI(testDeps{backends: []sources.Backend{
		sources.NewOfficialAPI(client, official.URL, "primary", "fallback"),
		sources.NewInvidious(client, invidious.URL),
		sources.NewPiped(client, piped.URL),
	}})

	got := api.Details(context.Background(), "https://youtu.be/"+rickID, false)
	assert.Equal(t, rickID, got.VideoID)
	assert.Equal(t, "3:33", got.Duration)
	assert.Equal(t, "invidious", got.Source)
	assert.Equal(t, int32(2), officialHits.Load(), "one attempt per key, quota is not retried")
	assert.Equal(t, int32(1), invidiousHits.Load())
	assert.Zero(t, pipedHits.Load())
}

func TestTrack(t *testing.T) {
	b := &fakeBackend{name: "piped", v: video(rickID, "Never Gonna Give You Up")}
	api := newTestAPI(testDeps{backends: []sources.Backend{b}})

	tr, id := api.Track(context.Background(), "never gonna", false)
	assert.Equal(t, rickID, id)
	assert.Equal(t, engine.Track{
		Title:       "Never Gonna Give You Up",
		Link:        "https://www.youtube.com/watch?v=" + rickID,
		VideoID:     rickID,
		DurationMin: "3:33",
		Thumb:       "https://i.ytimg.com/vi/" + rickID + "/hq.jpg",
	}, tr)
	assert.Equal(t, []string{"never gonna"}, b.queries)
}

func TestTrackFallsBackToPageSearch(t *testing.T) {
	scraper := &fakeBackend{name: "scraper", v: video(rickID, "From page")}
	api := newTestAPI(testDeps{backends: []sources.Backend{failing("official")}, scraper: scraper})

	tr, id := api.Track(context.Background(), rickID, true)
	assert.Equal(t, rickID, id)
	assert.Equal(t, "From page", tr.Title)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=" + rickID}, scraper.queries)

	empty := newTestAPI(testDeps{backends: []sources.Backend{failing("official")}})
	tr, id = empty.Track(context.Background(), "x", false)
	assert.Empty(t, id)
	assert.Equal(t, engine.Track{}, tr)
}

func TestSlider(t *testing.T) {
	var results []engine.VideoMetadata
	for _, id := range []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"} {
		results = append(results, *video(id, strings.ToUpper(id[:1])))
	}
	scraper := &fakeBackend{name: "scraper", results: results}
	api := newTestAPI(testDeps{scraper: scraper})

	got := api.Slider(context.Background(), "lofi", false, 1)
	assert.Equal(t, engine.SliderItem{
		Title: "B", Duration: "3:33", Thumbnail: "https://i.ytimg.com/vi/bbbbbbbbbbb/hq.jpg", VideoID: "bbbbbbbbbbb",
	}, got)

	assert.Equal(t, engine.SliderItem{Duration: "0:00"}, api.Slider(context.Background(), "lofi", false, 3))
	assert.Equal(t, engine.SliderItem{Duration: "0:00"}, api.Slider(context.Background(), "lofi", false, -1))

	broken := newTestAPI(testDeps{scraper: &fakeBackend{name: "scraper", err: errors.New("blocked")}})
	assert.Equal(t, engine.SliderItem{Duration: "0:00"}, broken.Slider(context.Background(), "lofi", false, 0))
}

func TestExists(t *testing.T) {
	api := newTestAPI(testDeps{})
	assert.True(t, api.Exists("https://youtu.be/"+rickID, false))
	assert.True(t, api.Exists("https://m.youtube.com/watch?v="+rickID, false))
	assert.True(t, api.Exists(rickID, true))
	assert.False(t, api.Exists("https://vimeo.com/123", false))
	assert.False(t, api.Exists(rickID, false))
}
