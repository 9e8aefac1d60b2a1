package toolserver

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_yt/internal/cookies"
	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/anatolykoptev/go_yt/internal/toggle"
	"github.com/anatolykoptev/go_yt/internal/youtube"
	"github.com/anatolykoptev/go_yt/internal/ytdlp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct{ v *engine.VideoMetadata }

func (stubBackend) Name() string { return "piped" }

func (b stubBackend) Search(context.Context, string) (*engine.VideoMetadata, error) {
	if b.v == nil {
		return nil, sources.ErrNoResults
	}
	return b.v, nil
}

func (b stubBackend) SearchN(context.Context, string, int) ([]engine.VideoMetadata, error) {
	if b.v == nil {
		return nil, sources.ErrNoResults
	}
	return []engine.VideoMetadata{*b.v}, nil
}

type stubRunner struct {
	calls    atomic.Int32
	playlist string
	stream   string
}

func (r *stubRunner) Run(_ context.Context, cmd *ytdlp.Command, args ...string) (string, string, error) {
	r.calls.Add(1)
	flat := ytdlp.Args(cmd, args...)
	switch {
	case slices.Contains(flat, "--get-id"):
		return r.playlist, "", nil
	case slices.Contains(flat, "--get-url"):
		return r.stream, "", nil
	}
	return "", "", nil
}

type countingProber struct {
	calls atomic.Int32
	info  *ytdlp.Info
}

func (p *countingProber) Probe(context.Context, string, string) (*ytdlp.Info, error) {
	p.calls.Add(1)
	return p.info, nil
}

type nopDownloader struct{}

func (nopDownloader) Download(context.Context, string, ytdlp.DownloadOptions) error { return nil }

func newTools(t *testing.T, v *engine.VideoMetadata, runner *stubRunner, prober *countingProber, toggles toggle.Store) *tools {
	t.Helper()
	if runner == nil {
		runner = &stubRunner{}
	}
	if prober == nil {
		prober = &countingProber{info: &ytdlp.Info{}}
	}
	b := stubBackend{v: v}
	api := youtube.New(engine.Config{}, youtube.Deps{
		Backends:   []sources.Backend{b},
		Scraper:    b,
		Runner:     runner,
		Downloader: nopDownloader{},
		Prober:     prober,
		Cookies:    cookies.Static("cookies/a.txt"),
		Toggles:    toggles,
		FS:         afero.NewMemMapFs(),
	})
	cache := engine.NewCache("", time.Minute, 100, time.Minute)
	t.Cleanup(cache.Close)
	return &tools{api: api, cache: cache, toggles: toggles}
}

func TestRegisterTools(t *testing.T) {
	tl := newTools(t, nil, nil, nil, nil)
	server := mcp.NewServer(&mcp.Implementation{Name: "go_yt", Version: "test"}, nil)
	assert.Equal(t, 10, RegisterTools(server, tl.api, nil, toggle.NewStatic(nil)))

	readOnly := mcp.NewServer(&mcp.Implementation{Name: "go_yt", Version: "test"}, nil)
	assert.Equal(t, 9, RegisterTools(readOnly, tl.api, nil, nil))
}

func TestDetailsTool(t *testing.T) {
	ctx := context.Background()
	tl := newTools(t, &engine.VideoMetadata{Title: "Song", Duration: "3:33", VideoID: "dQw4w9WgXcQ"}, nil, nil, nil)

	_, out, err := tl.details(ctx, nil, engine.DetailsInput{Ref: " dQw4w9WgXcQ ", IsID: true})
	require.NoError(t, err)
	assert.Equal(t, "Song", out.Title)
	assert.Equal(t, 213, out.DurationSeconds)

	_, _, err = tl.details(ctx, nil, engine.DetailsInput{})
	assert.Error(t, err)

	unknown := newTools(t, nil, nil, nil, nil)
	_, out, err = unknown.details(ctx, nil, engine.DetailsInput{Ref: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, youtube.Unknown(), out)
}

func TestSearchTool(t *testing.T) {
	ctx := context.Background()
	_, out, err := newTools(t, nil, nil, nil, nil).search(ctx, nil, engine.SearchInput{Query: "nothing"})
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, "Unknown", out.Video.Title)

	_, out, err = newTools(t, &engine.VideoMetadata{Title: "Hit", VideoID: "aaaaaaaaaaa"}, nil, nil, nil).
		search(ctx, nil, engine.SearchInput{Query: "hit"})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, "aaaaaaaaaaa", out.Video.VideoID)

	_, _, err = newTools(t, nil, nil, nil, nil).search(ctx, nil, engine.SearchInput{Query: "  "})
	assert.Error(t, err)
}

func TestTrackAndSliderTools(t *testing.T) {
	ctx := context.Background()
	tl := newTools(t, &engine.VideoMetadata{Title: "Hit", Duration: "1:00", VideoID: "aaaaaaaaaaa"}, nil, nil, nil)

	_, tr, err := tl.track(ctx, nil, engine.DetailsInput{Ref: "hit"})
	require.NoError(t, err)
	assert.True(t, tr.Found)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", tr.Track.Link)

	_, item, err := tl.slider(ctx, nil, engine.SliderInput{Query: "hit", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "Hit", item.Title)
	_, item, err = tl.slider(ctx, nil, engine.SliderInput{Query: "hit", Index: 4})
	require.NoError(t, err)
	assert.Equal(t, engine.SliderItem{Duration: "0:00"}, item)
}

func TestFormatsToolCachesProbe(t *testing.T) {
	ctx := context.Background()
	prober := &countingProber{info: &ytdlp.Info{Formats: []ytdlp.FormatInfo{{FormatID: "18", Format: "18 - 360p", Ext: "mp4"}}}}
	tl := newTools(t, nil, nil, prober, nil)

	for range 2 {
		_, out, err := tl.formats(ctx, nil, engine.FormatsInput{Ref: "dQw4w9WgXcQ", IsID: true})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", out.Formats[0].URL)
	}
	assert.Equal(t, int32(1), prober.calls.Load())
}

func TestPlaylistTool(t *testing.T) {
	ctx := context.Background()
	runner := &stubRunner{playlist: "aaaaaaaaaaa\nbbbbbbbbbbb\n"}
	tl := newTools(t, nil, runner, nil, nil)

	_, out, err := tl.playlist(ctx, nil, engine.PlaylistInput{Ref: "PLx", IsID: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, engine.PlaylistOutput{Ref: "https://youtube.com/playlist?list=PLx", Count: 1, IDs: []string{"aaaaaaaaaaa"}}, out)

	_, _, err = tl.playlist(ctx, nil, engine.PlaylistInput{Ref: "PLx", IsID: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), runner.calls.Load(), "second call should come from cache")
}

func TestDownloadTool(t *testing.T) {
	ctx := context.Background()
	toggles := toggle.NewStatic(nil)
	runner := &stubRunner{stream: "https://direct.example/v"}
	tl := newTools(t, nil, runner, nil, toggles)

	_, res, err := tl.download(ctx, nil, engine.DownloadInput{Ref: "dQw4w9WgXcQ", IsID: true, Mode: "video"})
	require.NoError(t, err)
	assert.Equal(t, engine.DownloadResult{URL: "https://direct.example/v"}, res)

	_, _, err = tl.download(ctx, nil, engine.DownloadInput{Ref: "dQw4w9WgXcQ", IsID: true, Mode: "flac"})
	assert.ErrorIs(t, err, youtube.ErrInvalidIntent)

	_, _, err = tl.download(ctx, nil, engine.DownloadInput{Ref: "dQw4w9WgXcQ", IsID: true, Mode: "song_video"})
	assert.ErrorIs(t, err, youtube.ErrInvalidIntent)
}

func TestToggleTool(t *testing.T) {
	ctx := context.Background()
	toggles := toggle.NewStatic(nil)
	tl := newTools(t, nil, nil, nil, toggles)

	_, out, err := tl.setToggle(ctx, nil, engine.ToggleInput{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, engine.ToggleOutput{Key: toggle.PreferFullDownload, Enabled: true}, out)
	on, _ := toggles.Enabled(ctx, toggle.PreferFullDownload)
	assert.True(t, on)

	readOnly := newTools(t, nil, nil, nil, nil)
	_, _, err = readOnly.setToggle(ctx, nil, engine.ToggleInput{Enabled: true})
	assert.Error(t, err)
}
