package youtube

import (
	"context"
	"slices"
	"sync"

	"github.com/anatolykoptev/go_yt/internal/cookies"
	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/anatolykoptev/go_yt/internal/toggle"
	"github.com/anatolykoptev/go_yt/internal/ytdlp"
	"github.com/spf13/afero"
)

type fakeBackend struct {
	name    string
	v       *engine.VideoMetadata
	err     error
	results []engine.VideoMetadata

	mu      sync.Mutex
	queries []string
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Search(_ context.Context, query string) (*engine.VideoMetadata, error) {
	b.mu.Lock()
	b.queries = append(b.queries, query)
	b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return b.v, nil
}

func (b *fakeBackend) SearchN(_ context.Context, query string, limit int) ([]engine.VideoMetadata, error) {
	b.mu.Lock()
	b.queries = append(b.queries, query)
	b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return b.results[:min(limit, len(b.results))], nil
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queries)
}

func failing(name string) *fakeBackend {
	return &fakeBackend{name: name, err: sources.ErrNoResults}
}

func video(id, title string) *engine.VideoMetadata {
	return &engine.VideoMetadata{
		Title: title, Duration: "3:33", Thumbnail: "https://i.ytimg.com/vi/" + id + "/hq.jpg",
		VideoID: id, Link: sources.WatchURL(id),
	}
}

// fakeRunner answers yt-dlp invocations by the flag that identifies them.
type fakeRunner struct {
	mu       sync.Mutex
	calls    [][]string
	stream   string
	filename string
	playlist string
	stderr   string
	err      error
}

func (r *fakeRunner) Run(_ context.Context, cmd *ytdlp.Command, args ...string) (string, string, error) {
	flat := ytdlp.Args(cmd, args...)
	r.mu.Lock()
	r.calls = append(r.calls, flat)
	r.mu.Unlock()

	var out string
	switch {
	case slices.Contains(flat, "--get-url"):
		out = r.stream
	case slices.Contains(flat, "--get-filename"):
		out = r.filename
	case slices.Contains(flat, "--get-id"):
		out = r.playlist
	}
	return out, r.stderr, r.err
}

func (r *fakeRunner) ran(flag string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if slices.Contains(c, flag) {
			n++
		}
	}
	return n
}

// fakeDownloader writes the file a real download would produce.
type fakeDownloader struct {
	fs   afero.Fs
	path string // file to create; empty writes nothing
	err  error
	gate chan struct{}

	mu    sync.Mutex
	opts  []ytdlp.DownloadOptions
	links []string
}

func (d *fakeDownloader) Download(_ context.Context, link string, opts ytdlp.DownloadOptions) error {
	if d.gate != nil {
		<-d.gate
	}
	d.mu.Lock()
	d.opts = append(d.opts, opts)
	d.links = append(d.links, link)
	d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	if d.path != "" {
		return afero.WriteFile(d.fs, d.path, []byte("media"), 0o644)
	}
	return nil
}

func (d *fakeDownloader) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.opts)
}

type fakeProber struct {
	info *ytdlp.Info
	err  error
}

func (p fakeProber) Probe(context.Context, string, string) (*ytdlp.Info, error) {
	return p.info, p.err
}

type testDeps struct {
	backends   []sources.Backend
	scraper    *fakeBackend
	runner     *fakeRunner
	downloader *fakeDownloader
	prober     fakeProber
	cookies    cookies.Provider
	toggles    *toggle.Static
	fs         afero.Fs
}

func newTestAPI(d testDeps) *API {
	if d.scraper == nil {
		d.scraper = failing("scraper")
	}
	if d.backends == nil {
		d.backends = []sources.Backend{d.scraper}
	}
	if d.runner == nil {
		d.runner = &fakeRunner{}
	}
	if d.fs == nil {
		d.fs = afero.NewMemMapFs()
	}
	if d.downloader == nil {
		d.downloader = &fakeDownloader{fs: d.fs}
	}
	if d.cookies == nil {
		d.cookies = cookies.Static("cookies/a.txt")
	}
	if d.toggles == nil {
		d.toggles = toggle.NewStatic(nil)
	}
	return New(engine.Config{}, Deps{
		Backends:   d.backends,
		Scraper:    d.scraper,
		Runner:     d.runner,
		Downloader: d.downloader,
		Prober:     d.prober,
		Cookies:    d.cookies,
		Toggles:    d.toggles,
		FS:         d.fs,
	})
}
