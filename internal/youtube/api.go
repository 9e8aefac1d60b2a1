// Package youtube resolves YouTube references into metadata, stream URLs,
// format lists, playlist members and downloaded files.
package youtube

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_yt/internal/cookies"
	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/anatolykoptev/go_yt/internal/toggle"
	"github.com/anatolykoptev/go_yt/internal/ytdlp"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound means every search backend failed for a query.
	ErrNotFound = errors.New("no backend returned a result")
	// ErrInvalidIntent means a download intent is missing its format id or title.
	ErrInvalidIntent = errors.New("invalid download intent")
	// ErrNoStreamURL means yt-dlp -g printed nothing.
	ErrNoStreamURL = errors.New("no direct stream url")
	// ErrNoFormats means the metadata dump listed no formats.
	ErrNoFormats = errors.New("no formats found")
)

// PageSearcher is the page-scraping backend. Besides the single-result
// Backend search it can return several results for the slider.
type PageSearcher interface {
	sources.Backend
	SearchN(ctx context.Context, query string, limit int) ([]engine.VideoMetadata, error)
}

// Deps are the collaborators of an API. Nil fields are built from Config.
type Deps struct {
	Backends   []sources.Backend // priority order; the scraper should be last
	Scraper    PageSearcher
	Runner     ytdlp.Runner
	Downloader ytdlp.Downloader
	Prober     ytdlp.Prober
	Cookies    cookies.Provider
	Toggles    toggle.Store
	FS         afero.Fs
	Locker     *engine.PathLocker
}

// API is the YouTube platform adapter.
type API struct {
	backends   []sources.Backend
	scraper    PageSearcher
	runner     ytdlp.Runner
	downloader ytdlp.Downloader
	prober     ytdlp.Prober
	cookies    cookies.Provider
	toggles    toggle.Store
	fs         afero.Fs
	locker     *engine.PathLocker
	dir        string
}

// New wires an API. cfg supplies endpoints, timeouts and paths for any
// collaborator d leaves nil.
func New(cfg engine.Config, d Deps) *API {
	cfg = cfg.WithDefaults()

	if d.Scraper == nil {
		var fetcher sources.PageFetcher = sources.HTTPFetcher{Client: cfg.HTTPClient}
		if cfg.BrowserClient != nil {
			fetcher = sources.BrowserFetcher{Client: cfg.BrowserClient}
		}
		d.Scraper = sources.NewScraper(fetcher, cfg.SearchPageURL)
	}
	if d.Backends == nil {
		client := engine.NewClient(cfg)
		if cfg.YouTubeAPIKey != "" || cfg.YouTubeAPIKeyFallback != "" {
			d.Backends = append(d.Backends, sources.NewOfficialAPI(client, cfg.YouTubeAPIURL, cfg.YouTubeAPIKey, cfg.YouTubeAPIKeyFallback))
		}
		d.Backends = append(d.Backends,
			sources.NewInvidious(client, cfg.InvidiousURL),
			sources.NewPiped(client, cfg.PipedURL),
			d.Scraper,
		)
	}
	if d.Runner == nil {
		d.Runner = ytdlp.Exec{Path: cfg.YTDLPPath, Timeout: cfg.ExecTimeout}
	}
	if d.Downloader == nil {
		d.Downloader = ytdlp.Library{Path: cfg.YTDLPPath}
	}
	if d.Prober == nil {
		d.Prober = ytdlp.NewGoutubeDL(cfg.YTDLPPath)
	}
	if d.FS == nil {
		d.FS = afero.NewOsFs()
	}
	if d.Cookies == nil {
		d.Cookies = cookies.NewDir(d.FS, cfg.CookiesDir)
	}
	if d.Toggles == nil {
		d.Toggles = toggle.NewStatic(nil)
	}
	if d.Locker == nil {
		d.Locker = engine.NewPathLocker(cfg.RedisURL, cfg.LockTTL)
	}

	return &API{
		backends:   d.Backends,
		scraper:    d.Scraper,
		runner:     d.Runner,
		downloader: d.Downloader,
		prober:     d.Prober,
		cookies:    d.Cookies,
		toggles:    d.Toggles,
		fs:         d.FS,
		locker:     d.Locker,
		dir:        cfg.DownloadDir,
	}
}
