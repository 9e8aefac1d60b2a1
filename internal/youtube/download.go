package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/anatolykoptev/go_yt/internal/toggle"
	"github.com/anatolykoptev/go_yt/internal/ytdlp"
	"github.com/spf13/afero"
)

// Mode selects what Download acquires.
type Mode int

const (
	ModeAudio     Mode = iota // best audio, stored under its id
	ModeVideo                 // direct URL unless a full download is preferred
	ModeSongAudio             // chosen format converted to mp3, stored under Title
	ModeSongVideo             // chosen format muxed with m4a audio, stored under Title
)

var modeNames = map[string]Mode{
	"":           ModeAudio,
	"audio":      ModeAudio,
	"video":      ModeVideo,
	"song_audio": ModeSongAudio,
	"song_video": ModeSongVideo,
}

// ParseMode maps the tool-facing mode names onto a Mode.
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidIntent, s)
	}
	return m, nil
}

// Intent is a download request. FormatID and Title are required by the
// song modes and ignored by the others.
type Intent struct {
	Mode     Mode
	FormatID string
	Title    string
}

func (in Intent) validate() error {
	if in.Mode != ModeSongAudio && in.Mode != ModeSongVideo {
		return nil
	}
	if in.FormatID == "" || strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: song downloads need a format id and a title", ErrInvalidIntent)
	}
	return nil
}

// fileTitle keeps a caller-supplied title inside the download directory.
func fileTitle(title string) string {
	title = strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(title))
	if title == "." || title == ".." {
		return "_"
	}
	return title
}

// Download acquires ref according to in. Video requests return a direct URL
// (Full=false) unless the PreferFullDownload toggle is on or URL extraction
// fails; every other mode returns a local path (Full=true).
func (a *API) Download(ctx context.Context, ref string, isID bool, in Intent) (engine.DownloadResult, error) {
	if err := in.validate(); err != nil {
		return engine.DownloadResult{}, err
	}
	link := sources.NormalizeLink(ref, isID)
	cookie, err := a.cookies.CookieFile()
	if err != nil {
		engine.IncrDownloadError()
		return engine.DownloadResult{}, fmt.Errorf("download %s: %w", link, err)
	}

	switch in.Mode {
	case ModeSongVideo:
		out := filepath.Join(a.dir, fileTitle(in.Title))
		path := out + ".mp4"
		err := a.fetch(ctx, link, path, ytdlp.DownloadOptions{
			Format:      in.FormatID + "+" + ytdlp.CompanionAudioID,
			Output:      out,
			CookieFile:  cookie,
			MergeFormat: "mp4",
		})
		if err != nil {
			return engine.DownloadResult{}, err
		}
		return engine.DownloadResult{Path: path, Full: true}, nil

	case ModeSongAudio:
		base := filepath.Join(a.dir, fileTitle(in.Title))
		path := base + ".mp3"
		err := a.fetch(ctx, link, path, ytdlp.DownloadOptions{
			Format:       in.FormatID,
			Output:       base + ".%(ext)s",
			CookieFile:   cookie,
			ExtractAudio: true,
		})
		if err != nil {
			return engine.DownloadResult{}, err
		}
		return engine.DownloadResult{Path: path, Full: true}, nil

	case ModeVideo:
		if a.preferFull(ctx) {
			return a.downloadByID(ctx, link, cookie, ytdlp.FormatVideo)
		}
		u, err := a.streamURL(ctx, link, cookie)
		if err == nil {
			engine.IncrStreamURL()
			return engine.DownloadResult{URL: u}, nil
		}
		slog.Info("youtube: direct url unavailable, downloading instead", slog.String("link", link), slog.Any("error", err))
		return a.downloadByID(ctx, link, cookie, ytdlp.FormatVideo)

	default:
		return a.downloadByID(ctx, link, cookie, ytdlp.FormatAudio)
	}
}

func (a *API) preferFull(ctx context.Context) bool {
	on, err := a.toggles.Enabled(ctx, toggle.PreferFullDownload)
	if err != nil {
		slog.Warn("youtube: toggle lookup failed, assuming off", slog.Any("error", err))
		return false
	}
	return on
}

// downloadByID stores the media as <dir>/<id>.<ext>, asking yt-dlp for the
// final file name first so an existing file can be reused.
func (a *API) downloadByID(ctx context.Context, link, cookie, format string) (engine.DownloadResult, error) {
	tmpl := filepath.Join(a.dir, "%(id)s.%(ext)s")
	path, err := a.targetPath(ctx, link, cookie, tmpl, format)
	if err != nil {
		engine.IncrDownloadError()
		return engine.DownloadResult{}, fmt.Errorf("resolve filename for %s: %w", link, err)
	}
	err = a.fetch(ctx, link, path, ytdlp.DownloadOptions{Format: format, Output: tmpl, CookieFile: cookie})
	if err != nil {
		return engine.DownloadResult{}, err
	}
	return engine.DownloadResult{Path: path, Full: true}, nil
}

func (a *API) targetPath(ctx context.Context, link, cookie, tmpl, format string) (string, error) {
	stdout, _, err := a.runner.Run(ctx, ytdlp.FilenameCommand(cookie, tmpl, format), link)
	if path := engine.FirstLine(stdout); path != "" {
		return path, nil
	}
	if err != nil {
		return "", err
	}
	return "", ytdlp.ErrEmptyOutput
}

// fetch downloads link to path unless the file already exists. The download
// runs detached from ctx so an abandoned caller never leaves a partial file
// behind; the caller itself stops waiting as soon as ctx is done.
func (a *API) fetch(ctx context.Context, link, path string, opts ytdlp.DownloadOptions) error {
	unlock, err := a.locker.Lock(ctx, path)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer unlock()
		if ok, _ := afero.Exists(a.fs, path); ok {
			engine.IncrDownloadSkipped()
			slog.Info("youtube: already downloaded", slog.String("path", path))
			done <- nil
			return
		}
		engine.IncrDownload()
		slog.Info("youtube: downloading", slog.String("link", link), slog.String("path", path), slog.String("format", opts.Format))
		err := engine.TrackOperation(context.WithoutCancel(ctx), "download", func(ctx context.Context) error {
			return a.downloader.Download(ctx, link, opts)
		})
		if err != nil {
			engine.IncrDownloadError()
			slog.Warn("youtube: download failed", slog.String("link", link), slog.Any("error", err))
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
