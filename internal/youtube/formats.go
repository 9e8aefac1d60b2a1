package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/anatolykoptev/go_yt/internal/ytdlp"
	"github.com/samber/lo"
)

// Formats lists the downloadable formats of ref, skipping DASH entries.
// Any probe failure yields an empty list; the normalized link is always returned.
func (a *API) Formats(ctx context.Context, ref string, isID bool) ([]engine.Format, string) {
	link := sources.NormalizeLink(ref, isID)
	engine.IncrFormatProbe()

	cookie, err := a.cookies.CookieFile()
	if err != nil {
		slog.Warn("youtube: formats without cookies", slog.Any("error", err))
		return []engine.Format{}, link
	}
	info, err := a.prober.Probe(ctx, link, cookie)
	if err != nil {
		slog.Warn("youtube: format probe failed", slog.String("link", link), slog.Any("error", err))
		return []engine.Format{}, link
	}

	formats := lo.FilterMap(info.Formats, func(f ytdlp.FormatInfo, _ int) (engine.Format, bool) {
		if strings.Contains(strings.ToLower(f.Format), "dash") {
			return engine.Format{}, false
		}
		return engine.Format{
			Format:     f.Format,
			FileSize:   int64(f.FileSize),
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			FormatNote: f.FormatNote,
			URL:        link,
		}, true
	})
	return formats, link
}

// FileSize sums the sizes of every format of ref.
func (a *API) FileSize(ctx context.Context, ref string, isID bool) (int64, error) {
	link := sources.NormalizeLink(ref, isID)
	cookie, err := a.cookies.CookieFile()
	if err != nil {
		return 0, err
	}
	engine.IncrFormatProbe()
	info, err := a.prober.Probe(ctx, link, cookie)
	if err != nil {
		return 0, fmt.Errorf("filesize %s: %w", link, err)
	}
	if len(info.Formats) == 0 {
		return 0, ErrNoFormats
	}
	return info.TotalFileSize(), nil
}

// StreamURL asks yt-dlp for a direct playable URL of ref (720p cap).
func (a *API) StreamURL(ctx context.Context, ref string, isID bool) (string, error) {
	link := sources.NormalizeLink(ref, isID)
	cookie, err := a.cookies.CookieFile()
	if err != nil {
		return "", err
	}
	u, err := a.streamURL(ctx, link, cookie)
	if err != nil {
		return "", err
	}
	engine.IncrStreamURL()
	return u, nil
}

func (a *API) streamURL(ctx context.Context, link, cookie string) (string, error) {
	stdout, stderr, err := a.runner.Run(ctx, ytdlp.StreamURLCommand(cookie, ytdlp.FormatStream), link)
	if u := engine.FirstLine(stdout); u != "" {
		return u, nil
	}
	if err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: %s", ErrNoStreamURL, engine.TruncateRunes(strings.TrimSpace(stderr), 300, "..."))
}
