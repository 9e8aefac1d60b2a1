package youtube

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/anatolykoptev/go_yt/internal/ytdlp"
	"github.com/samber/lo"
)

// hiddenVideosNotice is the yt-dlp warning that still comes with a usable list.
const hiddenVideosNotice = "unavailable videos are hidden"

// Playlist returns up to limit video ids of the playlist ref, in order.
// Enumeration failures yield an empty slice.
func (a *API) Playlist(ctx context.Context, ref string, isID bool, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	link := sources.NormalizePlaylistLink(ref, isID)
	engine.IncrPlaylist()

	cookie, err := a.cookies.CookieFile()
	if err != nil {
		slog.Warn("youtube: playlist without cookies", slog.Any("error", err))
		return []string{}
	}
	stdout, stderr, err := a.runner.Run(ctx, ytdlp.PlaylistCommand(cookie, limit), link)
	if err != nil && !strings.Contains(strings.ToLower(stderr), hiddenVideosNotice) {
		slog.Warn("youtube: playlist enumeration failed", slog.String("link", link), slog.Any("error", err))
		return []string{}
	}

	ids := lo.FilterMap(strings.Split(stdout, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, sources.IsVideoID(line)
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}
