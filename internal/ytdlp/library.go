package ytdlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_yt/internal/engine"
	goytdlp "github.com/lrstanley/go-ytdlp"
)

// DownloadOptions configures one library-mode download.
type DownloadOptions struct {
	Format       string
	Output       string // yt-dlp output template
	CookieFile   string
	MergeFormat  string // e.g. "mp4"; empty leaves yt-dlp's default
	ExtractAudio bool   // post-process to mp3 at 192k
}

// Downloader performs full media downloads.
type Downloader interface {
	Download(ctx context.Context, link string, opts DownloadOptions) error
}

// Library drives yt-dlp through the go-ytdlp command builder.
type Library struct {
	Path string // empty = resolve yt-dlp from PATH
}

func (l Library) Download(ctx context.Context, link string, opts DownloadOptions) error {
	cmd := l.command(opts)
	res, err := cmd.Run(ctx, link)
	if err != nil {
		stderr := ""
		if res != nil {
			stderr = strings.TrimSpace(res.Stderr)
		}
		if stderr == "" {
			return fmt.Errorf("%w: %w", ErrFailed, err)
		}
		return fmt.Errorf("%w: %s", MapError(stderr), engine.TruncateRunes(stderr, 300, "..."))
	}
	return nil
}

func (l Library) command(opts DownloadOptions) *Command {
	cmd := goytdlp.New().
		Format(opts.Format).
		Output(opts.Output).
		GeoBypass().
		NoCheckCertificates().
		NoWarnings().
		Quiet()
	if l.Path != "" {
		cmd = cmd.SetExecutable(l.Path)
	}
	if opts.CookieFile != "" {
		cmd = cmd.Cookies(opts.CookieFile)
	}
	if opts.MergeFormat != "" {
		cmd = cmd.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.ExtractAudio {
		cmd = cmd.ExtractAudio().AudioFormat("mp3").AudioQuality("192K")
	}
	return cmd
}
