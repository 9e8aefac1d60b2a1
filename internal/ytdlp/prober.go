package ytdlp

import (
	"context"
	"fmt"
	"sync"

	"github.com/wader/goutubedl"
)

// Prober reads format metadata for a single video without downloading it.
type Prober interface {
	Probe(ctx context.Context, link, cookieFile string) (*Info, error)
}

var setPathOnce sync.Once

// GoutubeDL probes through goutubedl, which runs yt-dlp with -J.
type GoutubeDL struct{}

// NewGoutubeDL points goutubedl at path. goutubedl keeps the binary path in
// a package variable, so only the first call takes effect.
func NewGoutubeDL(path string) GoutubeDL {
	if path != "" {
		setPathOnce.Do(func() { goutubedl.Path = path })
	}
	return GoutubeDL{}
}

func (GoutubeDL) Probe(ctx context.Context, link, cookieFile string) (*Info, error) {
	res, err := goutubedl.New(ctx, link, goutubedl.Options{
		Type:    goutubedl.TypeSingle,
		Cookies: cookieFile,
	})
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", link, err)
	}

	info := &Info{
		ID:      res.Info.ID,
		Title:   res.Info.Title,
		Ext:     res.Info.Ext,
		Formats: make([]FormatInfo, 0, len(res.Info.Formats)),
	}
	for _, f := range res.Info.Formats {
		info.Formats = append(info.Formats, FormatInfo{
			FormatID:   f.FormatID,
			Format:     f.Format,
			Ext:        f.Ext,
			FormatNote: f.FormatNote,
			FileSize:   f.Filesize,
		})
	}
	return info, nil
}
