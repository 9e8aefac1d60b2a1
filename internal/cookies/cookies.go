// Package cookies picks the credential file handed to yt-dlp via --cookies.
package cookies

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNoCookieFiles is returned when the cookies directory holds no .txt file.
var ErrNoCookieFiles = errors.New("no cookie files available")

// Provider returns a usable Netscape cookie file path.
type Provider interface {
	CookieFile() (string, error)
}

// Dir picks a random *.txt file from a directory on every call, spreading
// requests across the exported accounts.
type Dir struct {
	fs   afero.Fs
	dir  string
	pick func(n int) int
}

func NewDir(fs afero.Fs, dir string) *Dir {
	return &Dir{fs: fs, dir: dir, pick: rand.IntN}
}

func (d *Dir) CookieFile() (string, error) {
	files, err := afero.Glob(d.fs, filepath.Join(d.dir, "*.txt"))
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", d.dir, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoCookieFiles, d.dir)
	}
	file := files[d.pick(len(files))]
	slog.Debug("cookies: chosen file", slog.String("file", file), slog.Int("candidates", len(files)))
	return file, nil
}

// Static always returns the same file. An empty Static has no file.
type Static string

func (s Static) CookieFile() (string, error) {
	if s == "" {
		return "", ErrNoCookieFiles
	}
	return string(s), nil
}
