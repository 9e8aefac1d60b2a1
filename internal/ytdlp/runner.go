package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/anatolykoptev/go_yt/internal/engine"
	goytdlp "github.com/lrstanley/go-ytdlp"
)

// Runner runs a yt-dlp command and returns its captured output. stdout is
// returned even when err is non-nil so callers can salvage partial output.
type Runner interface {
	Run(ctx context.Context, cmd *Command, args ...string) (stdout, stderr string, err error)
}

// Exec runs commands against the binary at Path. Timeout 0 lets a call run
// until the process exits or ctx is done.
type Exec struct {
	Path    string
	Timeout time.Duration
}

func (e Exec) Run(ctx context.Context, cmd *Command, args ...string) (string, string, error) {
	path := e.Path
	if path == "" {
		path = "yt-dlp"
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := cmd.Clone().SetExecutable(path).Run(ctx, args...)
	var stdout, stderr string
	if res != nil {
		stdout, stderr = res.Stdout, res.Stderr
	}
	slog.Debug("yt-dlp finished", slog.String("args", strings.Join(Args(cmd, args...), " ")),
		slog.Duration("elapsed", time.Since(start)), slog.Bool("ok", err == nil))
	if err == nil {
		return stdout, stderr, nil
	}
	return stdout, stderr, e.mapRunError(ctx, path, stderr, err)
}

func (e Exec) mapRunError(ctx context.Context, path, stderr string, err error) error {
	if _, ok := goytdlp.IsMisconfigError(err); ok || errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotInstalled, path)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if e.Timeout > 0 {
			return fmt.Errorf("%w after %s", ErrTimeout, e.Timeout)
		}
		return ErrTimeout
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}
	return fmt.Errorf("%w: %s", MapError(stderr), engine.TruncateRunes(stderr, 300, "..."))
}
