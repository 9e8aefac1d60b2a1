package toolserver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/toolutil"
	"github.com/anatolykoptev/go_yt/internal/youtube"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) formats(ctx context.Context, _ *mcp.CallToolRequest, input engine.FormatsInput) (*mcp.CallToolResult, engine.FormatsOutput, error) {
	ref, err := toolutil.NormRef(input.Ref)
	if err != nil {
		return nil, engine.FormatsOutput{}, err
	}

	cacheKey := engine.CacheKey("youtube_formats", ref, strconv.FormatBool(input.IsID))
	if out, ok := toolutil.CacheLoadJSON[engine.FormatsOutput](ctx, t.cache, cacheKey); ok {
		return nil, out, nil
	}

	formats, link := t.api.Formats(ctx, ref, input.IsID)
	out := engine.FormatsOutput{Link: link, Count: len(formats), Formats: formats}
	if len(formats) > 0 {
		toolutil.CacheStoreJSON(ctx, t.cache, cacheKey, out)
	}
	return nil, out, nil
}

func (t *tools) fileSize(ctx context.Context, _ *mcp.CallToolRequest, input engine.FormatsInput) (*mcp.CallToolResult, engine.FileSizeOutput, error) {
	ref, err := toolutil.NormRef(input.Ref)
	if err != nil {
		return nil, engine.FileSizeOutput{}, err
	}

	cacheKey := engine.CacheKey("youtube_filesize", ref, strconv.FormatBool(input.IsID))
	if out, ok := toolutil.CacheLoadJSON[engine.FileSizeOutput](ctx, t.cache, cacheKey); ok {
		return nil, out, nil
	}

	size, err := t.api.FileSize(ctx, ref, input.IsID)
	if err != nil {
		engine.IncrToolError()
		return nil, engine.FileSizeOutput{}, err
	}
	out := engine.FileSizeOutput{Link: youtubeLink(ref, input.IsID), Bytes: size}
	toolutil.CacheStoreJSON(ctx, t.cache, cacheKey, out)
	return nil, out, nil
}

func (t *tools) streamURL(ctx context.Context, _ *mcp.CallToolRequest, input engine.FormatsInput) (*mcp.CallToolResult, engine.StreamURLOutput, error) {
	ref, err := toolutil.NormRef(input.Ref)
	if err != nil {
		return nil, engine.StreamURLOutput{}, err
	}
	u, err := t.api.StreamURL(ctx, ref, input.IsID)
	if err != nil {
		engine.IncrToolError()
		return nil, engine.StreamURLOutput{}, fmt.Errorf("stream url: %w", err)
	}
	return nil, engine.StreamURLOutput{Link: youtubeLink(ref, input.IsID), URL: u}, nil
}

func (t *tools) download(ctx context.Context, _ *mcp.CallToolRequest, input engine.DownloadInput) (*mcp.CallToolResult, engine.DownloadResult, error) {
	ref, err := toolutil.NormRef(input.Ref)
	if err != nil {
		return nil, engine.DownloadResult{}, err
	}
	mode, err := youtube.ParseMode(input.Mode)
	if err != nil {
		return nil, engine.DownloadResult{}, err
	}

	res, err := t.api.Download(ctx, ref, input.IsID, youtube.Intent{Mode: mode, FormatID: input.FormatID, Title: input.Title})
	if err != nil {
		engine.IncrToolError()
		slog.Warn("youtube_download: failed", slog.String("ref", ref), slog.String("mode", input.Mode), slog.Any("error", err))
		return nil, engine.DownloadResult{}, fmt.Errorf("download: %w", err)
	}
	slog.Info("youtube_download: done", slog.String("location", res.Location()), slog.Bool("full", res.Full))
	return nil, res, nil
}
