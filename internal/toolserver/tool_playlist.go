package toolserver

import (
	"context"
	"strconv"

	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/engine/sources"
	"github.com/anatolykoptev/go_yt/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) playlist(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlaylistInput) (*mcp.CallToolResult, engine.PlaylistOutput, error) {
	ref, err := toolutil.NormRef(input.Ref)
	if err != nil {
		return nil, engine.PlaylistOutput{}, err
	}
	limit := toolutil.ClampLimit(input.Limit, defaultPlaylistLimit, maxPlaylistLimit)

	cacheKey := engine.CacheKey("youtube_playlist", ref, strconv.FormatBool(input.IsID), strconv.Itoa(limit))
	if out, ok := toolutil.CacheLoadJSON[engine.PlaylistOutput](ctx, t.cache, cacheKey); ok {
		return nil, out, nil
	}

	ids := t.api.Playlist(ctx, ref, input.IsID, limit)
	out := engine.PlaylistOutput{Ref: sources.NormalizePlaylistLink(ref, input.IsID), Count: len(ids), IDs: ids}
	if len(ids) > 0 {
		toolutil.CacheStoreJSON(ctx, t.cache, cacheKey, out)
	}
	return nil, out, nil
}

// youtubeLink is the link the adapter works on for a video reference.
func youtubeLink(ref string, isID bool) string {
	return sources.NormalizeLink(ref, isID)
}
