// Package toolserver exposes the YouTube adapter as MCP tools.
package toolserver

import (
	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/toggle"
	"github.com/anatolykoptev/go_yt/internal/youtube"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultPlaylistLimit = 25
	maxPlaylistLimit     = 100
)

// tools holds the collaborators shared by every handler.
type tools struct {
	api     *youtube.API
	cache   *engine.Cache // probe results only; nil disables
	toggles toggle.Store
}

// RegisterTools registers the youtube_* tools on server. cache may be nil.
// youtube_toggle is only registered when toggles can be written.
func RegisterTools(server *mcp.Server, api *youtube.API, cache *engine.Cache, toggles toggle.Store) int {
	t := &tools{api: api, cache: cache, toggles: toggles}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_details",
		Description: "Resolve a YouTube URL, video id or search text to title, duration, thumbnail and video id. Tries the YouTube Data API, Invidious, Piped and the search page in turn. An empty video_id with title \"Unknown\" means nothing could resolve it.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.details)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_search",
		Description: "Search YouTube and return the first matching video.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_track",
		Description: "Resolve a reference to a play-queue track: title, watch link, video id, duration and thumbnail.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.track)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_slider",
		Description: "Return one of the first ten search results for a query, by 0-based index. Out-of-range indexes return an empty item with duration 0:00.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.slider)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_formats",
		Description: "List the downloadable formats of a video (format id, extension, note, size). DASH formats are omitted.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.formats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_filesize",
		Description: "Sum of the reported file sizes of every format of a video, in bytes.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.fileSize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_stream_url",
		Description: "Get a direct playable media URL (up to 720p) without downloading.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.streamURL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_playlist",
		Description: "List the video ids of a playlist in order, up to limit.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.playlist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_download",
		Description: "Download a video. mode=audio (default) stores the best audio; mode=video returns a direct URL unless full downloads are switched on; song_audio/song_video store a chosen format_id under the given title. Returns the local path or the URL.",
	}, t.download)

	count := 9
	if _, ok := toggles.(toggle.Setter); ok {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "youtube_toggle",
			Description: "Switch a feature toggle on or off. Toggle 1 makes video downloads store the file instead of returning a direct URL.",
		}, t.setToggle)
		count++
	}
	return count
}
