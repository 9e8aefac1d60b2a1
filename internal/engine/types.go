package engine

// --- Core types ---

// VideoMetadata is the canonical record every search backend produces.
type VideoMetadata struct {
	Title           string `json:"title"`
	Duration        string `json:"duration"`         // "M:SS" or "H:MM:SS"
	DurationSeconds int    `json:"duration_seconds"` // 0 when unknown
	Thumbnail       string `json:"thumbnail"`
	VideoID         string `json:"video_id"` // empty = resolution failed
	Link            string `json:"link,omitempty"`
	Source          string `json:"source,omitempty"` // backend that produced the record
}

// Format is one downloadable encoding reported by the metadata probe.
type Format struct {
	Format     string `json:"format"`
	FileSize   int64  `json:"filesize"` // 0 = unknown
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	FormatNote string `json:"format_note"`
	URL        string `json:"yturl"`
}

// DownloadResult describes where acquired media ended up.
// Exactly one of Path and URL is set.
type DownloadResult struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
	Full bool   `json:"full_download"`
}

// Location returns Path or URL, whichever is set.
func (r DownloadResult) Location() string {
	if r.Path != "" {
		return r.Path
	}
	return r.URL
}

type Track struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	VideoID     string `json:"vidid"`
	DurationMin string `json:"duration_min"`
	Thumb       string `json:"thumb"`
}

type SliderItem struct {
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	Thumbnail string `json:"thumbnail"`
	VideoID   string `json:"video_id"`
}

// --- Tool input types ---

type DetailsInput struct {
	Ref  string `json:"ref" jsonschema:"YouTube URL, 11-character video id, or search text"`
	IsID bool   `json:"is_id,omitempty" jsonschema:"Treat ref as a bare video id"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"Search text"`
}

type SliderInput struct {
	Query string `json:"query" jsonschema:"Search text"`
	Index int    `json:"index,omitempty" jsonschema:"0-based result index (max 9)"`
}

type PlaylistInput struct {
	Ref   string `json:"ref" jsonschema:"Playlist URL or list id"`
	IsID  bool   `json:"is_id,omitempty" jsonschema:"Treat ref as a bare list id"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max ids to return (default 25, max 100)"`
}

type FormatsInput struct {
	Ref  string `json:"ref" jsonschema:"YouTube URL or 11-character video id"`
	IsID bool   `json:"is_id,omitempty" jsonschema:"Treat ref as a bare video id"`
}

type ToggleInput struct {
	Key     int  `json:"key,omitempty" jsonschema:"Toggle number (1 = prefer full video downloads over direct URLs)"`
	Enabled bool `json:"enabled" jsonschema:"New state"`
}

type DownloadInput struct {
	Ref      string `json:"ref" jsonschema:"YouTube URL or 11-character video id"`
	IsID     bool   `json:"is_id,omitempty" jsonschema:"Treat ref as a bare video id"`
	Mode     string `json:"mode,omitempty" jsonschema:"audio (default), video, song_audio, song_video"`
	FormatID string `json:"format_id,omitempty" jsonschema:"Format id for song_audio/song_video (see youtube_formats)"`
	Title    string `json:"title,omitempty" jsonschema:"Output file name for song_audio/song_video"`
}

// --- Tool output types ---

type SearchOutput struct {
	Query string        `json:"query"`
	Found bool          `json:"found"`
	Video VideoMetadata `json:"video"`
}

type FormatsOutput struct {
	Link    string   `json:"link"`
	Count   int      `json:"count"`
	Formats []Format `json:"formats"`
}

type PlaylistOutput struct {
	Ref   string   `json:"ref"`
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

type StreamURLOutput struct {
	Link string `json:"link"`
	URL  string `json:"url"`
}

type FileSizeOutput struct {
	Link  string `json:"link"`
	Bytes int64  `json:"bytes"`
}

type TrackOutput struct {
	Found bool  `json:"found"`
	Track Track `json:"track"`
}

type ToggleOutput struct {
	Key     int  `json:"key"`
	Enabled bool `json:"enabled"`
}
