package sources

import (
	"regexp"
	"strings"
)

const (
	watchBase    = "https://www.youtube.com/watch?v="
	playlistBase = "https://youtube.com/playlist?list="
)

// idPatterns are tried in order; the first match wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|be/|shorts/|live/)([\w-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([\w-]{11})`),
	regexp.MustCompile(`youtu\.be/([\w-]{11})`),
}

var (
	videoIDRE    = regexp.MustCompile(`^[\w-]{11}$`)
	youtubeURLRE = regexp.MustCompile(`(?:youtube\.com|youtu\.be)`)
)

// ExtractVideoID pulls the 11-char video ID from any supported URL shape
// (watch, short link, shorts, live, embed). Returns "" when none matches.
func ExtractVideoID(ref string) string {
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(ref); len(m) >= 2 {
			return m[1]
		}
	}
	return ""
}

// IsVideoID reports whether s is exactly one canonical video id.
func IsVideoID(s string) bool {
	return videoIDRE.MatchString(s)
}

// IsYouTubeURL reports whether link points at youtube.com or youtu.be.
func IsYouTubeURL(link string) bool {
	return youtubeURLRE.MatchString(link)
}

// StripQuery drops everything from the first '&', which removes playlist,
// index and timestamp noise from watch URLs.
func StripQuery(link string) string {
	if i := strings.IndexByte(link, '&'); i >= 0 {
		return link[:i]
	}
	return link
}

func WatchURL(id string) string    { return watchBase + id }
func PlaylistURL(id string) string { return playlistBase + id }

// NormalizeLink turns a reference into the link handed to the extraction tool.
// With isID the reference is a bare video id.
func NormalizeLink(ref string, isID bool) string {
	if isID {
		ref = WatchURL(ref)
	}
	return StripQuery(ref)
}

// NormalizePlaylistLink is NormalizeLink for playlist references, where a bare
// id is a list id.
func NormalizePlaylistLink(ref string, isID bool) string {
	if isID {
		ref = PlaylistURL(ref)
	}
	return StripQuery(ref)
}
