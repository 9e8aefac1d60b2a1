package ytdlp

import (
	"errors"
	"strings"
)

var (
	ErrVideoUnavailable = errors.New("video unavailable")
	ErrVideoPrivate     = errors.New("video is private")
	ErrVideoDeleted     = errors.New("video has been removed")
	ErrGeoRestricted    = errors.New("video is geo-restricted")
	ErrAgeRestricted    = errors.New("video is age-restricted")
	ErrBotCheck         = errors.New("sign-in required to pass bot check")
	ErrCopyrightClaim   = errors.New("video removed due to copyright claim")
	ErrTimeout          = errors.New("yt-dlp timed out")
	ErrNotInstalled     = errors.New("yt-dlp binary not found")
	ErrFailed           = errors.New("yt-dlp execution failed")
	ErrEmptyOutput      = errors.New("yt-dlp produced no output")
)

// MapError maps yt-dlp stderr text to one of the sentinel errors above.
func MapError(stderr string) error {
	s := strings.ToLower(stderr)

	switch {
	case strings.Contains(s, "private video"):
		return ErrVideoPrivate
	case strings.Contains(s, "not a bot"), strings.Contains(s, "not a robot"):
		return ErrBotCheck
	case strings.Contains(s, "confirm your age"), strings.Contains(s, "age-restricted"):
		return ErrAgeRestricted
	case strings.Contains(s, "copyright"):
		return ErrCopyrightClaim
	case strings.Contains(s, "has been removed"), strings.Contains(s, "has been deleted"), strings.Contains(s, "account associated with this video has been terminated"):
		return ErrVideoDeleted
	case strings.Contains(s, "available in your country"), strings.Contains(s, "geo restriction"), strings.Contains(s, "geo-restrict"):
		return ErrGeoRestricted
	case strings.Contains(s, "video unavailable"), strings.Contains(s, "is not available"):
		return ErrVideoUnavailable
	case strings.Contains(s, "timed out"), strings.Contains(s, "timeout"):
		return ErrTimeout
	case strings.Contains(s, "no such file or directory") && strings.Contains(s, "yt-dlp"):
		return ErrNotInstalled
	default:
		return ErrFailed
	}
}
