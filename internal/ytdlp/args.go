package ytdlp

import (
	goytdlp "github.com/lrstanley/go-ytdlp"
)

// Format selectors.
const (
	FormatStream     = "best[height<=?720][width<=?1280]"
	FormatVideo      = "(bestvideo[height<=?720][width<=?1280][ext=mp4])+(bestaudio[ext=m4a])"
	FormatAudio      = "bestaudio/best"
	CompanionAudioID = "140" // m4a 128k, muxed with a caller-picked video format
)

// Command is the go-ytdlp builder every yt-dlp call is expressed with.
type Command = goytdlp.Command

func withCookies(cmd *Command, cookieFile string) *Command {
	if cookieFile != "" {
		cmd = cmd.Cookies(cookieFile)
	}
	return cmd
}

// StreamURLCommand prints the direct media URL without downloading.
func StreamURLCommand(cookieFile, format string) *Command {
	return withCookies(goytdlp.New().GetURL().Format(format), cookieFile)
}

// PlaylistCommand lists up to limit member ids of a playlist.
func PlaylistCommand(cookieFile string, limit int) *Command {
	cmd := goytdlp.New().
		IgnoreErrors().
		GetID().
		FlatPlaylist().
		PlaylistEnd(limit).
		SkipDownload()
	return withCookies(cmd, cookieFile)
}

// FilenameCommand prints the path a download with tmpl and format would write.
func FilenameCommand(cookieFile, tmpl, format string) *Command {
	cmd := goytdlp.New().
		GetFilename().
		Output(tmpl).
		Format(format).
		NoWarnings()
	return withCookies(cmd, cookieFile)
}

// Args flattens the flags set on cmd followed by args, in the order yt-dlp
// receives them.
func Args(cmd *Command, args ...string) []string {
	var out []string
	for _, f := range cmd.GetFlagConfig().ToFlags() {
		out = append(out, f.Raw()...)
	}
	return append(out, args...)
}
