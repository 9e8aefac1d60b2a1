package ytdlp

// Info is the subset of yt-dlp metadata the adapter reads.
type Info struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Ext     string       `json:"ext"`
	Formats []FormatInfo `json:"formats"`
}

type FormatInfo struct {
	FormatID   string  `json:"format_id"`
	Format     string  `json:"format"`
	Ext        string  `json:"ext"`
	FormatNote string  `json:"format_note"`
	FileSize   float64 `json:"filesize"` // null when unknown
}

// TotalFileSize sums the reported size of every format; unknown sizes count as 0.
func (i *Info) TotalFileSize() int64 {
	var total float64
	for _, f := range i.Formats {
		total += f.FileSize
	}
	return int64(total)
}
