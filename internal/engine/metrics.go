package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the adapter.
var metrics struct {
	HTTPRequests      atomic.Int64
	HTTPRetries       atomic.Int64
	HTTPErrors        atomic.Int64
	QuotaExceeded     atomic.Int64
	OfficialAPISearch atomic.Int64
	InvidiousSearch   atomic.Int64
	PipedSearch       atomic.Int64
	ScraperSearch     atomic.Int64
	BackendFailures   atomic.Int64
	UnknownResults    atomic.Int64
	Downloads         atomic.Int64
	DownloadsSkipped  atomic.Int64
	DownloadErrors    atomic.Int64
	StreamURLs        atomic.Int64
	FormatProbes      atomic.Int64
	PlaylistRequests  atomic.Int64
	ToolErrors        atomic.Int64
	LockWaits         atomic.Int64
	CacheHits         atomic.Int64
	CacheMisses       atomic.Int64
}

var metricKeys = []string{
	"http_requests", "http_retries", "http_errors", "quota_exceeded",
	"official_api_search", "invidious_search", "piped_search", "scraper_search",
	"backend_failures", "unknown_results",
	"downloads", "downloads_skipped", "download_errors", "stream_urls",
	"format_probes", "playlist_requests", "tool_errors", "lock_waits",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"http_requests":       metrics.HTTPRequests.Load(),
		"http_retries":        metrics.HTTPRetries.Load(),
		"http_errors":         metrics.HTTPErrors.Load(),
		"quota_exceeded":      metrics.QuotaExceeded.Load(),
		"official_api_search": metrics.OfficialAPISearch.Load(),
		"invidious_search":    metrics.InvidiousSearch.Load(),
		"piped_search":        metrics.PipedSearch.Load(),
		"scraper_search":      metrics.ScraperSearch.Load(),
		"backend_failures":    metrics.BackendFailures.Load(),
		"unknown_results":     metrics.UnknownResults.Load(),
		"downloads":           metrics.Downloads.Load(),
		"downloads_skipped":   metrics.DownloadsSkipped.Load(),
		"download_errors":     metrics.DownloadErrors.Load(),
		"stream_urls":         metrics.StreamURLs.Load(),
		"format_probes":       metrics.FormatProbes.Load(),
		"playlist_requests":   metrics.PlaylistRequests.Load(),
		"tool_errors":         metrics.ToolErrors.Load(),
		"lock_waits":          metrics.LockWaits.Load(),
		"cache_hits":          metrics.CacheHits.Load(),
		"cache_misses":        metrics.CacheMisses.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// IncrBackendSearch counts a search attempt against the named backend.
func IncrBackendSearch(name string) {
	switch name {
	case "official":
		metrics.OfficialAPISearch.Add(1)
	case "invidious":
		metrics.InvidiousSearch.Add(1)
	case "piped":
		metrics.PipedSearch.Add(1)
	case "scraper":
		metrics.ScraperSearch.Add(1)
	}
}

// Incrementors for the youtube package.
func IncrBackendFailure()  { metrics.BackendFailures.Add(1) }
func IncrUnknownResult()   { metrics.UnknownResults.Add(1) }
func IncrDownload()        { metrics.Downloads.Add(1) }
func IncrDownloadSkipped() { metrics.DownloadsSkipped.Add(1) }
func IncrDownloadError()   { metrics.DownloadErrors.Add(1) }
func IncrStreamURL()       { metrics.StreamURLs.Add(1) }
func IncrFormatProbe()     { metrics.FormatProbes.Add(1) }
func IncrPlaylist()        { metrics.PlaylistRequests.Add(1) }
func IncrToolError()       { metrics.ToolErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
