package engine

import (
	"net/http"
	"time"
)

// Config holds all adapter configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	YouTubeAPIURL         string
	InvidiousURL          string
	PipedURL              string
	SearchPageURL         string
	RequestTimeout        time.Duration
	MaxRetries            int           // attempts per HTTP request, including the first
	RetryBackoffStep      time.Duration // wait before retry n is n*step
	APIRateLimit          float64       // requests per second across backends, 0 = unlimited
	YTDLPPath             string
	ExecTimeout           time.Duration // 0 = subprocess calls run until they exit
	DownloadDir           string
	CookiesDir            string
	RedisURL              string
	LockTTL               time.Duration
	HTTPClient            *http.Client
	BrowserClient         *BrowserClient // nil = scraper uses HTTPClient
}

const (
	DefaultYouTubeAPIURL = "https://www.googleapis.com/youtube/v3"
	DefaultInvidiousURL  = "https://inv.riverside.rocks/api/v1"
	DefaultPipedURL      = "https://pipedapi.kavin.rocks"
	DefaultSearchPageURL = "https://www.youtube.com/results"
)

// WithDefaults returns a copy of c with zero fields filled in.
func (c Config) WithDefaults() Config {
	if c.YouTubeAPIURL == "" {
		c.YouTubeAPIURL = DefaultYouTubeAPIURL
	}
	if c.InvidiousURL == "" {
		c.InvidiousURL = DefaultInvidiousURL
	}
	if c.PipedURL == "" {
		c.PipedURL = DefaultPipedURL
	}
	if c.SearchPageURL == "" {
		c.SearchPageURL = DefaultSearchPageURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoffStep <= 0 {
		c.RetryBackoffStep = time.Second
	}
	if c.YTDLPPath == "" {
		c.YTDLPPath = "yt-dlp"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "downloads"
	}
	if c.CookiesDir == "" {
		c.CookiesDir = "cookies"
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 30 * time.Minute
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		}
	}
	return c
}
