// go_yt: YouTube platform adapter MCP server.
//
// Resolves YouTube links, ids and search text to metadata through the Data API,
// Invidious, Piped and the search page, and lists formats, playlists, direct
// stream URLs and downloads through yt-dlp.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_yt/internal/engine"
	"github.com/anatolykoptev/go_yt/internal/toggle"
	"github.com/anatolykoptev/go_yt/internal/toolserver"
	"github.com/anatolykoptev/go_yt/internal/youtube"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initLogging(env.Str("LOG_LEVEL", "info"))

	cfg := loadConfig()
	ctx := context.Background()

	toggles, closeToggles := openToggles(ctx, cfg.RedisURL)
	defer closeToggles()

	var cache *engine.Cache
	if ttl := env.Duration("CACHE_TTL", 10*time.Minute); ttl > 0 {
		cache = engine.NewCache(cfg.RedisURL, ttl, env.Int("CACHE_MAX_ENTRIES", 1000), env.Duration("CACHE_CLEANUP_INTERVAL", 5*time.Minute))
		defer cache.Close()
	}

	api := youtube.New(cfg, youtube.Deps{
		Toggles: toggles,
		Locker:  engine.NewPathLocker(cfg.RedisURL, cfg.LockTTL),
	})

	slog.Info("starting go_yt",
		slog.String("port", mcpPort),
		slog.Bool("data_api", cfg.YouTubeAPIKey != "" || cfg.YouTubeAPIKeyFallback != ""),
		slog.String("download_dir", cfg.DownloadDir),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_yt",
		Version: version,
	}, nil)

	n := toolserver.RegisterTools(server, api, cache, toggles)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_yt",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func loadConfig() engine.Config {
	c := engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		YouTubeAPIURL:         env.Str("YOUTUBE_API_URL", engine.DefaultYouTubeAPIURL),
		InvidiousURL:          env.Str("INVIDIOUS_API_URL", engine.DefaultInvidiousURL),
		PipedURL:              env.Str("PIPED_API_URL", engine.DefaultPipedURL),
		SearchPageURL:         env.Str("YOUTUBE_SEARCH_URL", engine.DefaultSearchPageURL),
		RequestTimeout:        env.Duration("REQUEST_TIMEOUT", 10*time.Second),
		MaxRetries:            env.Int("MAX_RETRIES", 3),
		RetryBackoffStep:      env.Duration("RETRY_BACKOFF_STEP", time.Second),
		APIRateLimit:          env.Float("API_RATE_LIMIT", 0),
		YTDLPPath:             env.Str("YTDLP_PATH", "yt-dlp"),
		ExecTimeout:           env.Duration("YTDLP_EXEC_TIMEOUT", 0),
		DownloadDir:           env.Str("DOWNLOAD_DIR", "downloads"),
		CookiesDir:            env.Str("COOKIES_DIR", "cookies"),
		RedisURL:              env.Str("REDIS_URL", ""),
		LockTTL:               env.Duration("DOWNLOAD_LOCK_TTL", 30*time.Minute),
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Warn("stealth client init failed, scraper uses plain http", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	return c.WithDefaults()
}

// openToggles picks the toggle store from TOGGLE_DRIVER. Without one, or when
// the driver fails to open, an in-memory store seeded from PREFER_FULL_DOWNLOAD
// is used.
func openToggles(ctx context.Context, redisURL string) (toggle.Store, func()) {
	driver := strings.ToLower(env.Str("TOGGLE_DRIVER", ""))
	dsn := env.Str("TOGGLE_DSN", "")

	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "data/toggles.db"
		}
		s, err := toggle.OpenSQLite(dsn)
		if err == nil {
			slog.Info("toggles: sqlite", slog.String("path", dsn))
			return s, func() { _ = s.Close() }
		}
		slog.Warn("toggles: sqlite open failed", slog.Any("error", err))
	case "pgx", "postgres":
		s, err := toggle.ConnectPostgres(ctx, dsn)
		if err == nil {
			slog.Info("toggles: postgres")
			return s, s.Close
		}
		slog.Warn("toggles: postgres connect failed", slog.Any("error", err))
	case "redis":
		if dsn == "" {
			dsn = redisURL
		}
		s, err := toggle.NewRedis(ctx, dsn)
		if err == nil {
			slog.Info("toggles: redis")
			return s, func() { _ = s.Close() }
		}
		slog.Warn("toggles: redis connect failed", slog.Any("error", err))
	case "":
	default:
		slog.Warn("toggles: unknown driver", slog.String("driver", driver))
	}

	preferFull, _ := strconv.ParseBool(env.Str("PREFER_FULL_DOWNLOAD", "false"))
	return toggle.NewStatic(map[int]bool{toggle.PreferFullDownload: preferFull}), func() {}
}
