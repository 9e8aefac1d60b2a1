package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

var (
	// ErrQuotaExceeded is returned for a 403 whose body mentions quota. Never retried.
	ErrQuotaExceeded = errors.New("api quota exceeded")
	// ErrUnexpectedStatus is returned for any other non-200 status. Never retried.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse is returned when a 200 body is not valid JSON for the target.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrRetriesExhausted wraps the last transport error after every attempt failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

const maxResponseBytes = 4 * 1024 * 1024

// Client issues JSON GET requests with a total timeout, linear-backoff retries
// on transport errors, and an optional shared rate limit.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	attempts int
	step     time.Duration
}

// NewClient builds a Client from cfg. Zero fields take the Config defaults.
func NewClient(cfg Config) *Client {
	cfg = cfg.WithDefaults()
	c := &Client{
		http:     cfg.HTTPClient,
		attempts: cfg.MaxRetries,
		step:     cfg.RetryBackoffStep,
	}
	if cfg.APIRateLimit > 0 {
		burst := int(cfg.APIRateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.APIRateLimit), burst)
	}
	return c
}

// GetJSON performs GetJSONAttempts with the configured attempt count.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	return c.GetJSONAttempts(ctx, rawURL, params, c.attempts, out)
}

// GetJSONAttempts GETs rawURL with params and decodes a 200 body into out.
// A 403 mentioning quota yields ErrQuotaExceeded, other statuses
// ErrUnexpectedStatus, and an undecodable body ErrMalformedResponse; none of
// these are retried. Transport errors are retried up to maxAttempts times
// before ErrRetriesExhausted is returned.
func (c *Client) GetJSONAttempts(ctx context.Context, rawURL string, params url.Values, maxAttempts int, out any) error {
	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	_, err := RetryDo(ctx, maxAttempts, c.step, func() (struct{}, error) {
		return struct{}{}, c.attempt(ctx, target, out)
	})
	if err == nil {
		return nil
	}

	host := hostOf(rawURL)
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		slog.Warn("api quota exceeded", slog.String("host", host))
		return err
	case errors.Is(err, ErrUnexpectedStatus), errors.Is(err, ErrMalformedResponse):
		slog.Debug("request failed", slog.String("host", host), slog.Any("error", err))
		return err
	case ctx.Err() != nil:
		return err
	}
	metrics.HTTPErrors.Add(1)
	slog.Debug("request retries exhausted", slog.String("host", host), slog.Int("attempts", maxAttempts), slog.Any("error", err))
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, maxAttempts, err)
}

func (c *Client) attempt(ctx context.Context, target string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", UserAgentBot)
	req.Header.Set("Accept", "application/json")

	metrics.HTTPRequests.Add(1)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrMalformedResponse, err))
		}
		return nil
	case resp.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(string(body)), "quota"):
		metrics.QuotaExceeded.Add(1)
		return backoff.Permanent(ErrQuotaExceeded)
	default:
		return backoff.Permanent(fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, TruncateRunes(string(body), 200, "...")))
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
