// Package unsplash is the HTTP transport for the Unsplash photo API.
package unsplash

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sydlexius/gallery/internal/provider"
)

// DefaultBaseURL is the public Unsplash API root.
const DefaultBaseURL = "https://api.unsplash.com"

const maxBodyBytes = 4 * 1024 * 1024

// Client issues GET requests against already-resolved Unsplash URLs.
type Client struct {
	client  *http.Client
	limiter *provider.RateLimiter
	logger  *slog.Logger
}

// New creates a Client. limiter may be nil.
func New(limiter *provider.RateLimiter, logger *slog.Logger) *Client {
	return NewWithHTTPClient(&http.Client{Timeout: 10 * time.Second}, limiter, logger)
}

// NewWithHTTPClient creates a Client around a caller-supplied http.Client (for testing).
func NewWithHTTPClient(hc *http.Client, limiter *provider.RateLimiter, logger *slog.Logger) *Client {
	return &Client{
		client:  hc,
		limiter: limiter,
		logger:  logger.With(slog.String("provider", "unsplash")),
	}
}

// Get fetches reqURL and returns the raw response body. Every failure is a
// *provider.FetchError; non-2xx responses carry their status code.
func (c *Client) Get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &provider.FetchError{URL: reqURL, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &provider.FetchError{URL: reqURL, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")

	start := time.Now()
	resp, err := c.client.Do(req) //nolint:gosec // URL built by the query resolver from config
	if err != nil {
		return nil, &provider.FetchError{URL: reqURL, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	c.logger.Debug("upstream response",
		slog.String("url", provider.RedactURL(reqURL)),
		slog.Int("status", resp.StatusCode),
		slog.String("ratelimit_remaining", resp.Header.Get("X-Ratelimit-Remaining")),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024)) //nolint:errcheck
		return nil, &provider.FetchError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &provider.FetchError{URL: reqURL, Cause: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}
