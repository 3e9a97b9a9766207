package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"ezmode_site/internal/app"
	"ezmode_site/internal/config"
	"ezmode_site/internal/metrics"

	"github.com/rs/zerolog/log"
)

// ErrEmptyFeed is returned when the feed document is JSON null
var ErrEmptyFeed = errors.New("status feed is empty")

// Fetcher loads the current status feed
type Fetcher interface {
	Fetch(ctx context.Context) (app.StatusFeed, error)
}

// HTTPError is a non-200 response from the feed server
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("status feed request failed with status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether another attempt could succeed
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client reads status.json from a URL or a local file
type Client struct {
	source         string
	client         *http.Client
	retry          config.RetryConfig
	fetchCount     int64
	fetchCountLock sync.Mutex
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.client = httpClient
	}
}

// WithRetryConfig replaces the default retry policy
func WithRetryConfig(retry config.RetryConfig) Option {
	return func(c *Client) {
		c.retry = retry
	}
}

func NewClient(source string, opts ...Option) *Client {
	c := &Client{
		source: source,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: config.DefaultResilienceConfig.FeedFetch,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the configured URL or file path
func (c *Client) Source() string {
	return c.source
}

// IsRemote reports whether the source is fetched over HTTP
func (c *Client) IsRemote() bool {
	return strings.HasPrefix(c.source, "http://") || strings.HasPrefix(c.source, "https://")
}

// incrementFetchCount safely increments the fetch counter
func (c *Client) incrementFetchCount() {
	c.fetchCountLock.Lock()
	c.fetchCount++
	c.fetchCountLock.Unlock()
}

// GetFetchCount returns the number of fetch attempts made
func (c *Client) GetFetchCount() int64 {
	c.fetchCountLock.Lock()
	defer c.fetchCountLock.Unlock()
	return c.fetchCount
}

// ResetFetchCount resets the fetch counter to zero
func (c *Client) ResetFetchCount() {
	c.fetchCountLock.Lock()
	c.fetchCount = 0
	c.fetchCountLock.Unlock()
}

// Fetch loads and decodes the status feed, retrying transient failures
func (c *Client) Fetch(ctx context.Context) (app.StatusFeed, error) {
	start := time.Now()
	feed, err := c.fetchWithRetry(ctx)
	metrics.FeedFetchTimer.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.FeedFetches.WithLabelValues("ok").Inc()
	log.Debug().
		Str("source", c.source).
		Int("games", len(feed)).
		Dur("duration", time.Since(start)).
		Msg("Successfully fetched status feed")

	return feed, nil
}

func (c *Client) fetchWithRetry(ctx context.Context) (app.StatusFeed, error) {
	attempts := c.retry.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.readSource(ctx)
		if err == nil {
			return decodeFeed(body)
		}
		lastErr = err

		if !isRetryable(err) || attempt == attempts {
			break
		}

		log.Warn().
			Err(err).
			Str("source", c.source).
			Int("attempt", attempt).
			Dur("backoff", c.retry.Backoff(attempt)).
			Msg("Status feed fetch failed, retrying")

		if err := c.retry.Wait(ctx, attempt); err != nil {
			return nil, fmt.Errorf("status feed fetch cancelled: %w", err)
		}
	}

	return nil, lastErr
}

// readSource performs one attempt against the source
func (c *Client) readSource(ctx context.Context) ([]byte, error) {
	c.incrementFetchCount()

	if !c.IsRemote() {
		body, err := os.ReadFile(c.source)
		if err != nil {
			return nil, &permanentError{fmt.Errorf("failed to read status file %s: %w", c.source, err)}
		}
		return body, nil
	}

	if c.retry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.retry.Timeout)
		defer cancel()
	}

	resp, err := c.makeRequest(ctx)
	if err != nil {
		return nil, err
	}

	return c.handleResponse(resp)
}

// makeRequest creates and executes an HTTP GET request for the feed
func (c *Client) makeRequest(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source, nil)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", c.source).
			Msg("Status feed request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	return resp, nil
}

// handleResponse processes the HTTP response and returns the body bytes
func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// decodeFeed parses a status.json document. Valid JSON that is not an object
// (null, an array, a scalar) is reported as ErrEmptyFeed.
func decodeFeed(body []byte) (app.StatusFeed, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("failed to decode status feed: invalid JSON")
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrEmptyFeed
	}

	var feed app.StatusFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to decode status feed: %w", err)
	}
	return feed, nil
}

// permanentError marks failures that retrying cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var perm *permanentError
	if errors.As(err, &perm) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	return true
}
