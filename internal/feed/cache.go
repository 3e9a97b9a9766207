package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ezmode_site/internal/app"

	"github.com/rs/zerolog/log"
)

// DefaultCacheTTL is how long a fetched feed is reused before asking the source again
const DefaultCacheTTL = time.Minute

// ErrStaleFeed wraps an upstream failure when the cached feed is returned in its place
var ErrStaleFeed = errors.New("serving stale status feed")

// CachedClient wraps a Fetcher with a TTL cache. When a refresh fails and a
// previous feed exists, the stale feed is returned along with an error wrapping
// ErrStaleFeed, so callers decide whether stale data is acceptable.
type CachedClient struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	mutex   sync.RWMutex
	cached  *cachedFeed
}

type cachedFeed struct {
	data      app.StatusFeed
	timestamp time.Time
}

// NewCachedClient creates a caching wrapper around a Fetcher
func NewCachedClient(fetcher Fetcher, ttl time.Duration) *CachedClient {
	return &CachedClient{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Fetch returns the cached feed or fetches a fresh one
func (c *CachedClient) Fetch(ctx context.Context) (app.StatusFeed, error) {
	c.mutex.RLock()
	cached := c.cached
	c.mutex.RUnlock()

	if cached != nil && c.now().Sub(cached.timestamp) < c.ttl {
		log.Debug().
			Dur("cache_age", c.now().Sub(cached.timestamp)).
			Dur("cache_ttl", c.ttl).
			Msg("Using cached status feed")
		return cached.data, nil
	}

	data, err := c.fetcher.Fetch(ctx)
	if err != nil {
		if cached != nil {
			log.Warn().
				Err(err).
				Dur("cache_age", c.now().Sub(cached.timestamp)).
				Msg("Status feed refresh failed, serving stale copy")
			return cached.data, fmt.Errorf("%w: %w", ErrStaleFeed, err)
		}
		return nil, err
	}

	c.mutex.Lock()
	c.cached = &cachedFeed{data: data, timestamp: c.now()}
	c.mutex.Unlock()

	return data, nil
}

// Invalidate drops the cached feed so the next Fetch goes to the source
func (c *CachedClient) Invalidate() {
	c.mutex.Lock()
	c.cached = nil
	c.mutex.Unlock()
}

// Age returns how old the cached feed is, and false when nothing is cached
func (c *CachedClient) Age() (time.Duration, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.cached == nil {
		return 0, false
	}
	return c.now().Sub(c.cached.timestamp), true
}
