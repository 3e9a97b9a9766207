package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ezmode_site/internal/domain/status"
	"ezmode_site/internal/feed"
	"ezmode_site/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Refresher keeps the current game catalog. A failed refresh keeps the last good catalog.
type Refresher struct {
	fetcher feed.Fetcher
	now     func() time.Time

	mutex       sync.RWMutex
	games       []status.DisplayGame
	lastUpdated time.Time
	lastErr     error
}

func NewRefresher(fetcher feed.Fetcher) *Refresher {
	return &Refresher{
		fetcher: fetcher,
		now:     time.Now,
		games:   []status.DisplayGame{},
	}
}

// Refresh fetches the feed and replaces the catalog on success
func (r *Refresher) Refresh(ctx context.Context) error {
	statusFeed, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.mutex.Lock()
		r.lastErr = err
		r.mutex.Unlock()
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	games := status.BuildCatalog(statusFeed)
	counts := status.Summarize(games)
	for tier, n := range counts {
		metrics.CatalogGames.WithLabelValues(string(tier)).Set(float64(n))
	}

	r.mutex.Lock()
	r.games = games
	r.lastUpdated = r.now()
	r.lastErr = nil
	r.mutex.Unlock()

	log.Debug().
		Int("games", len(games)).
		Int("live", counts[status.TierLive]).
		Int("alpha", counts[status.TierAlpha]).
		Int("coming_soon", counts[status.TierComingSoon]).
		Msg("Refreshed game catalog")

	return nil
}

// Games returns a copy of the current ordered catalog
func (r *Refresher) Games() []status.DisplayGame {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	games := make([]status.DisplayGame, len(r.games))
	copy(games, r.games)
	return games
}

// Snapshot returns the catalog with the time it was fetched
func (r *Refresher) Snapshot() ([]status.DisplayGame, time.Time) {
	r.mutex.RLock()
	updated := r.lastUpdated
	r.mutex.RUnlock()
	return r.Games(), updated
}

// Healthy reports whether a catalog has been loaded and the last refresh succeeded
func (r *Refresher) Healthy() (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return !r.lastUpdated.IsZero() && r.lastErr == nil, r.lastErr
}

// Run refreshes on every tick until ctx is cancelled
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("Scheduled catalog refresh failed")
			}
		}
	}
}
