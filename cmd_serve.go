package main

import (
	"context"

	"ezmode_site/internal/feed"
	"ezmode_site/internal/server"
	"ezmode_site/internal/site"
	"ezmode_site/internal/watch"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site with a periodically refreshed catalog",
		Long: `Serve the site over HTTP.

The catalog is refreshed on every interval. When the status source is a
local file it is also refreshed as soon as the file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	config := c.config

	content, err := site.LoadContent()
	if err != nil {
		return err
	}

	client := feed.NewClient(config.StatusSource)
	cached := feed.NewCachedClient(client, feed.DefaultCacheTTL)
	refresher := server.NewRefresher(cached)

	// the site still serves the product pages while the feed is unavailable
	if err := refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial catalog refresh failed")
	}

	srv := server.New(content, refresher, config.BaseURL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, config.ListenAddr)
	})
	g.Go(func() error {
		return refresher.Run(gctx, config.RefreshInterval)
	})

	if !client.IsRemote() {
		watcher := watch.NewFileWatcher(config.StatusSource, watch.DefaultDebounce, func(ctx context.Context) {
			cached.Invalidate()
			if err := refresher.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("Catalog refresh after file change failed")
			}
		})
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	log.Info().
		Str("addr", config.ListenAddr).
		Str("source", config.StatusSource).
		Dur("interval", config.RefreshInterval).
		Msg("Serving site")

	return g.Wait()
}
