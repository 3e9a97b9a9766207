package main

import (
	"context"
	"fmt"

	"ezmode_site/internal/app"
	"ezmode_site/internal/feed"
	"ezmode_site/internal/site"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newBuildCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := buildSite(cmd.Context(), c.config)
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}
			return nil
		},
	}
}

// buildSite renders every page from the configured feed and returns the files written
func buildSite(ctx context.Context, config *app.Config) ([]string, error) {
	content, err := site.LoadContent()
	if err != nil {
		return nil, err
	}

	client := feed.NewClient(config.StatusSource)
	builder := site.NewBuilder(client, content, config.BaseURL)

	files, err := builder.Build(ctx, config.OutputDir)
	if err != nil {
		return files, err
	}

	log.Info().
		Int64("feed_fetches", client.GetFetchCount()).
		Msg("Build finished")

	return files, nil
}
