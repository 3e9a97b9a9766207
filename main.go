package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ezmode_site/internal/app"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// cli holds the loaded configuration shared by every subcommand
type cli struct {
	config *app.Config

	source   string
	outDir   string
	addr     string
	interval time.Duration
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "ezsite",
		Short: "Build, serve and deploy the ezmode.games site",
		Long: `ezsite renders the ezmode.games marketing site from the CTD status feed.

Available subcommands:
  build  - Render the site into the output directory
  serve  - Serve the site with a periodically refreshed catalog
  deploy - Build the site and upload it over SSH`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.SetupEnvironment()
			return c.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.source, "source", "", "Status feed file path or URL (overrides STATUS_SOURCE)")
	flags.StringVar(&c.outDir, "out", "", "Output directory (overrides SITE_OUTPUT_DIR)")
	flags.StringVar(&c.addr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
	flags.DurationVar(&c.interval, "interval", 0, "Interval between catalog refreshes, e.g. 5m (overrides REFRESH_INTERVAL)")

	rootCmd.AddCommand(
		newBuildCmd(c),
		newServeCmd(c),
		newDeployCmd(c),
	)

	return rootCmd
}

// load reads the environment and applies any flags set on the command line
func (c *cli) load(cmd *cobra.Command) error {
	config, err := app.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		config.StatusSource = c.source
	}
	if flags.Changed("out") {
		config.OutputDir = c.outDir
	}
	if flags.Changed("addr") {
		config.ListenAddr = c.addr
	}
	if flags.Changed("interval") {
		config.RefreshInterval = c.interval
	}

	if err := config.Validate(); err != nil {
		return err
	}

	c.config = config
	log.Debug().
		Str("source", config.StatusSource).
		Str("output_dir", config.OutputDir).
		Dur("interval", config.RefreshInterval).
		Msg("Configuration loaded")

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("ezsite failed")
	}
}
