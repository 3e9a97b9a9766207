package main

import (
	"ezmode_site/internal/config"
	"ezmode_site/internal/deployment"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newDeployCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Build the site and upload it over SSH",
		Long: `Build the site and upload it to DEPLOY_URL (user@host:path) using the
private key in DEPLOY_KEY_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.config.RequireDeployTarget(); err != nil {
				return err
			}

			deployer, err := deployment.NewSSHDeployer(c.config.DeployURL, c.config.DeployKeyFile, config.DefaultResilienceConfig.Deploy)
			if err != nil {
				return err
			}

			files, err := buildSite(cmd.Context(), c.config)
			if err != nil {
				return err
			}

			defer func() {
				if err := deployer.Disconnect(); err != nil {
					log.Warn().Err(err).Msg("Failed to close SSH connection")
				}
			}()

			target := deployer.Target()
			log.Info().
				Str("host", target.Host).
				Str("user", target.User).
				Str("remote_path", target.Path).
				Int("files", len(files)).
				Msg("Deploying site")

			return deployer.DeployFiles(cmd.Context(), c.config.OutputDir, files)
		},
	}
}
