package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/nftmarket/internal/cli/render"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration resolved from nftmarket.toml, .env files, NFTM_* environment
variables and flags. Private keys and API keys are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			cfg := app.Config
			verify := false
			if cfg.Network != nil {
				chains := cfg.DevelopmentChains
				if len(chains) == 0 {
					chains = usecase.DefaultDevelopmentChains
				}
				verify = usecase.ShouldVerify(cfg.Network.Name, chains, cfg.EtherscanAPIKey)
			}

			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(cfg, verify)
		},
	}
}
