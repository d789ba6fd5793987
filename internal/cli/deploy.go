package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/nftmarket/internal/cli/render"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the NFTMarketplace contract",
		Long: `Deploy the NFTMarketplace contract from the deployer account and wait for the
network's block confirmations.

The contract is verified on the block explorer when the network is not a development
chain and an Etherscan API key is configured. The key is read from ETHERSCAN_API_KEY,
and a per-network key in the [etherscan.<network>] table of nftmarket.toml overrides it
and enables verification on its own. A failed verification does not fail the deployment.`,
		Example: `  # Deploy to a local node
  nftmarket deploy --network localhost

  # Deploy and verify on sepolia
  ETHERSCAN_API_KEY=... nftmarket deploy --network sepolia`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{networkAnnotation: networkRequired},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployMarketplace.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderDeployResult(result)
		},
	}
}
