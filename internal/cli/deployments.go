package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/nftmarket/internal/cli/render"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var contractName string

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List saved deployment records",
		Long: `List the deployment records saved under the deployments directory. With --network
only that network's records are shown.`,
		Example: `  # List every saved deployment
  nftmarket deployments

  # List NFTMarketplace deployments on sepolia
  nftmarket deployments --network sepolia --contract NFTMarketplace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				ContractName: contractName,
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")

	return cmd
}
