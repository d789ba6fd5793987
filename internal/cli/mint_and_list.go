package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/nftmarket/internal/cli/render"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// NewMintAndListCmd creates the mint-and-list command
func NewMintAndListCmd() *cobra.Command {
	var (
		price         string
		confirmations uint64
	)

	cmd := &cobra.Command{
		Use:   "mint-and-list",
		Short: "Mint a BasicNFT, approve the marketplace and list the token",
		Long: `Mint a BasicNFT token from the deployer account, approve the marketplace for it and
list it for sale. Each step waits for its transaction to be confirmed before the next one
is sent. A failure stops the run; a token minted before the failure stays unlisted.`,
		Example: `  # List at the default price of 0.1 ETH
  nftmarket mint-and-list --network localhost

  # List at a custom price
  nftmarket mint-and-list --network sepolia --price 0.25`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{networkAnnotation: networkRequired},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, runErr := app.MintAndList.Run(cmd.Context(), usecase.MintAndListOptions{
				Price:         price,
				Confirmations: confirmations,
			})

			// A partial run is still rendered so a stranded token is visible
			if result != nil {
				if err := render.NewMintAndListRenderer(cmd.OutOrStdout()).RenderResult(result); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&price, "price", usecase.DefaultListingPrice, "Listing price in ETH")
	cmd.Flags().Uint64Var(&confirmations, "confirmations", 1, "Confirmations to wait for at each step")

	return cmd
}
