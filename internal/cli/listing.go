package cli

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/nftmarket/internal/cli/render"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// NewListingCmd creates the listing command
func NewListingCmd() *cobra.Command {
	var nft string

	cmd := &cobra.Command{
		Use:   "listing <tokenId>",
		Short: "Show the marketplace listing of a token",
		Example: `  # Show the listing of BasicNFT token 0
  nftmarket listing 0 --network localhost`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{networkAnnotation: networkRequired},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params, err := parseListingParams(args[0], nft)
			if err != nil {
				return err
			}

			listing, err := app.ShowListing.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewListingRenderer(cmd.OutOrStdout()).RenderListing(listing)
		},
	}

	cmd.Flags().StringVar(&nft, "nft", "", "NFT contract address (defaults to the deployed BasicNFT)")

	return cmd
}

// NewBuyCmd creates the buy command
func NewBuyCmd() *cobra.Command {
	var nft string

	cmd := &cobra.Command{
		Use:   "buy <tokenId>",
		Short: "Buy a listed token at its listed price",
		Long: `Buy a listed token from the buyer account (the deployer account when no buyer is
configured), paying exactly the listed price.`,
		Example:     `  nftmarket buy 0 --network localhost`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{networkAnnotation: networkRequired},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params, err := parseListingParams(args[0], nft)
			if err != nil {
				return err
			}

			result, err := app.BuyItem.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewListingRenderer(cmd.OutOrStdout()).RenderPurchase(result)
		},
	}

	cmd.Flags().StringVar(&nft, "nft", "", "NFT contract address (defaults to the deployed BasicNFT)")

	return cmd
}

// parseListingParams parses a decimal or 0x-prefixed token id and an optional NFT address
func parseListingParams(tokenID string, nft string) (usecase.ListingParams, error) {
	var params usecase.ListingParams

	id, ok := new(big.Int).SetString(tokenID, 0)
	if !ok || id.Sign() < 0 {
		return params, fmt.Errorf("invalid token id %q", tokenID)
	}
	params.TokenID = id

	if nft != "" {
		if !common.IsHexAddress(nft) {
			return params, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, nft)
		}
		params.NFT = common.HexToAddress(nft)
	}
	return params, nil
}
