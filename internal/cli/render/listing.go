package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
	"github.com/trebuchet-org/nftmarket/pkg/units"
)

// ListingRenderer renders marketplace listings and purchases
type ListingRenderer struct {
	out io.Writer
}

// NewListingRenderer creates a new listing renderer
func NewListingRenderer(out io.Writer) *ListingRenderer {
	return &ListingRenderer{out: out}
}

// RenderListing renders a single listing
func (r *ListingRenderer) RenderListing(listing *models.Listing) error {
	fmt.Fprintln(r.out, headerStyle.Sprintf("Listing %s #%s", listing.NFTAddress.Hex(), listing.TokenID))
	if !listing.Active() {
		fmt.Fprintln(r.out, field("Status", skippedStyle.Sprint("not listed")))
		return nil
	}
	fmt.Fprintln(r.out, field("Status", verifiedStyle.Sprint("listed")))
	fmt.Fprintln(r.out, field("Seller", addressStyle.Sprint(listing.Seller.Hex())))
	fmt.Fprintln(r.out, field("Price", fmt.Sprintf("%s ETH (%s wei)", units.FormatEther(listing.Price), listing.Price)))
	return nil
}

// RenderPurchase renders a confirmed purchase
func (r *ListingRenderer) RenderPurchase(result *usecase.BuyResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Bought token %s for %s ETH",
		result.Listing.TokenID, units.FormatEther(result.Listing.Price))))
	fmt.Fprintln(r.out, field("NFT", addressStyle.Sprint(result.Listing.NFTAddress.Hex())))
	fmt.Fprintln(r.out, field("Seller", result.Listing.Seller.Hex()))
	fmt.Fprintln(r.out, field("Buyer", result.Buyer.Hex()))
	if result.Receipt != nil {
		fmt.Fprintln(r.out, field("Transaction", result.Receipt.TxHash.Hex()))
		fmt.Fprintln(r.out, field("Block", result.Receipt.BlockNumber))
	}
	return nil
}
