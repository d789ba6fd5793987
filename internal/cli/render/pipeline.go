package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/nftmarket/internal/usecase"
	"github.com/trebuchet-org/nftmarket/pkg/units"
)

var pipelineStages = []usecase.PipelineStage{
	usecase.StageMinted,
	usecase.StageApproved,
	usecase.StageListed,
}

// MintAndListRenderer renders mint-and-list runs, including partial ones
type MintAndListRenderer struct {
	out io.Writer
}

// NewMintAndListRenderer creates a new mint-and-list renderer
func NewMintAndListRenderer(out io.Writer) *MintAndListRenderer {
	return &MintAndListRenderer{out: out}
}

// RenderResult renders the stages a run reached. A run that stopped after minting is
// reported so the stranded token can be listed by hand.
func (r *MintAndListRenderer) RenderResult(result *usecase.MintAndListResult) error {
	if result == nil {
		return nil
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Sprint("Mint and list"))
	for _, stage := range pipelineStages {
		receipt, ok := result.Receipts[stage]
		if !ok {
			fmt.Fprintf(r.out, "  %s %s\n", skippedStyle.Sprint("·"), skippedStyle.Sprint(stage))
			continue
		}
		fmt.Fprintf(r.out, "  %s %-9s %s %s\n",
			verifiedStyle.Sprint("✓"),
			stage,
			labelStyle.Sprintf("block %d", receipt.BlockNumber),
			receipt.TxHash.Hex())
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, field("NFT", addressStyle.Sprint(result.NFT.Hex())))
	fmt.Fprintln(r.out, field("Marketplace", addressStyle.Sprint(result.Marketplace.Hex())))
	fmt.Fprintln(r.out, field("Seller", result.Seller.Hex()))
	if result.TokenID != nil {
		fmt.Fprintln(r.out, field("Token ID", valueStyle.Sprint(result.TokenID)))
	}
	fmt.Fprintln(r.out, field("Price", fmt.Sprintf("%s ETH", units.FormatEther(result.Price))))

	switch result.Stage {
	case usecase.StageListed:
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Token %s listed", result.TokenID)))
	case usecase.StageMinted, usecase.StageApproved:
		fmt.Fprintln(r.out)
		if result.TokenID == nil {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("A token was minted in tx %s but its id could not be decoded",
				result.Receipts[usecase.StageMinted].TxHash.Hex())))
			break
		}
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Token %s was minted but is not listed (stopped after %s)", result.TokenID, result.Stage)))
	}
	return nil
}
