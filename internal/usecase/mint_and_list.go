package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/bindings"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/pkg/units"
)

// DefaultListingPrice is the price, in ether, used when listing a freshly minted token
const DefaultListingPrice = "0.1"

// PipelineStage is the last stage a mint-and-list run reached
type PipelineStage string

const (
	StageIdle     PipelineStage = "Idle"
	StageMinted   PipelineStage = "Minted"
	StageApproved PipelineStage = "Approved"
	StageListed   PipelineStage = "Listed"
)

// MintAndListOptions contains options for the mint-and-list pipeline
type MintAndListOptions struct {
	Price         string // decimal ether amount, DefaultListingPrice if empty
	Confirmations uint64 // per stage, 1 if zero
}

// MintAndListResult contains the outcome of a pipeline run. On failure it still reports the
// last stage reached, so a minted but unlisted token can be detected by the caller.
type MintAndListResult struct {
	Stage       PipelineStage
	Seller      common.Address
	NFT         common.Address
	Marketplace common.Address
	TokenID     *big.Int
	Price       *big.Int
	Listing     *models.Listing
	Receipts    map[PipelineStage]*models.Receipt
}

// MintAndList mints a BasicNFT, approves the marketplace and lists the token for sale
type MintAndList struct {
	config   *config.RuntimeConfig
	accounts AccountProvider
	registry ContractRegistry
	progress ProgressSink
}

// NewMintAndList creates a new MintAndList use case
func NewMintAndList(
	cfg *config.RuntimeConfig,
	accounts AccountProvider,
	registry ContractRegistry,
	progress ProgressSink,
) *MintAndList {
	return &MintAndList{
		config:   cfg,
		accounts: accounts,
		registry: registry,
		progress: progress,
	}
}

// pipeline carries the typed results handed from one stage to the next
type pipeline struct {
	seller *models.Account
	nft    ContractHandle
	market ContractHandle
	result *MintAndListResult
}

// stage submits one transaction built from the previous stage's result and, once it is
// confirmed, records what the next stage needs
type stage struct {
	reached  PipelineStage
	message  string
	submit   func(ctx context.Context, p *pipeline) (PendingTransaction, error)
	complete func(p *pipeline, receipt *models.Receipt) error
}

var mintApproveList = []stage{
	{
		reached: StageMinted,
		message: "Minting NFT...",
		submit: func(ctx context.Context, p *pipeline) (PendingTransaction, error) {
			return p.nft.Transact(ctx, p.seller, nil, "mintNft")
		},
		complete: func(p *pipeline, receipt *models.Receipt) error {
			transfer, err := bindings.ParseMintTransfer(receipt.Logs, p.nft.Address())
			if err != nil {
				return fmt.Errorf("mint transaction %s: %w", receipt.TxHash.Hex(), err)
			}
			p.result.TokenID = transfer.TokenId
			return nil
		},
	},
	{
		reached: StageApproved,
		message: "Approving NFT...",
		submit: func(ctx context.Context, p *pipeline) (PendingTransaction, error) {
			return p.nft.Transact(ctx, p.seller, nil, "approve", p.market.Address(), p.result.TokenID)
		},
	},
	{
		reached: StageListed,
		message: "Listing NFT...",
		submit: func(ctx context.Context, p *pipeline) (PendingTransaction, error) {
			return p.market.Transact(ctx, p.seller, nil, "listItem", p.nft.Address(), p.result.TokenID, p.result.Price)
		},
		complete: func(p *pipeline, receipt *models.Receipt) error {
			p.result.Listing = &models.Listing{
				NFTAddress: p.nft.Address(),
				TokenID:    p.result.TokenID,
				Seller:     p.seller.Address,
				Price:      p.result.Price,
			}
			if listed, err := bindings.ParseItemListed(receipt.Logs, p.market.Address()); err == nil {
				p.result.Listing.Seller = listed.Seller
				p.result.Listing.Price = listed.Price
			}
			return nil
		},
	},
}

// Run executes mint, approve and list in order. Each stage waits for its own confirmation
// before the next one is built; any failure stops the pipeline without compensation.
func (uc *MintAndList) Run(ctx context.Context, opts MintAndListOptions) (*MintAndListResult, error) {
	priceInput := opts.Price
	if priceInput == "" {
		priceInput = DefaultListingPrice
	}
	price, err := units.ParseEther(priceInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPrice, err)
	}
	if price.Sign() == 0 {
		return nil, fmt.Errorf("%w: listing price must be above zero", domain.ErrInvalidPrice)
	}

	confirmations := opts.Confirmations
	if confirmations == 0 {
		confirmations = 1
	}

	accounts, err := uc.accounts.NamedAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	seller, ok := accounts[DeployerAccount]
	if !ok || seller == nil {
		return nil, domain.ErrMissingDeployer
	}

	market, err := uc.registry.GetDeployedContract(ctx, bindings.NFTMarketplaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", bindings.NFTMarketplaceName, err)
	}
	nft, err := uc.registry.GetDeployedContract(ctx, bindings.BasicNFTName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", bindings.BasicNFTName, err)
	}

	p := &pipeline{
		seller: seller,
		nft:    nft,
		market: market,
		result: &MintAndListResult{
			Stage:       StageIdle,
			Seller:      seller.Address,
			NFT:         nft.Address(),
			Marketplace: market.Address(),
			Price:       price,
			Receipts:    make(map[PipelineStage]*models.Receipt),
		},
	}

	for i, s := range mintApproveList {
		// Stages are never interrupted mid-flight, cancellation is honoured between them
		if err := ctx.Err(); err != nil {
			return p.result, fmt.Errorf("aborted after stage %s: %w", p.result.Stage, err)
		}

		uc.progress.Info(s.message)
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   string(s.reached),
			Current: i + 1,
			Total:   len(mintApproveList),
			Message: s.message,
			Spinner: true,
		})

		if err := uc.runStage(ctx, p, s, confirmations); err != nil {
			return p.result, err
		}
	}

	uc.progress.Info(fmt.Sprintf("NFT listed! tokenId=%s price=%s ETH", p.result.TokenID, units.FormatEther(p.result.Price)))
	return p.result, nil
}

// runStage submits and confirms one stage. A confirmed transaction is recorded before its
// logs are decoded, so the result reflects on-chain state even when decoding fails.
func (uc *MintAndList) runStage(ctx context.Context, p *pipeline, s stage, confirmations uint64) error {
	name := stageAction(s.reached)

	pending, err := s.submit(ctx, p)
	if err != nil {
		return &domain.TransactionError{Stage: name, Err: err}
	}

	receipt, err := pending.WaitForConfirmations(ctx, confirmations)
	if err != nil {
		if errors.Is(err, domain.ErrConfirmationTimeout) || ctx.Err() != nil {
			return fmt.Errorf("%s transaction %s: %w", name, pending.Hash().Hex(), err)
		}
		return &domain.TransactionError{Stage: name, TxHash: pending.Hash().Hex(), Err: err}
	}
	if !receipt.Succeeded() {
		return &domain.TransactionError{Stage: name, TxHash: receipt.TxHash.Hex(), Err: errors.New("execution reverted")}
	}

	p.result.Receipts[s.reached] = receipt
	p.result.Stage = s.reached

	if s.complete != nil {
		return s.complete(p, receipt)
	}
	return nil
}

// stageAction names the on-chain action that leads to a stage
func stageAction(reached PipelineStage) string {
	switch reached {
	case StageMinted:
		return "mint"
	case StageApproved:
		return "approve"
	case StageListed:
		return "list"
	default:
		return string(reached)
	}
}
