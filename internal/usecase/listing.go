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

// BuyerAccount is the named account used for purchases. Falls back to DeployerAccount.
const BuyerAccount = "buyer"

// ListingParams identifies a marketplace listing. A zero NFT address selects the
// deployed BasicNFT.
type ListingParams struct {
	NFT     common.Address
	TokenID *big.Int
}

// ShowListing reads a listing from the deployed marketplace
type ShowListing struct {
	registry ContractRegistry
}

// NewShowListing creates a new ShowListing use case
func NewShowListing(registry ContractRegistry) *ShowListing {
	return &ShowListing{registry: registry}
}

// Run executes getListing for the given token
func (uc *ShowListing) Run(ctx context.Context, params ListingParams) (*models.Listing, error) {
	market, nft, err := resolveListingContracts(ctx, uc.registry, params.NFT)
	if err != nil {
		return nil, err
	}
	return readListing(ctx, market, nft, params.TokenID)
}

// BuyResult contains the outcome of a purchase
type BuyResult struct {
	Listing *models.Listing // listing as it was before the purchase
	Buyer   common.Address
	Receipt *models.Receipt
}

// BuyItem purchases a listed token at its listed price
type BuyItem struct {
	config   *config.RuntimeConfig
	accounts AccountProvider
	registry ContractRegistry
	progress ProgressSink
}

// NewBuyItem creates a new BuyItem use case
func NewBuyItem(cfg *config.RuntimeConfig, accounts AccountProvider, registry ContractRegistry, progress ProgressSink) *BuyItem {
	return &BuyItem{
		config:   cfg,
		accounts: accounts,
		registry: registry,
		progress: progress,
	}
}

// Run reads the listing and sends buyItem with the listed price attached
func (uc *BuyItem) Run(ctx context.Context, params ListingParams) (*BuyResult, error) {
	accounts, err := uc.accounts.NamedAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	buyer, ok := accounts[BuyerAccount]
	if !ok || buyer == nil {
		buyer, ok = accounts[DeployerAccount]
	}
	if !ok || buyer == nil {
		return nil, domain.ErrMissingDeployer
	}

	market, nft, err := resolveListingContracts(ctx, uc.registry, params.NFT)
	if err != nil {
		return nil, err
	}

	listing, err := readListing(ctx, market, nft, params.TokenID)
	if err != nil {
		return nil, err
	}
	if !listing.Active() {
		return nil, fmt.Errorf("%w: token %s of %s", domain.ErrNotListed, params.TokenID, nft.Hex())
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "buying",
		Message: fmt.Sprintf("Buying token %s for %s ETH", params.TokenID, units.FormatEther(listing.Price)),
		Spinner: true,
	})

	pending, err := market.Transact(ctx, buyer, listing.Price, "buyItem", nft, params.TokenID)
	if err != nil {
		return nil, &domain.TransactionError{Stage: "buy", Err: err}
	}

	confirmations := uint64(1)
	if uc.config != nil && uc.config.Network != nil {
		confirmations = uc.config.Network.Confirmations()
	}
	receipt, err := pending.WaitForConfirmations(ctx, confirmations)
	if err != nil {
		if errors.Is(err, domain.ErrConfirmationTimeout) || ctx.Err() != nil {
			return nil, fmt.Errorf("buy transaction %s: %w", pending.Hash().Hex(), err)
		}
		return nil, &domain.TransactionError{Stage: "buy", TxHash: pending.Hash().Hex(), Err: err}
	}
	if !receipt.Succeeded() {
		return nil, &domain.TransactionError{Stage: "buy", TxHash: receipt.TxHash.Hex(), Err: errors.New("execution reverted")}
	}

	uc.progress.Info(fmt.Sprintf("Bought token %s from %s", params.TokenID, listing.Seller.Hex()))
	return &BuyResult{Listing: listing, Buyer: buyer.Address, Receipt: receipt}, nil
}

func resolveListingContracts(ctx context.Context, registry ContractRegistry, nft common.Address) (ContractHandle, common.Address, error) {
	market, err := registry.GetDeployedContract(ctx, bindings.NFTMarketplaceName)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to resolve %s: %w", bindings.NFTMarketplaceName, err)
	}
	if nft == (common.Address{}) {
		handle, err := registry.GetDeployedContract(ctx, bindings.BasicNFTName)
		if err != nil {
			return nil, common.Address{}, fmt.Errorf("no --nft address given and %w", err)
		}
		nft = handle.Address()
	}
	return market, nft, nil
}

func readListing(ctx context.Context, market ContractHandle, nft common.Address, tokenID *big.Int) (*models.Listing, error) {
	if tokenID == nil || tokenID.Sign() < 0 {
		return nil, fmt.Errorf("invalid token id %v", tokenID)
	}
	data, err := market.Call(ctx, "getListing", nft, tokenID)
	if err != nil {
		return nil, fmt.Errorf("getListing failed: %w", err)
	}
	out, err := bindings.UnpackListing(data)
	if err != nil {
		return nil, err
	}
	return &models.Listing{
		NFTAddress: nft,
		TokenID:    new(big.Int).Set(tokenID),
		Seller:     out.Seller,
		Price:      out.Price,
	}, nil
}
