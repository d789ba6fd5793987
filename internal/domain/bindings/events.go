package bindings

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
	"github.com/trebuchet-org/nftmarket/internal/domain"
)

// TransferEvent is the ERC721 Transfer(address,address,uint256) event
type TransferEvent struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
	Raw     types.Log
}

// ItemListedEvent is emitted by the marketplace when a token is listed
type ItemListedEvent struct {
	Seller     common.Address
	NftAddress common.Address
	TokenId    *big.Int
	Price      *big.Int
	Raw        types.Log
}

// ItemBoughtEvent is emitted by the marketplace when a listed token is purchased
type ItemBoughtEvent struct {
	Buyer      common.Address
	NftAddress common.Address
	TokenId    *big.Int
	Price      *big.Int
	Raw        types.Log
}

// Listing is the getListing return tuple
type Listing struct {
	Price  *big.Int
	Seller common.Address
}

var errNoEventSignature = errors.New("no event signature")

// ParseMintTransfer finds the Transfer event minting a token on the given asset contract.
// Only logs emitted by nft with the Transfer signature and a zero sender are considered.
func ParseMintTransfer(logs []*types.Log, nft common.Address) (*TransferEvent, error) {
	event := basicNFTABI.Events["Transfer"]
	candidates := lo.Filter(logs, func(l *types.Log, _ int) bool {
		// ERC721 indexes tokenId, so a mint log carries the signature plus three topics
		return l != nil && l.Address == nft && len(l.Topics) == 4 && l.Topics[0] == event.ID
	})

	for _, l := range candidates {
		transfer := new(TransferEvent)
		if err := unpackLog(basicNFTABI, transfer, "Transfer", *l); err != nil {
			return nil, fmt.Errorf("failed to decode Transfer log: %w", err)
		}
		if transfer.From != (common.Address{}) {
			continue
		}
		transfer.Raw = *l
		return transfer, nil
	}

	return nil, fmt.Errorf("%w: Transfer from %s", domain.ErrEventMissing, nft.Hex())
}

// ParseItemListed finds the ItemListed event emitted by the marketplace
func ParseItemListed(logs []*types.Log, marketplace common.Address) (*ItemListedEvent, error) {
	listed := new(ItemListedEvent)
	raw, err := findAndUnpack(logs, marketplace, "ItemListed", listed)
	if err != nil {
		return nil, err
	}
	listed.Raw = *raw
	return listed, nil
}

// ParseItemBought finds the ItemBought event emitted by the marketplace
func ParseItemBought(logs []*types.Log, marketplace common.Address) (*ItemBoughtEvent, error) {
	bought := new(ItemBoughtEvent)
	raw, err := findAndUnpack(logs, marketplace, "ItemBought", bought)
	if err != nil {
		return nil, err
	}
	bought.Raw = *raw
	return bought, nil
}

// UnpackListing decodes the raw return data of getListing
func UnpackListing(data []byte) (*Listing, error) {
	out, err := marketplaceABI.Unpack("getListing", data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack getListing: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected getListing output length %d", len(out))
	}
	return abi.ConvertType(out[0], new(Listing)).(*Listing), nil
}

func findAndUnpack(logs []*types.Log, emitter common.Address, name string, out any) (*types.Log, error) {
	event := marketplaceABI.Events[name]
	indexed := lo.CountBy(event.Inputs, func(arg abi.Argument) bool { return arg.Indexed })

	raw, found := lo.Find(logs, func(l *types.Log) bool {
		return l != nil && l.Address == emitter && len(l.Topics) == indexed+1 && l.Topics[0] == event.ID
	})
	if !found {
		return nil, fmt.Errorf("%w: %s from %s", domain.ErrEventMissing, name, emitter.Hex())
	}
	if err := unpackLog(marketplaceABI, out, name, *raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s log: %w", name, err)
	}
	return raw, nil
}

// unpackLog mirrors bind.BoundContract.UnpackLog for a contract ABI without a bound address
func unpackLog(contractABI abi.ABI, out any, event string, log types.Log) error {
	if len(log.Topics) == 0 {
		return errNoEventSignature
	}
	if log.Topics[0] != contractABI.Events[event].ID {
		return fmt.Errorf("event signature mismatch for %s", event)
	}
	if len(log.Data) > 0 {
		if err := contractABI.UnpackIntoInterface(out, event, log.Data); err != nil {
			return err
		}
	}
	var indexed abi.Arguments
	for _, arg := range contractABI.Events[event].Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return abi.ParseTopics(out, indexed, log.Topics[1:])
}
