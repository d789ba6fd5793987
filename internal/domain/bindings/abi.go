package bindings

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract names as they appear in compiled artifacts and deployment records
const (
	NFTMarketplaceName = "NFTMarketplace"
	BasicNFTName       = "BasicNFT"
)

// NFTMarketplaceABI is the interface of the marketplace contract
const NFTMarketplaceABI = `[
	{"type":"function","name":"listItem","stateMutability":"nonpayable","inputs":[{"name":"nftAddress","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"price","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"buyItem","stateMutability":"payable","inputs":[{"name":"nftAddress","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"cancelListing","stateMutability":"nonpayable","inputs":[{"name":"nftAddress","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"updateListing","stateMutability":"nonpayable","inputs":[{"name":"nftAddress","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"newPrice","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"withdrawProceeds","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"getListing","stateMutability":"view","inputs":[{"name":"nftAddress","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","internalType":"struct NftMarketplace.Listing","components":[{"name":"price","type":"uint256"},{"name":"seller","type":"address"}]}]},
	{"type":"function","name":"getProceeds","stateMutability":"view","inputs":[{"name":"seller","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"ItemListed","anonymous":false,"inputs":[{"name":"seller","type":"address","indexed":true},{"name":"nftAddress","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true},{"name":"price","type":"uint256","indexed":false}]},
	{"type":"event","name":"ItemBought","anonymous":false,"inputs":[{"name":"buyer","type":"address","indexed":true},{"name":"nftAddress","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true},{"name":"price","type":"uint256","indexed":false}]},
	{"type":"event","name":"ItemCanceled","anonymous":false,"inputs":[{"name":"seller","type":"address","indexed":true},{"name":"nftAddress","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]}
]`

// BasicNFTABI is the interface of the ERC721 asset contract used by the mint script
const BasicNFTABI = `[
	{"type":"function","name":"mintNft","stateMutability":"nonpayable","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getApproved","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getTokenCounter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]},
	{"type":"event","name":"Approval","anonymous":false,"inputs":[{"name":"owner","type":"address","indexed":true},{"name":"approved","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]}
]`

var (
	marketplaceABI = mustParseABI(NFTMarketplaceName, NFTMarketplaceABI)
	basicNFTABI    = mustParseABI(BasicNFTName, BasicNFTABI)
)

// MarketplaceABI returns the parsed marketplace ABI
func MarketplaceABI() abi.ABI {
	return marketplaceABI
}

// BasicNFTContractABI returns the parsed asset contract ABI
func BasicNFTContractABI() abi.ABI {
	return basicNFTABI
}

// Lookup returns the built-in ABI for a known contract name
func Lookup(contractName string) (abi.ABI, bool) {
	switch contractName {
	case NFTMarketplaceName:
		return marketplaceABI, true
	case BasicNFTName:
		return basicNFTABI, true
	default:
		return abi.ABI{}, false
	}
}

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid %s ABI: %v", name, err))
	}
	return parsed
}
