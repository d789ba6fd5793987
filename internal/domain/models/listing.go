package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Listing is a marketplace sale record as observed on chain. The marketplace contract owns
// it; a zero price means the token is not listed.
type Listing struct {
	NFTAddress common.Address `json:"nftAddress"`
	TokenID    *big.Int       `json:"tokenId"`
	Seller     common.Address `json:"seller"`
	Price      *big.Int       `json:"price"`
}

// Active reports whether the listing currently offers the token for sale
func (l *Listing) Active() bool {
	return l != nil && l.Price != nil && l.Price.Sign() > 0
}
