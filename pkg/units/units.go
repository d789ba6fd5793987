// Package units converts between human-readable decimal amounts and integer base units.
// All conversions are exact; inputs that cannot be represented without rounding are rejected.
package units

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals of the native currency on EVM chains
const EtherDecimals int32 = 18

// maxUint256Digits is the number of decimal digits of 2^256-1
const maxUint256Digits = 78

// ParseEther converts a decimal ether amount (e.g. "0.1") into wei
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// ParseUnits converts a decimal amount into its smallest integer denomination
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("invalid decimals %d", decimals)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", amount)
	}

	if d.IsZero() {
		return new(big.Int), nil
	}

	// Bound the magnitude from digits and exponent before any big integer is built
	if int64(d.NumDigits())+int64(d.Exponent())+int64(decimals) > maxUint256Digits {
		return nil, fmt.Errorf("invalid amount %q: exceeds uint256", amount)
	}

	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimal places", amount, decimals)
	}

	value := shifted.BigInt()
	if value.Cmp(math.MaxBig256) > 0 {
		return nil, fmt.Errorf("invalid amount %q: exceeds uint256", amount)
	}
	return value, nil
}

// FormatEther renders a wei amount as a decimal ether string
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// FormatUnits renders an integer amount with the given number of decimals
func FormatUnits(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}
