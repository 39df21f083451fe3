package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Asset identifies an ERC-20 token on one chain.
type Asset struct {
	Address  common.Address
	Decimals int32
	Symbol   string
}

// ToBaseUnits converts a human-denominated amount to the asset's base units,
// truncating anything below the native precision. Truncation, not rounding:
// the result must never exceed what the amount actually covers.
func ToBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Truncate(decimals).Shift(decimals).BigInt()
}

// FromBaseUnits converts a base-unit amount back to a human-denominated
// decimal.
func FromBaseUnits(raw *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -decimals)
}

// FormatBaseUnits renders a base-unit amount with exactly the asset's number
// of fraction digits, e.g. 100000 with 6 decimals -> "0.100000".
func FormatBaseUnits(raw *big.Int, decimals int32) string {
	return FromBaseUnits(raw, decimals).StringFixed(decimals)
}
