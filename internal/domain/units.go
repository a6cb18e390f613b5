package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// WeiDecimals is the number of decimals between wei and ether.
const WeiDecimals = 18

// FromWei converts a wei amount to ether. A nil amount converts to zero.
func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -WeiDecimals)
}

// ToWei converts an ether amount to wei, truncating sub-wei precision.
func ToWei(ether decimal.Decimal) *big.Int {
	return ether.Shift(WeiDecimals).BigInt()
}
