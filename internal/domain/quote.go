package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// RawQuote is the contract's price answer in wei.
type RawQuote struct {
	BasePrice  *big.Int
	DiscountA  *big.Int
	FinalPrice *big.Int
}

// PriceQuote is a contract quote augmented with locally derived fields.
// PlatformFee and TotalPayment are computed in wei and then converted;
// EstimatedDiscountB is a decimal-space approximation and is not authoritative.
type PriceQuote struct {
	PropertyID uint64
	StartDate  int64
	EndDate    int64
	LeadDays   int64

	BasePrice          decimal.Decimal
	DiscountA          decimal.Decimal
	FinalPrice         decimal.Decimal
	PlatformFee        decimal.Decimal
	TotalPayment       decimal.Decimal
	EstimatedDiscountB decimal.Decimal
}
