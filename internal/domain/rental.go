package domain

import "github.com/shopspring/decimal"

// Rental is a rental record projected from the registry contract.
// State values are defined by the contract and passed through untouched.
type Rental struct {
	ID             uint64
	PropertyID     uint64
	Landlord       string
	Tenant         string
	StartDate      int64 // Unix seconds
	EndDate        int64 // Unix seconds
	BasePrice      decimal.Decimal
	FinalPrice     decimal.Decimal
	Deposit        decimal.Decimal
	DiscountA      decimal.Decimal
	DiscountBBase  decimal.Decimal
	DiscountBPlus  decimal.Decimal
	State          uint8
	AllowTransfer  bool
	CancelDeadline int64
	MetadataURI    string
}
