package domain

import "github.com/shopspring/decimal"

// Property is a rental listing as recorded by the registry contract.
// It is never persisted locally; every read comes from the chain.
type Property struct {
	ID                 uint64
	Owner              string          // checksummed account address
	Location           string
	PricePerMonth      decimal.Decimal // ether, converted from wei
	MinRentalDuration  uint64
	MaxRentalDuration  uint64
	Available          bool
	PricingModel       uint8
	DepositRequirement uint64 // raw contract value, not converted
	MetadataURI        string
	Metadata           Metadata
}

// ListingInput carries the fields of a new listing. Required fields are
// pointers so that absence can be told apart from a zero value.
type ListingInput struct {
	Location           *string
	PricePerMonth      *decimal.Decimal
	MinRentalDuration  *uint64
	MaxRentalDuration  *uint64
	DepositRequirement *uint64
	Metadata           Metadata // optional
}

// ListingReceipt is the outcome of a mined listProperty transaction.
type ListingReceipt struct {
	TxHash      string
	BlockNumber uint64
	MetadataURI string
	// PropertyID is nil when the receipt carried no PropertyListed event.
	PropertyID *uint64
}

// EventFound reports whether the generated property id was recovered.
func (r *ListingReceipt) EventFound() bool {
	return r.PropertyID != nil
}
