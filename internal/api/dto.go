package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ken19931113/debook/internal/domain"
)

// Amount is a token amount encoded as a bare JSON number, as the frontend
// expects. Other decimals in the process keep the library's quoted form.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// PropertyResponse is a hydrated property.
type PropertyResponse struct {
	ID                 uint64          `json:"id"`
	Owner              string          `json:"owner"`
	Location           string          `json:"location"`
	PricePerMonth      Amount          `json:"pricePerMonth"`
	MinRentalDuration  uint64          `json:"minRentalDuration"`
	MaxRentalDuration  uint64          `json:"maxRentalDuration"`
	Available          bool            `json:"available"`
	PricingModel       uint8           `json:"pricingModel"`
	DepositRequirement uint64          `json:"depositRequirement"`
	MetadataURI        string          `json:"metadataURI"`
	Metadata           domain.Metadata `json:"metadata"`
}

func newPropertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:                 p.ID,
		Owner:              p.Owner,
		Location:           p.Location,
		PricePerMonth:      Amount{p.PricePerMonth},
		MinRentalDuration:  p.MinRentalDuration,
		MaxRentalDuration:  p.MaxRentalDuration,
		Available:          p.Available,
		PricingModel:       p.PricingModel,
		DepositRequirement: p.DepositRequirement,
		MetadataURI:        p.MetadataURI,
		Metadata:           p.Metadata,
	}
}

func newPropertyList(props []*domain.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(props))
	for i, p := range props {
		out[i] = newPropertyResponse(p)
	}
	return out
}

// RentalResponse is a rental record.
type RentalResponse struct {
	ID             uint64 `json:"id"`
	PropertyID     uint64 `json:"propertyId"`
	Landlord       string `json:"landlord"`
	Tenant         string `json:"tenant"`
	StartDate      int64  `json:"startDate"`
	EndDate        int64  `json:"endDate"`
	BasePrice      Amount `json:"basePrice"`
	FinalPrice     Amount `json:"finalPrice"`
	Deposit        Amount `json:"deposit"`
	DiscountA      Amount `json:"discountA"`
	DiscountBBase  Amount `json:"discountBBase"`
	DiscountBPlus  Amount `json:"discountBPlus"`
	State          uint8  `json:"state"`
	AllowTransfer  bool   `json:"allowTransfer"`
	CancelDeadline int64  `json:"cancelDeadline"`
	MetadataURI    string `json:"metadataURI"`
}

func newRentalResponse(r *domain.Rental) RentalResponse {
	return RentalResponse{
		ID:             r.ID,
		PropertyID:     r.PropertyID,
		Landlord:       r.Landlord,
		Tenant:         r.Tenant,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		BasePrice:      Amount{r.BasePrice},
		FinalPrice:     Amount{r.FinalPrice},
		Deposit:        Amount{r.Deposit},
		DiscountA:      Amount{r.DiscountA},
		DiscountBBase:  Amount{r.DiscountBBase},
		DiscountBPlus:  Amount{r.DiscountBPlus},
		State:          r.State,
		AllowTransfer:  r.AllowTransfer,
		CancelDeadline: r.CancelDeadline,
		MetadataURI:    r.MetadataURI,
	}
}

// PriceQuoteResponse is the answer of POST /rentals/calculate.
type PriceQuoteResponse struct {
	PropertyID         uint64 `json:"propertyId"`
	StartDate          int64  `json:"startDate"`
	EndDate            int64  `json:"endDate"`
	LeadDays           int64  `json:"leadDays"`
	BasePrice          Amount `json:"basePrice"`
	DiscountA          Amount `json:"discountA"`
	FinalPrice         Amount `json:"finalPrice"`
	PlatformFee        Amount `json:"platformFee"`
	TotalPayment       Amount `json:"totalPayment"`
	EstimatedDiscountB Amount `json:"estimatedDiscountB"`
}

func newPriceQuoteResponse(q *domain.PriceQuote) PriceQuoteResponse {
	return PriceQuoteResponse{
		PropertyID:         q.PropertyID,
		StartDate:          q.StartDate,
		EndDate:            q.EndDate,
		LeadDays:           q.LeadDays,
		BasePrice:          Amount{q.BasePrice},
		DiscountA:          Amount{q.DiscountA},
		FinalPrice:         Amount{q.FinalPrice},
		PlatformFee:        Amount{q.PlatformFee},
		TotalPayment:       Amount{q.TotalPayment},
		EstimatedDiscountB: Amount{q.EstimatedDiscountB},
	}
}

// CalculateRequest is the body of POST /rentals/calculate.
type CalculateRequest struct {
	PropertyID *uint64 `json:"property_id"`
	StartDate  *int64  `json:"start_date"`
	EndDate    *int64  `json:"end_date"`
}

// CreatePropertyRequest is the body of POST /properties/.
type CreatePropertyRequest struct {
	Location           *string          `json:"location"`
	PricePerMonth      *decimal.Decimal `json:"pricePerMonth"`
	MinRentalDuration  *uint64          `json:"minRentalDuration"`
	MaxRentalDuration  *uint64          `json:"maxRentalDuration"`
	DepositRequirement *uint64          `json:"depositRequirement"`
	Metadata           domain.Metadata  `json:"metadata,omitempty"`
}

func (r CreatePropertyRequest) toInput() domain.ListingInput {
	return domain.ListingInput{
		Location:           r.Location,
		PricePerMonth:      r.PricePerMonth,
		MinRentalDuration:  r.MinRentalDuration,
		MaxRentalDuration:  r.MaxRentalDuration,
		DepositRequirement: r.DepositRequirement,
		Metadata:           r.Metadata,
	}
}

// TransactionInfo identifies a mined transaction.
type TransactionInfo struct {
	Hash        string `json:"hash"`
	BlockNumber uint64 `json:"blockNumber"`
}

// TransactionResponse is the answer of a chain write. PropertyID is null
// when the receipt carried no PropertyListed event.
type TransactionResponse struct {
	Success     bool             `json:"success"`
	PropertyID  *uint64          `json:"propertyId"`
	MetadataURI string           `json:"metadataURI,omitempty"`
	Transaction *TransactionInfo `json:"transaction,omitempty"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	WalletAddress *string `json:"wallet_address"`
}

// LoginRequest is the body of POST /token, as JSON or form fields.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse carries an access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the answer of GET /users/me.
type UserResponse struct {
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	WalletAddress *string   `json:"wallet_address"`
	IsActive      bool      `json:"is_active"`
	IsLandlord    bool      `json:"is_landlord"`
	CreatedAt     time.Time `json:"created_at"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		Username:      u.Username,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		IsActive:      u.IsActive,
		IsLandlord:    u.IsLandlord,
		CreatedAt:     u.CreatedAt,
	}
}

// WalletRequest is the optional body of POST /users/me/wallet.
type WalletRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// WalletResponse confirms a wallet update.
type WalletResponse struct {
	Status        string `json:"status"`
	WalletAddress string `json:"wallet_address"`
}

// ContractResponse describes one configured contract.
type ContractResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ActivityResponse is one journal entry.
type ActivityResponse struct {
	Kind       domain.ActivityKind `json:"kind"`
	Subject    string              `json:"subject,omitempty"`
	PropertyID uint64              `json:"propertyId,omitempty"`
	TxHash     string              `json:"txHash,omitempty"`
	Amount     string              `json:"amount,omitempty"`
	Detail     string              `json:"detail,omitempty"`
	OccurredAt time.Time           `json:"occurredAt"`
}

func newActivityResponse(ev *domain.ActivityEvent) ActivityResponse {
	return ActivityResponse{
		Kind:       ev.Kind,
		Subject:    ev.Subject,
		PropertyID: ev.PropertyID,
		TxHash:     ev.TxHash,
		Amount:     ev.Amount,
		Detail:     ev.Detail,
		OccurredAt: ev.OccurredAt,
	}
}
