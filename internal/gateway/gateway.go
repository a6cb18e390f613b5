// Package gateway is the typed boundary to the registry contract: reads that
// never fail the caller, and the listProperty write path.
package gateway

import (
	"context"
	"crypto/ecdsa"
	"log"
	"math/big"
	"os"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Ken19931113/debook/internal/contracts"
	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/ethrpc"
	"github.com/Ken19931113/debook/internal/journal"
	"github.com/Ken19931113/debook/internal/observability"
)

// Defaults for Config.
const (
	DefaultGasLimit       = 2_000_000
	DefaultReceiptTimeout = 2 * time.Minute
	DefaultPollInterval   = 2 * time.Second
)

// Config holds write-path settings.
type Config struct {
	GasLimit       uint64
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
}

// DefaultConfig returns the default write-path settings.
func DefaultConfig() Config {
	return Config{
		GasLimit:       DefaultGasLimit,
		ReceiptTimeout: DefaultReceiptTimeout,
		PollInterval:   DefaultPollInterval,
	}
}

// Publisher stores a metadata document and returns its locator.
type Publisher interface {
	Publish(ctx context.Context, doc domain.Metadata) (string, error)
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRecorder journals listing submissions and outcomes.
func WithRecorder(r journal.Recorder) Option {
	return func(g *Gateway) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithOperatorKey sets the operator key used when the sender is the operator account.
func WithOperatorKey(key *ecdsa.PrivateKey) Option {
	return func(g *Gateway) {
		if key != nil {
			g.operator = key
			g.operatorAddr = crypto.PubkeyToAddress(key.PublicKey)
		}
	}
}

// Gateway wraps the registry binding and the RPC client.
type Gateway struct {
	client    ethrpc.Client
	registry  *contracts.RentalRegistry
	publisher Publisher
	cfg       Config

	operator     *ecdsa.PrivateKey
	operatorAddr common.Address

	recorder journal.Recorder
	logger   *log.Logger
	heads    *headFanout

	chainMu sync.Mutex
	chainID *big.Int
}

// New creates a gateway. publisher may be nil when listings never carry metadata.
func New(client ethrpc.Client, registry *contracts.RentalRegistry, publisher Publisher, cfg Config, opts ...Option) *Gateway {
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultGasLimit
	}
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = DefaultReceiptTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	g := &Gateway{
		client:    client,
		registry:  registry,
		publisher: publisher,
		cfg:       cfg,
		recorder:  journal.Nop{},
		logger:    log.New(os.Stdout, "[gateway] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OperatorAddress returns the operator account, or the zero address when none is configured.
func (g *Gateway) OperatorAddress() common.Address {
	return g.operatorAddr
}

// unresolved logs a read failure converted to an absent result.
func (g *Gateway) unresolved(op string, arg interface{}, err error) {
	g.logger.Printf("%s(%v): %v", op, arg, err)
	observability.RecordUnresolvedRead(op)
}

// PropertyCount returns the number of listed properties.
func (g *Gateway) PropertyCount(ctx context.Context) (uint64, bool) {
	n, err := g.registry.PropertyCount(ctx)
	if err != nil {
		g.unresolved("getPropertyCount", "", err)
		return 0, false
	}
	if !n.IsUint64() {
		g.unresolved("getPropertyCount", "", errOutOfRange)
		return 0, false
	}
	return n.Uint64(), true
}

// GetProperty returns property id without metadata. The boolean is false when
// the id is unknown or the read failed.
func (g *Gateway) GetProperty(ctx context.Context, id uint64) (*domain.Property, bool) {
	rec, err := g.registry.Properties(ctx, new(big.Int).SetUint64(id))
	if err != nil {
		g.unresolved("properties", id, err)
		return nil, false
	}
	// unknown ids read back as zero structs
	if rec.Owner == (common.Address{}) {
		return nil, false
	}
	if !fitUint64(rec.MinRentalDuration, rec.MaxRentalDuration, rec.DepositRequirement) {
		g.unresolved("properties", id, errOutOfRange)
		return nil, false
	}

	return &domain.Property{
		ID:                 id,
		Owner:              rec.Owner.Hex(),
		Location:           rec.Location,
		PricePerMonth:      domain.FromWei(rec.PricePerMonth),
		MinRentalDuration:  rec.MinRentalDuration.Uint64(),
		MaxRentalDuration:  rec.MaxRentalDuration.Uint64(),
		Available:          rec.Available,
		PricingModel:       rec.PricingModel,
		DepositRequirement: rec.DepositRequirement.Uint64(),
		MetadataURI:        rec.MetadataURI,
	}, true
}

// GetRental returns rental id. The boolean is false when the id is unknown
// or the read failed.
func (g *Gateway) GetRental(ctx context.Context, id uint64) (*domain.Rental, bool) {
	rec, err := g.registry.RentalRecords(ctx, new(big.Int).SetUint64(id))
	if err != nil {
		g.unresolved("rentalRecords", id, err)
		return nil, false
	}
	if rec.Tenant == (common.Address{}) && rec.Landlord == (common.Address{}) {
		return nil, false
	}
	if !fitUint64(rec.PropertyID) || !fitInt64(rec.StartDate, rec.EndDate, rec.CancelDeadline) {
		g.unresolved("rentalRecords", id, errOutOfRange)
		return nil, false
	}

	return &domain.Rental{
		ID:             id,
		PropertyID:     rec.PropertyID.Uint64(),
		Landlord:       rec.Landlord.Hex(),
		Tenant:         rec.Tenant.Hex(),
		StartDate:      rec.StartDate.Int64(),
		EndDate:        rec.EndDate.Int64(),
		BasePrice:      domain.FromWei(rec.BasePrice),
		FinalPrice:     domain.FromWei(rec.FinalPrice),
		Deposit:        domain.FromWei(rec.Deposit),
		DiscountA:      domain.FromWei(rec.DiscountA),
		DiscountBBase:  domain.FromWei(rec.DiscountBBase),
		DiscountBPlus:  domain.FromWei(rec.DiscountBPlus),
		State:          rec.State,
		AllowTransfer:  rec.AllowTransfer,
		CancelDeadline: rec.CancelDeadline.Int64(),
		MetadataURI:    rec.MetadataURI,
	}, true
}

// TenantRentals returns the rental ids indexed under tenant, in chain order.
func (g *Gateway) TenantRentals(ctx context.Context, tenant string) ([]uint64, bool) {
	if !common.IsHexAddress(tenant) {
		g.unresolved("getTenantRentals", tenant, errInvalidAddress)
		return nil, false
	}
	ids, err := g.registry.TenantRentals(ctx, common.HexToAddress(tenant))
	if err != nil {
		g.unresolved("getTenantRentals", tenant, err)
		return nil, false
	}
	if !fitUint64(ids...) {
		g.unresolved("getTenantRentals", tenant, errOutOfRange)
		return nil, false
	}
	return toUint64s(ids), true
}

// LandlordProperties returns the property ids indexed under landlord, in chain order.
func (g *Gateway) LandlordProperties(ctx context.Context, landlord string) ([]uint64, bool) {
	if !common.IsHexAddress(landlord) {
		g.unresolved("getLandlordProperties", landlord, errInvalidAddress)
		return nil, false
	}
	ids, err := g.registry.LandlordProperties(ctx, common.HexToAddress(landlord))
	if err != nil {
		g.unresolved("getLandlordProperties", landlord, err)
		return nil, false
	}
	if !fitUint64(ids...) {
		g.unresolved("getLandlordProperties", landlord, errOutOfRange)
		return nil, false
	}
	return toUint64s(ids), true
}

// QuotePrice asks the contract for a price. leadDays may be negative.
func (g *Gateway) QuotePrice(ctx context.Context, propertyID uint64, start, end, leadDays int64) (*domain.RawQuote, bool) {
	rec, err := g.registry.CalculateRentalPrice(ctx,
		new(big.Int).SetUint64(propertyID),
		big.NewInt(start),
		big.NewInt(end),
		big.NewInt(leadDays),
	)
	if err != nil {
		g.unresolved("calculateRentalPrice", propertyID, err)
		return nil, false
	}
	return &domain.RawQuote{
		BasePrice:  rec.BasePrice,
		DiscountA:  rec.DiscountA,
		FinalPrice: rec.FinalPrice,
	}, true
}

// fitUint64 reports whether every value is non-nil and fits in a uint64.
func fitUint64(vals ...*big.Int) bool {
	for _, v := range vals {
		if v == nil || !v.IsUint64() {
			return false
		}
	}
	return true
}

func fitInt64(vals ...*big.Int) bool {
	for _, v := range vals {
		if v == nil || !v.IsInt64() {
			return false
		}
	}
	return true
}

func toUint64s(ids []*big.Int) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = id.Uint64()
	}
	return out
}
