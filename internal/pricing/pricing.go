// Package pricing turns contract price answers into quotes with the platform
// fee and the secondary discount estimate.
package pricing

import (
	"context"
	"log"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/journal"
	"github.com/Ken19931113/debook/internal/observability"
)

const secondsPerDay = 86400

// PlatformFeePercent is charged on top of the contract's final price.
const PlatformFeePercent = 3

// AnnualYieldRate and CaptureFactor give the discount-B estimate.
var (
	AnnualYieldRate = decimal.RequireFromString("0.04")
	CaptureFactor   = decimal.RequireFromString("0.7")
)

// Quoter is the contract read used for quotes.
type Quoter interface {
	QuotePrice(ctx context.Context, propertyID uint64, start, end, leadDays int64) (*domain.RawQuote, bool)
}

// Option configures a Facade.
type Option func(*Facade)

// WithRecorder journals every successful quote.
func WithRecorder(r journal.Recorder) Option {
	return func(f *Facade) {
		if r != nil {
			f.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithClock overrides the time source used for lead days.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

// Facade computes price quotes.
type Facade struct {
	quoter   Quoter
	recorder journal.Recorder
	logger   *log.Logger
	now      func() time.Time
}

// New creates a pricing facade over q.
func New(q Quoter, opts ...Option) *Facade {
	f := &Facade{
		quoter:   q,
		recorder: journal.Nop{},
		logger:   log.New(os.Stdout, "[pricing] ", log.LstdFlags|log.Lshortfile),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// LeadDays returns the whole days between now and start, rounded toward
// negative infinity. It is negative when start is in the past.
func LeadDays(start int64, now time.Time) int64 {
	d := start - now.Unix()
	q := d / secondsPerDay
	if d%secondsPerDay != 0 && d < 0 {
		q--
	}
	return q
}

// PlatformFee returns floor(final * 3 / 100) in wei.
func PlatformFee(final *big.Int) *big.Int {
	fee := new(big.Int).Mul(final, big.NewInt(PlatformFeePercent))
	// Div rounds toward negative infinity for a positive divisor
	return fee.Div(fee, big.NewInt(100))
}

// EstimateDiscountB approximates the yield discount from the base price.
// It works in ether, not wei, and is not what the contract will charge.
func EstimateDiscountB(base *big.Int) decimal.Decimal {
	return domain.FromWei(base).Mul(AnnualYieldRate).Mul(CaptureFactor)
}

// Quote asks the contract for a price of propertyID over [start, end] and
// adds the derived fields. The boolean is false when the contract read failed.
func (f *Facade) Quote(ctx context.Context, propertyID uint64, start, end int64) (*domain.PriceQuote, bool) {
	lead := LeadDays(start, f.now())

	raw, ok := f.quoter.QuotePrice(ctx, propertyID, start, end, lead)
	if !ok || raw == nil || raw.FinalPrice == nil {
		f.logger.Printf("quote property=%d start=%d end=%d: no price", propertyID, start, end)
		observability.RecordQuote(false)
		return nil, false
	}

	fee := PlatformFee(raw.FinalPrice)
	total := new(big.Int).Add(raw.FinalPrice, fee)

	q := &domain.PriceQuote{
		PropertyID:         propertyID,
		StartDate:          start,
		EndDate:            end,
		LeadDays:           lead,
		BasePrice:          domain.FromWei(raw.BasePrice),
		DiscountA:          domain.FromWei(raw.DiscountA),
		FinalPrice:         domain.FromWei(raw.FinalPrice),
		PlatformFee:        domain.FromWei(fee),
		TotalPayment:       domain.FromWei(total),
		EstimatedDiscountB: EstimateDiscountB(raw.BasePrice),
	}
	observability.RecordQuote(true)

	f.recorder.Record(ctx, domain.ActivityEvent{
		Kind:       domain.ActivityQuote,
		PropertyID: propertyID,
		Amount:     q.TotalPayment.String(),
		Detail:     "lead_days=" + strconv.FormatInt(lead, 10),
	})
	return q, true
}
