package catalog

import (
	"context"
	"log"

	"github.com/Ken19931113/debook/internal/domain"
)

// Ledger is the rental read view.
type Ledger struct {
	chain       Chain
	concurrency int
	logger      *log.Logger
}

// NewLedger creates a rental ledger.
func NewLedger(chain Chain, opts ...Option) *Ledger {
	o := buildOptions("[ledger] ", opts)
	return &Ledger{
		chain:       chain,
		concurrency: o.concurrency,
		logger:      o.logger,
	}
}

// UserRentals returns the rentals indexed under tenant, in index order.
// Rentals that cannot be read are skipped.
func (l *Ledger) UserRentals(ctx context.Context, tenant string) ([]*domain.Rental, error) {
	ids, ok := l.chain.TenantRentals(ctx, tenant)
	if !ok {
		return []*domain.Rental{}, nil
	}
	rentals, err := hydrate(ctx, "rentals", l.concurrency, ids, l.chain.GetRental)
	if err != nil {
		return nil, err
	}
	if skipped := len(ids) - len(rentals); skipped > 0 {
		l.logger.Printf("tenant %s: skipped %d of %d rentals", tenant, skipped, len(ids))
	}
	return rentals, nil
}

// GetRental returns one rental.
func (l *Ledger) GetRental(ctx context.Context, id uint64) (*domain.Rental, bool) {
	return l.chain.GetRental(ctx, id)
}
