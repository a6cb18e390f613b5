// Package catalog builds the property and rental read views: it enumerates
// chain ids, hydrates them in parallel and keeps chain order.
package catalog

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/observability"
)

// DefaultConcurrency bounds in-flight reads per list request.
const DefaultConcurrency = 8

// Chain is the subset of gateway reads the views use.
type Chain interface {
	PropertyCount(ctx context.Context) (uint64, bool)
	GetProperty(ctx context.Context, id uint64) (*domain.Property, bool)
	GetRental(ctx context.Context, id uint64) (*domain.Rental, bool)
	TenantRentals(ctx context.Context, tenant string) ([]uint64, bool)
	LandlordProperties(ctx context.Context, landlord string) ([]uint64, bool)
}

// MetadataResolver returns the document behind a locator, or defaults.
type MetadataResolver interface {
	Resolve(ctx context.Context, uri string) domain.Metadata
}

// Option configures Catalog and Ledger.
type Option func(*options)

type options struct {
	concurrency int
	logger      *log.Logger
}

// WithConcurrency sets how many entities are hydrated at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(prefix string, opts []Option) options {
	o := options{
		concurrency: DefaultConcurrency,
		logger:      log.New(os.Stdout, prefix, log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// hydrate fetches every id with at most limit reads in flight. The result
// follows the order of ids; ids that did not resolve are left out.
func hydrate[T any](ctx context.Context, view string, limit int, ids []uint64, fetch func(context.Context, uint64) (*T, bool)) ([]*T, error) {
	start := time.Now()
	defer func() {
		observability.RecordHydration(view, time.Since(start).Seconds())
	}()

	slots := make([]*T, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if v, ok := fetch(gctx, id); ok {
				slots[i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(slots))
	for _, v := range slots {
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}
