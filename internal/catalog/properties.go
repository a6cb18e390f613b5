package catalog

import (
	"context"
	"log"

	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/observability"
)

// MaxScannedProperties bounds the id range ListAvailable enumerates.
const MaxScannedProperties = 1 << 20

// Catalog is the property read view.
type Catalog struct {
	chain       Chain
	meta        MetadataResolver
	concurrency int
	logger      *log.Logger
}

// New creates a property catalog.
func New(chain Chain, meta MetadataResolver, opts ...Option) *Catalog {
	o := buildOptions("[catalog] ", opts)
	return &Catalog{
		chain:       chain,
		meta:        meta,
		concurrency: o.concurrency,
		logger:      o.logger,
	}
}

// ListAvailable returns available properties in ascending id order. skip and
// limit apply to the available properties, not to the raw id range.
func (c *Catalog) ListAvailable(ctx context.Context, skip, limit int) ([]*domain.Property, error) {
	count, ok := c.chain.PropertyCount(ctx)
	if !ok || count == 0 {
		return []*domain.Property{}, nil
	}
	if count > MaxScannedProperties {
		c.logger.Printf("property count %d exceeds scan limit %d", count, MaxScannedProperties)
		observability.RecordUnresolvedRead("getPropertyCount")
		return []*domain.Property{}, nil
	}

	ids := make([]uint64, count)
	for i := range ids {
		ids[i] = uint64(i) + 1
	}

	all, err := hydrate(ctx, "available", c.concurrency, ids, c.getProperty)
	if err != nil {
		return nil, err
	}

	available := make([]*domain.Property, 0, len(all))
	for _, p := range all {
		if p.Available {
			available = append(available, p)
		}
	}
	return page(available, skip, limit), nil
}

// GetProperty returns one hydrated property.
func (c *Catalog) GetProperty(ctx context.Context, id uint64) (*domain.Property, bool) {
	return c.getProperty(ctx, id)
}

// LandlordProperties returns every property indexed under landlord, in index
// order, available or not.
func (c *Catalog) LandlordProperties(ctx context.Context, landlord string) ([]*domain.Property, error) {
	ids, ok := c.chain.LandlordProperties(ctx, landlord)
	if !ok {
		return []*domain.Property{}, nil
	}
	return hydrate(ctx, "landlord", c.concurrency, ids, c.getProperty)
}

func (c *Catalog) getProperty(ctx context.Context, id uint64) (*domain.Property, bool) {
	p, ok := c.chain.GetProperty(ctx, id)
	if !ok {
		return nil, false
	}
	p.Metadata = c.meta.Resolve(ctx, p.MetadataURI)
	return p, true
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) || limit <= 0 {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
