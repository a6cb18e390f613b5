package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Ken19931113/debook/internal/domain"
)

// PropertyFilter holds the optional list predicates. Nil fields match all.
type PropertyFilter struct {
	Location    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinDuration *uint64 // lower bound on MinRentalDuration
	MaxDuration *uint64 // upper bound on MaxRentalDuration
}

// Match reports whether p satisfies every set predicate.
func (f PropertyFilter) Match(p *domain.Property) bool {
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.MinPrice != nil && p.PricePerMonth.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.PricePerMonth.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.MinDuration != nil && p.MinRentalDuration < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && p.MaxRentalDuration > *f.MaxDuration {
		return false
	}
	return true
}

// Apply keeps the properties that match, preserving order.
func (f PropertyFilter) Apply(props []*domain.Property) []*domain.Property {
	out := make([]*domain.Property, 0, len(props))
	for _, p := range props {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
