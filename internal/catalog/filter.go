package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/prperemyshlev/storefront/internal/domain"
)

// PriceRange holds optional inclusive bounds. A nil bound is unconstrained.
type PriceRange struct {
	Min *float64
	Max *float64
}

// ParsePriceRange reads "min-max". Either side may be omitted ("100-", "-20")
// and text without a hyphen is a lower bound only. Text that does not parse as
// a finite number leaves that bound unset.
func ParsePriceRange(s string) PriceRange {
	if strings.TrimSpace(s) == "" {
		return PriceRange{}
	}
	parts := strings.Split(s, "-")
	r := PriceRange{Min: parseBound(parts[0])}
	if len(parts) > 1 {
		r.Max = parseBound(parts[1])
	}
	return r
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Contains reports whether price lies within the bounds
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// IsZero reports whether neither bound is set
func (r PriceRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Filter is the conjunction of all listing predicates. Zero fields match everything.
type Filter struct {
	Category domain.Category
	Search   string
	Price    PriceRange
}

// Matches evaluates the filter against a single product
func (f Filter) Matches(p *domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return f.Price.Contains(p.Price)
}
