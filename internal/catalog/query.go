// Package catalog compiles product listing parameters into a filter, a total
// order and a pagination window. Everything here is pure; stores decide how to
// execute a compiled Query.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/prperemyshlev/storefront/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// ErrUnknownCategory is returned by Compile for a category outside domain.Categories
var ErrUnknownCategory = errors.New("unknown category")

// SortKey is a client-facing sort option
type SortKey string

const (
	SortNewest    SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortRating    SortKey = "rating"
)

// Params is the flat, optional set of listing parameters as received from a client
type Params struct {
	Page       int
	Limit      int
	Category   string
	Search     string
	PriceRange string
	SortBy     string
}

// Query is the compiled form of Params
type Query struct {
	Filter Filter
	Order  Order
	Window Window
	Page   int
	Limit  int
	Sort   SortKey
}

// Compile translates params into a Query. Zero page and limit take the
// defaults; every other value passes through unchanged.
func Compile(p Params) (Query, error) {
	page := p.Page
	if page == 0 {
		page = DefaultPage
	}
	limit := p.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	filter := Filter{
		Search: p.Search,
		Price:  ParsePriceRange(p.PriceRange),
	}
	if p.Category != "" {
		category := domain.Category(p.Category)
		if !category.Valid() {
			return Query{}, fmt.Errorf("%w: %q", ErrUnknownCategory, p.Category)
		}
		filter.Category = category
	}

	sortKey := normalizeSort(p.SortBy)

	return Query{
		Filter: filter,
		Order:  orderFor(sortKey),
		Window: NewWindow(page, limit),
		Page:   page,
		Limit:  limit,
		Sort:   sortKey,
	}, nil
}

// Key returns a canonical string for the query, stable across equivalent
// parameter spellings. Used as a cache key.
func (q Query) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "p=%d;l=%d;c=%s;s=%s;sort=%s", q.Page, q.Limit, q.Filter.Category, strings.ToLower(q.Filter.Search), q.Sort)
	if q.Filter.Price.Min != nil {
		fmt.Fprintf(&b, ";min=%s", strconv.FormatFloat(*q.Filter.Price.Min, 'f', -1, 64))
	}
	if q.Filter.Price.Max != nil {
		fmt.Fprintf(&b, ";max=%s", strconv.FormatFloat(*q.Filter.Price.Max, 'f', -1, 64))
	}
	return b.String()
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func normalizeSort(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortRating:
		return k
	}
	return SortNewest
}

// Window is an offset/limit slice of an ordered result set
type Window struct {
	Offset int
	Limit  int
}

// NewWindow computes offset = (page-1)*limit. An offset that would overflow
// saturates, which every store treats as an empty page.
func NewWindow(page, limit int) Window {
	w := Window{Limit: limit}
	if limit > 0 {
		switch {
		case page > 1 && page-1 > math.MaxInt/limit:
			w.Offset = math.MaxInt
			return w
		case page < 1 && page-1 < math.MinInt/limit:
			w.Offset = math.MinInt
			return w
		}
	}
	w.Offset = (page - 1) * limit
	return w
}

// Empty reports whether the window can never select a row
func (w Window) Empty() bool {
	return w.Offset < 0 || w.Limit <= 0
}

// Bounds clamps the window to a result set of n rows and returns the
// half-open [start, end) range to keep. start == end means an empty page.
func (w Window) Bounds(n int) (start, end int) {
	if w.Empty() || w.Offset >= n {
		return n, n
	}
	start = w.Offset
	end = n
	if w.Limit < n-start {
		end = start + w.Limit
	}
	return start, end
}
