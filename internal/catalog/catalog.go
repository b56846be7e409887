// Package catalog filters, orders and samples normalized products for display.
package catalog

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"retro-hunt/internal/model"
)

// SortMode selects the display order of a product list.
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
)

// Valid reports whether m is a known sort mode. The zero value counts as newest.
func (m SortMode) Valid() bool {
	switch m {
	case "", SortNewest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// Query holds the user-supplied browse state.
type Query struct {
	Search   string
	Category model.Category
	Sort     SortMode
}

// Apply returns the products matching q in display order. Category and text
// filters are combined with AND and run before sorting. The input is not
// modified; no match yields an empty, non-nil slice.
func Apply(products []model.Product, q Query) []model.Product {
	result := make([]model.Product, 0, len(products))

	search := strings.ToLower(q.Search)
	for _, p := range products {
		if q.Category != "" && q.Category != model.CategoryAll && p.Category != q.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		result = append(result, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(result, func(a, b model.Product) int {
			return cmp.Compare(a.PriceUSD, b.PriceUSD)
		})
	case SortPriceDesc:
		slices.SortStableFunc(result, func(a, b model.Product) int {
			return cmp.Compare(b.PriceUSD, a.PriceUSD)
		})
	default:
		sortNewest(result)
	}

	return result
}

// sortNewest orders by numeric id, highest first. Ids that are not numbers
// have no recency, so they go last and keep their relative order.
func sortNewest(products []model.Product) {
	slices.SortStableFunc(products, func(a, b model.Product) int {
		aID, aOK := numericID(a.ID)
		bID, bOK := numericID(b.ID)

		switch {
		case aOK && bOK:
			return cmp.Compare(bID, aID)
		case aOK:
			return -1
		case bOK:
			return 1
		}
		return 0
	})
}

func numericID(id string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// Featured returns up to limit featured products in feed order.
func Featured(products []model.Product, limit int) []model.Product {
	result := make([]model.Product, 0, max(limit, 0))
	for _, p := range products {
		if len(result) >= limit {
			break
		}
		if p.IsFeatured {
			result = append(result, p)
		}
	}
	return result
}

// Related picks up to limit other products from the same category as p, in
// random order. The sample depends on rng, so a seeded generator gives a
// repeatable pick and an unseeded one differs between calls.
func Related(products []model.Product, p model.Product, limit int, rng *rand.Rand) []model.Product {
	candidates := make([]model.Product, 0, len(products))
	for _, other := range products {
		if other.Category == p.Category && other.ID != p.ID {
			candidates = append(candidates, other)
		}
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > limit {
		candidates = candidates[:max(limit, 0)]
	}
	return candidates
}
