// Package filter narrows and orders a product catalog by a [domain.FilterState].
//
// Every function is pure: the source catalog is never mutated and
// malformed constraint tokens are ignored instead of failing.
package filter

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/niksmo/local-market/internal/core/domain"
)

// A PriceRange is an inclusive price interval. Open ranges have no Max.
type PriceRange struct {
	Min    int64
	Max    int64
	HasMax bool
}

func (r PriceRange) Contains(price int64) bool {
	if price < r.Min {
		return false
	}
	return !r.HasMax || price <= r.Max
}

// ParsePriceRange parses "min-max" and "min+" tokens.
//
// The token is split on '-'. A single part, an empty second part or a
// second part ending with '+' make the range lower-bound only. The
// boolean is false for unparseable tokens.
func ParsePriceRange(s string) (PriceRange, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) > 2 {
		return PriceRange{}, false
	}

	lo, err := parsePrice(strings.TrimSuffix(parts[0], "+"))
	if err != nil {
		return PriceRange{}, false
	}

	if len(parts) == 1 {
		return PriceRange{Min: lo}, true
	}

	upper := strings.TrimSpace(parts[1])
	if upper == "" || strings.HasSuffix(upper, "+") {
		return PriceRange{Min: lo}, true
	}

	hi, err := parsePrice(upper)
	if err != nil {
		return PriceRange{}, false
	}
	return PriceRange{Min: lo, Max: hi, HasMax: true}, true
}

func parsePrice(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// ParseRating parses a minimum rating threshold.
func ParseRating(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Apply returns the products of catalog that satisfy every constraint of
// fs, ordered by fs.SortBy. The result never aliases catalog.
func Apply(catalog []domain.Product, fs domain.FilterState) []domain.Product {
	fs = fs.Normalize()
	preds := predicates(fs)

	out := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if matchAll(p, preds) {
			out = append(out, p)
		}
	}

	Sort(out, fs.SortBy)
	return out
}

// Sort orders ps in place. Ties keep their relative order.
//
// SortNewest reverses the given order: products carry no timestamp and
// the catalog lists older items first, so this is a placeholder ordering.
func Sort(ps []domain.Product, key domain.SortKey) {
	switch key {
	case domain.SortPriceLow:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceHigh:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortRating:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case domain.SortNewest:
		slices.Reverse(ps)
	default:
		// popularity: catalog order is the ranking
	}
}

// ActiveCount is the number of constraints set in fs, sort included.
func ActiveCount(fs domain.FilterState) int {
	fs = fs.Normalize()
	n := 0
	for _, v := range []string{
		fs.Category, fs.Gender, fs.PriceRange, fs.Rating, string(fs.SortBy),
	} {
		if v != "" {
			n++
		}
	}
	return n
}

type predicate func(domain.Product) bool

func predicates(fs domain.FilterState) (preds []predicate) {
	if fs.Category != "" {
		preds = append(preds, func(p domain.Product) bool {
			return p.Category == fs.Category
		})
	}

	if fs.Gender != "" {
		preds = append(preds, func(p domain.Product) bool {
			return p.Gender == fs.Gender
		})
	}

	if r, ok := ParsePriceRange(fs.PriceRange); ok {
		preds = append(preds, func(p domain.Product) bool {
			return r.Contains(p.Price)
		})
	}

	if fs.Rating != "" {
		if threshold, ok := ParseRating(fs.Rating); ok {
			preds = append(preds, func(p domain.Product) bool {
				return p.Rating >= threshold
			})
		}
	}

	return preds
}

func matchAll(p domain.Product, preds []predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}
