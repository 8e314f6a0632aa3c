package filter_test

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/filter"
)

var (
	propCategories = []string{"shoes", "dresses", "toys"}
	propSortKeys   = []domain.SortKey{
		domain.SortPopularity,
		domain.SortPriceLow,
		domain.SortPriceHigh,
		domain.SortRating,
		domain.SortNewest,
	}
)

func propCatalog(prices []int64) []domain.Product {
	ps := make([]domain.Product, len(prices))
	for i, price := range prices {
		ps[i] = domain.Product{
			ID:       strconv.Itoa(i + 1),
			Price:    price,
			Rating:   float64(price%51) / 10,
			Category: propCategories[i%len(propCategories)],
		}
	}
	return ps
}

func propFilterState(lo, hi int64, catIdx, sortIdx int) domain.FilterState {
	return domain.FilterState{
		Category:   propCategories[catIdx],
		PriceRange: fmt.Sprintf("%d-%d", lo, hi),
		Rating:     strconv.FormatFloat(float64(lo%51)/10, 'f', 1, 64),
		SortBy:     propSortKeys[sortIdx],
	}
}

func TestApplyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("result is a subset of the catalog", prop.ForAll(
		func(prices []int64, lo, hi int64, catIdx, sortIdx int) bool {
			catalog := propCatalog(prices)
			byID := make(map[string]domain.Product, len(catalog))
			for _, p := range catalog {
				byID[p.ID] = p
			}

			got := filter.Apply(catalog, propFilterState(lo, hi, catIdx, sortIdx))
			if len(got) > len(catalog) {
				return false
			}
			seen := make(map[string]bool, len(got))
			for _, p := range got {
				src, ok := byID[p.ID]
				if !ok || seen[p.ID] || !reflect.DeepEqual(src, p) {
					return false
				}
				seen[p.ID] = true
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 5000)),
		gen.Int64Range(0, 5000),
		gen.Int64Range(0, 5000),
		gen.IntRange(0, len(propCategories)-1),
		gen.IntRange(0, len(propSortKeys)-1),
	))

	properties.Property("applying the same state twice yields the same result", prop.ForAll(
		func(prices []int64, lo, hi int64, catIdx, sortIdx int) bool {
			catalog := propCatalog(prices)
			fs := propFilterState(lo, hi, catIdx, sortIdx)

			first := filter.Apply(catalog, fs)
			second := filter.Apply(catalog, fs)
			return reflect.DeepEqual(first, second)
		},
		gen.SliceOf(gen.Int64Range(0, 5000)),
		gen.Int64Range(0, 5000),
		gen.Int64Range(0, 5000),
		gen.IntRange(0, len(propCategories)-1),
		gen.IntRange(0, len(propSortKeys)-1),
	))

	properties.Property("constraints are idempotent under re-filtering", prop.ForAll(
		func(prices []int64, lo, hi int64, catIdx int) bool {
			catalog := propCatalog(prices)
			fs := propFilterState(lo, hi, catIdx, 0)

			once := filter.Apply(catalog, fs)
			twice := filter.Apply(once, fs)
			return reflect.DeepEqual(once, twice)
		},
		gen.SliceOf(gen.Int64Range(0, 5000)),
		gen.Int64Range(0, 5000),
		gen.Int64Range(0, 5000),
		gen.IntRange(0, len(propCategories)-1),
	))

	properties.TestingRun(t)
}
