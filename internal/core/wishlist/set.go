// Package wishlist holds the set of products a shopper has saved.
package wishlist

import (
	"slices"

	"github.com/niksmo/local-market/internal/core/domain"
)

// A Set is a membership set of product ids. Not safe for concurrent use.
type Set struct {
	ids map[string]struct{}
}

func NewSet() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Toggle flips membership of id and reports the new membership.
func (s *Set) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the members sorted ascending.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

type Summary struct {
	Items   int
	InStock int
	Savings int64
}

// Summarize resolves members against catalog. Ids missing from the
// catalog are not counted.
func Summarize(s *Set, catalog domain.Catalog) (Summary, []domain.Product) {
	var (
		sum      Summary
		products []domain.Product
	)
	for _, p := range catalog.Products {
		if !s.Contains(p.ID) {
			continue
		}
		products = append(products, p)
		sum.Items++
		if p.InStock {
			sum.InStock++
		}
		sum.Savings += p.Savings()
	}
	return sum, products
}
