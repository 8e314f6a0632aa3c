package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/filter"
	"github.com/niksmo/local-market/internal/core/port"
)

func (s *Service) Products(
	ctx context.Context, fs domain.FilterState,
) (port.ProductListing, error) {
	const op = "Service.Products"

	if err := ctx.Err(); err != nil {
		return port.ProductListing{}, fmt.Errorf("%s: %w", op, err)
	}

	return port.ProductListing{
		Products:      filter.Apply(s.catalog.Products, fs),
		ActiveFilters: filter.ActiveCount(fs),
	}, nil
}

func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	const op = "Service.Product"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.catalog.Product(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return p, nil
}

// Deals lists discounted products, largest discount first.
func (s *Service) Deals(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.Deals"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	deals := make([]domain.Product, 0)
	for _, p := range s.catalog.Products {
		if p.Discounted() {
			deals = append(deals, p)
		}
	}
	slices.SortStableFunc(deals, func(a, b domain.Product) int {
		return cmp.Compare(b.DiscountPercent(), a.DiscountPercent())
	})
	return deals, nil
}

// Shops lists every shop, or only those delivering to pinCode.
func (s *Service) Shops(ctx context.Context, pinCode string) ([]domain.Shop, error) {
	const op = "Service.Shops"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pinCode = strings.TrimSpace(pinCode)
	shops := make([]domain.Shop, 0, len(s.catalog.Shops))
	for _, shop := range s.catalog.Shops {
		if pinCode == "" || slices.Contains(shop.PinCodes, pinCode) {
			shops = append(shops, shop)
		}
	}
	return shops, nil
}

// Locations matches term against area and city case-insensitively and
// against the pin code literally. An empty term matches everything.
func (s *Service) Locations(
	ctx context.Context, term string,
) ([]domain.Location, error) {
	const op = "Service.Locations"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	term = strings.TrimSpace(term)
	lower := strings.ToLower(term)

	locs := make([]domain.Location, 0, len(s.catalog.Locations))
	for _, l := range s.catalog.Locations {
		if strings.Contains(strings.ToLower(l.Area), lower) ||
			strings.Contains(l.PinCode, term) ||
			strings.Contains(strings.ToLower(l.City), lower) {
			locs = append(locs, l)
		}
	}
	return locs, nil
}
