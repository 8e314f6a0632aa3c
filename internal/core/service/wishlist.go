package service

import (
	"context"
	"fmt"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
	"github.com/niksmo/local-market/internal/core/wishlist"
)

func (s *Service) NewWishlist(ctx context.Context) (string, error) {
	const op = "Service.NewWishlist"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.wishlists.create(), nil
}

func (s *Service) Wishlist(
	ctx context.Context, wishlistID string,
) (port.WishlistView, error) {
	const op = "Service.Wishlist"

	view, _, err := s.withWishlist(ctx, wishlistID, func(*wishlist.Set) bool {
		return false
	})
	if err != nil {
		return port.WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

// ToggleWishlist flips membership of productID and reports whether the
// product is now wishlisted.
func (s *Service) ToggleWishlist(
	ctx context.Context, wishlistID, productID string,
) (port.WishlistView, bool, error) {
	const op = "Service.ToggleWishlist"

	if _, ok := s.catalog.Product(productID); !ok {
		return port.WishlistView{}, false, fmt.Errorf(
			"%s: %w", op, domain.ErrProductNotFound,
		)
	}

	view, added, err := s.withWishlist(ctx, wishlistID, func(set *wishlist.Set) bool {
		return set.Toggle(productID)
	})
	if err != nil {
		return port.WishlistView{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return view, added, nil
}

func (s *Service) withWishlist(
	ctx context.Context, id string, fn func(*wishlist.Set) bool,
) (view port.WishlistView, result bool, err error) {
	if err := ctx.Err(); err != nil {
		return view, false, err
	}
	if err := validID(id); err != nil {
		return view, false, err
	}

	found := s.wishlists.with(id, func(set *wishlist.Set) {
		result = fn(set)
		sum, products := wishlist.Summarize(set, s.catalog)
		if products == nil {
			products = []domain.Product{}
		}
		view = port.WishlistView{
			ID:       id,
			Products: products,
			InStock:  sum.InStock,
			Savings:  sum.Savings,
		}
	})
	if !found {
		return view, false, fmt.Errorf("wishlist: %w", domain.ErrNotFound)
	}
	return view, result, nil
}
