package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/niksmo/local-market/internal/core/cart"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

func (s *Service) NewCart(ctx context.Context) (string, error) {
	const op = "Service.NewCart"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.carts.create(), nil
}

func (s *Service) Cart(ctx context.Context, cartID string) (port.CartView, error) {
	const op = "Service.Cart"
	return s.withCart(ctx, op, cartID, func(*cart.Ledger) error { return nil })
}

// AddToCart adds one unit of productID. Unknown and out-of-stock
// products are rejected.
func (s *Service) AddToCart(
	ctx context.Context, cartID, productID string,
) (port.CartView, error) {
	const op = "Service.AddToCart"

	p, ok := s.catalog.Product(productID)
	if !ok {
		return port.CartView{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	if !p.InStock {
		return port.CartView{}, fmt.Errorf("%s: %w", op, domain.ErrOutOfStock)
	}

	return s.withCart(ctx, op, cartID, func(l *cart.Ledger) error {
		l.Increment(productID)
		return nil
	})
}

// DecrementCartItem takes one unit of productID off the cart, deleting
// the entry at zero. Absent products leave the cart untouched.
func (s *Service) DecrementCartItem(
	ctx context.Context, cartID, productID string,
) (port.CartView, error) {
	const op = "Service.DecrementCartItem"
	return s.withCart(ctx, op, cartID, func(l *cart.Ledger) error {
		l.Decrement(productID)
		return nil
	})
}

func (s *Service) RemoveFromCart(
	ctx context.Context, cartID, productID string,
) (port.CartView, error) {
	const op = "Service.RemoveFromCart"
	return s.withCart(ctx, op, cartID, func(l *cart.Ledger) error {
		l.Remove(productID)
		return nil
	})
}

// Checkout empties the cart and records the resulting order. Recording
// failures are logged; the cart is cleared regardless. An empty cart
// yields an empty order that is not recorded.
func (s *Service) Checkout(
	ctx context.Context, cartID, customerID string,
) (domain.Order, error) {
	const op = "Service.Checkout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validID(cartID); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	var lines []domain.CartLine
	found := s.carts.with(cartID, func(l *cart.Ledger) {
		lines = l.Checkout()
	})
	if !found {
		return domain.Order{}, fmt.Errorf("%s: cart: %w", op, domain.ErrNotFound)
	}

	order := s.newOrder(customerID, lines)
	if len(order.Items) == 0 {
		return order, nil
	}

	if err := s.orderRecorder.RecordOrder(ctx, order); err != nil {
		log.Error("failed to record order", "orderID", order.ID, "err", err)
		return order, nil
	}
	log.Info("order placed",
		"orderID", order.ID, "units", order.Units(), "total", order.Total,
	)
	return order, nil
}

func (s *Service) newOrder(customerID string, lines []domain.CartLine) domain.Order {
	order := domain.Order{
		CustomerID: customerID,
		Items:      make([]domain.OrderItem, 0, len(lines)),
		Status:     domain.OrderStatusProcessing,
	}
	for _, line := range lines {
		p, ok := s.catalog.Product(line.ProductID)
		if !ok {
			continue
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
		})
		order.Total += p.Price * int64(line.Quantity)
	}
	if len(order.Items) != 0 {
		order.ID = uuid.NewString()
		order.PlacedAt = s.now().UTC()
	}
	return order
}

func (s *Service) withCart(
	ctx context.Context, op, cartID string, fn func(*cart.Ledger) error,
) (port.CartView, error) {
	if err := ctx.Err(); err != nil {
		return port.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validID(cartID); err != nil {
		return port.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	var (
		view port.CartView
		err  error
	)
	found := s.carts.with(cartID, func(l *cart.Ledger) {
		if err = fn(l); err != nil {
			return
		}
		view = s.cartView(cartID, l)
	})
	if !found {
		return port.CartView{}, fmt.Errorf("%s: cart: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return port.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

func (s *Service) cartView(id string, l *cart.Ledger) port.CartView {
	view := port.CartView{
		ID:       id,
		Lines:    make([]port.CartLineView, 0, l.Len()),
		Items:    l.Flatten(),
		Units:    l.Units(),
		Total:    l.Total(s.catalog),
		Currency: domain.Currency,
	}
	for _, line := range l.Items() {
		p, ok := s.catalog.Product(line.ProductID)
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, port.CartLineView{
			Product:  p,
			Quantity: line.Quantity,
			Subtotal: p.Price * int64(line.Quantity),
		})
	}
	return view
}
