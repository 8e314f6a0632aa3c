package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/niksmo/local-market/internal/core/domain"
)

// Orders returns the orders placed by customerID, oldest first.
func (s *Service) Orders(ctx context.Context, customerID string) ([]domain.Order, error) {
	const op = "Service.Orders"

	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%s: %w: customer id is required", op, domain.ErrValidation)
	}

	orders, err := s.orderHistory.Orders(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
