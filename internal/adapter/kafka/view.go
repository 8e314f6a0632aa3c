package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
	"github.com/niksmo/local-market/pkg/schema"
)

var _ port.OrderHistory = (*OrderHistoryView)(nil)

// An OrderHistoryView serves reads of the order history group table.
type OrderHistoryView struct {
	gv *goka.View
}

func NewOrderHistoryView(
	seedBrokers []string, group string,
) (*OrderHistoryView, error) {
	const op = "NewOrderHistoryView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		newOrderHistoryCodec(),
		withNonlogViewOpt(),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &OrderHistoryView{gv}, nil
}

// Run keeps the view in sync until ctx is done.
func (v *OrderHistoryView) Run(ctx context.Context) {
	const op = "OrderHistoryView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

func (v *OrderHistoryView) Orders(
	ctx context.Context, customerID string,
) ([]domain.Order, error) {
	const op = "OrderHistoryView.Orders"

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	value, err := v.gv.Get(customerID)
	if err != nil {
		return nil, opErr(err, op)
	}

	return historyToDomain(value)
}

func historyToDomain(value any) ([]domain.Order, error) {
	const op = "historyToDomain"

	if value == nil {
		return []domain.Order{}, nil
	}

	h, ok := value.(schema.OrderHistoryV1)
	if !ok {
		return nil, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
		)
	}

	orders := make([]domain.Order, len(h.Orders))
	for i, o := range h.Orders {
		orders[i] = orderFromSchemaV1(o)
	}
	return orders, nil
}
