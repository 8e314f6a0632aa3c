package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

var (
	_ port.OrderRecorder = OrdersRepository{}
	_ port.OrderHistory  = OrdersRepository{}
)

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

// RecordOrder stores the order and its items in one transaction.
func (r OrdersRepository) RecordOrder(
	ctx context.Context, o domain.Order,
) (storeErr error) {
	const op = "OrdersRepository.RecordOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, customer_id, total, status, placed_at)
		VALUES ($1, $2, $3, $4, $5);`,
		o.ID, o.CustomerID, o.Total, o.Status, o.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert order: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (
			order_id, position, product_id, name, quantity, unit_price
		)
		VALUES ($1, $2, $3, $4, $5, $6);`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for i, it := range o.Items {
		_, err := stmt.ExecContext(ctx,
			o.ID, i, it.ProductID, it.Name, it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}

// Orders lists the customer's orders, oldest first.
func (r OrdersRepository) Orders(
	ctx context.Context, customerID string,
) ([]domain.Order, error) {
	const op = "OrdersRepository.Orders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT
			o.order_id, o.customer_id, o.total, o.status, o.placed_at,
			i.product_id, i.name, i.quantity, i.unit_price
		FROM orders o
		JOIN order_items i ON i.order_id = o.order_id
		WHERE o.customer_id = $1
		ORDER BY o.placed_at ASC, o.order_id ASC, i.position ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o  domain.Order
			it domain.OrderItem
		)
		err := rows.Scan(
			&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.PlacedAt,
			&it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if n := len(orders); n == 0 || orders[n-1].ID != o.ID {
			orders = append(orders, o)
		}
		last := &orders[len(orders)-1]
		last.Items = append(last.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}
