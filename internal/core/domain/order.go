package domain

import "time"

const OrderStatusProcessing = "processing"

type (
	Order struct {
		ID         string
		CustomerID string
		Items      []OrderItem
		Total      int64
		Status     string
		PlacedAt   time.Time
	}

	OrderItem struct {
		ProductID string
		Name      string
		Quantity  int
		UnitPrice int64
	}
)

// Units is the number of product units in the order.
func (o Order) Units() (n int) {
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// CartLine is one explicit ledger entry.
type CartLine struct {
	ProductID string
	Quantity  int
}
