package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const OrderSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "Order",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "customer_id", "type": "string"},
		{"name": "items", "type": {"type": "array", "items": {
			"type": "record",
			"name": "OrderItem",
			"fields": [
				{"name": "product_id", "type": "string"},
				{"name": "name", "type": "string"},
				{"name": "quantity", "type": "int"},
				{"name": "unit_price", "type": "long"}
			]
		}}},
		{"name": "total", "type": "long"},
		{"name": "currency", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "placed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// OrderHistorySchemaTextV1 is the value of the per-customer order table.
const OrderHistorySchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "OrderHistory",
	"fields": [
		{"name": "orders", "type": {"type": "array", "items": ` + OrderSchemaTextV1 + `}}
	]
}`

type (
	OrderV1 struct {
		OrderID    string        `avro:"order_id"`
		CustomerID string        `avro:"customer_id"`
		Items      []OrderItemV1 `avro:"items"`
		Total      int64         `avro:"total"`
		Currency   string        `avro:"currency"`
		Status     string        `avro:"status"`
		PlacedAt   time.Time     `avro:"placed_at"`
	}

	OrderItemV1 struct {
		ProductID string `avro:"product_id"`
		Name      string `avro:"name"`
		Quantity  int    `avro:"quantity"`
		UnitPrice int64  `avro:"unit_price"`
	}

	OrderHistoryV1 struct {
		Orders []OrderV1 `avro:"orders"`
	}
)

func OrderV1Avro() avro.Schema {
	return mustParse(OrderSchemaTextV1)
}

func OrderHistoryV1Avro() avro.Schema {
	return mustParse(OrderHistorySchemaTextV1)
}
