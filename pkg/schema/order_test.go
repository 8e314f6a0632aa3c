package schema

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHistoryV1(t *testing.T) {
	var historySchema avro.Schema
	require.NotPanics(t, func() {
		historySchema = OrderHistoryV1Avro()
		_ = OrderV1Avro()
		_ = SiteSettingsV1Avro()
	})

	v := OrderHistoryV1{Orders: []OrderV1{
		{
			OrderID:    "o1",
			CustomerID: "c1",
			Items:      []OrderItemV1{{ProductID: "5", Name: "Kids Superhero T-Shirt", Quantity: 3, UnitPrice: 499}},
			Total:      1497,
			Currency:   "INR",
			Status:     "processing",
			PlacedAt:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{OrderID: "o2", CustomerID: "c1", Items: []OrderItemV1{}, PlacedAt: time.Unix(0, 0).UTC()},
	}}

	data, err := avro.Marshal(historySchema, v)
	require.NoError(t, err)

	var got OrderHistoryV1
	require.NoError(t, avro.Unmarshal(historySchema, data, &got))
	require.Len(t, got.Orders, 2)
	assert.Equal(t, v.Orders[0].Items, got.Orders[0].Items)
	assert.Equal(t, "o2", got.Orders[1].OrderID)
	assert.True(t, v.Orders[0].PlacedAt.Equal(got.Orders[0].PlacedAt))
}
