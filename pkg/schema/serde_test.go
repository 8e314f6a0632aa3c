package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/local-market/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeOrderV1(t *testing.T) {

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeOrderV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeOrderV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("RegistryFailure", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), "orders-value", schema.OrderSchemaTextV1,
		).Return(0, errors.New("registry unavailable"))

		_, err := schema.NewSerdeOrderV1(
			t.Context(),
			schema.SubjectOpt("orders-value"),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		assert.ErrorContains(t, err, "registry unavailable")
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 7
		subject := "orders-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.OrderSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeOrderV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		orderValue1 := schema.OrderV1{
			OrderID:    "0b1c2d3e-0000-4000-8000-000000000001",
			CustomerID: "shopper@example.com",
			Items: []schema.OrderItemV1{
				{ProductID: "1", Name: "Nike Air Force 1 Low White", Quantity: 2, UnitPrice: 7995},
				{ProductID: "13", Name: "Vitamin D3 Tablets", Quantity: 1, UnitPrice: 299},
			},
			Total:    16289,
			Currency: "INR",
			Status:   "processing",
			PlacedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		}

		encodedData, err := serde.Encode(orderValue1)
		require.NoError(t, err)
		require.Greater(t, len(encodedData), 5)
		assert.Equal(t, byte(0), encodedData[0])

		var orderValue2 schema.OrderV1
		err = serde.Decode(encodedData, &orderValue2)
		require.NoError(t, err)

		assert.Equal(t, orderValue1.OrderID, orderValue2.OrderID)
		assert.Equal(t, orderValue1.CustomerID, orderValue2.CustomerID)
		assert.Equal(t, orderValue1.Items, orderValue2.Items)
		assert.Equal(t, orderValue1.Total, orderValue2.Total)
		assert.True(t, orderValue1.PlacedAt.Equal(orderValue2.PlacedAt))
		schemaIdentifier.AssertExpectations(t)
	})
}

func TestSerdeSiteSettingsV1(t *testing.T) {
	schemaIdentifier := new(MockSchemaIdentifier)
	subject := "site-settings-value"
	schemaIdentifier.On(
		"DetermineID", t.Context(), subject, schema.SiteSettingsSchemaTextV1,
	).Return(3, nil)

	serde, err := schema.NewSerdeSiteSettingsV1(
		t.Context(),
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schemaIdentifier),
	)
	require.NoError(t, err)

	v1 := schema.SiteSettingsV1{
		CompanyName: "FitFeet",
		Phone:       "+1 (555) 123-4567",
		HeroTitle:   "Find Your Perfect Fit",
	}
	data, err := serde.Encode(v1)
	require.NoError(t, err)

	var v2 schema.SiteSettingsV1
	require.NoError(t, serde.Decode(data, &v2))
	assert.Equal(t, v1, v2)
}
