package fixture_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/niksmo/local-market/internal/adapter/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo(t *testing.T) {
	c, err := fixture.Demo()
	require.NoError(t, err)

	assert.Len(t, c.Products, 16)
	assert.Len(t, c.Shops, 4)
	assert.Len(t, c.Locations, 6)

	p, ok := c.Product("4")
	require.True(t, ok)
	assert.Equal(t, "Puma RS-X3 Sneakers", p.Name)
	assert.False(t, p.InStock)
	assert.Zero(t, p.OriginalPrice)

	p, ok = c.Product("1")
	require.True(t, ok)
	assert.Equal(t, int64(7995), p.Price)
	assert.Equal(t, int64(8995), p.OriginalPrice)
	assert.Equal(t, []string{"6", "7", "8", "9", "10"}, p.Sizes)

	assert.Equal(t, []string{"560009", "560002", "560001"}, c.Shops[0].PinCodes)
	assert.Equal(t, "MG Road", c.Locations[0].Area)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "Minimal",
			doc:  "products:\n  - {id: a, name: A, price: 10, rating: 4}\n",
		},
		{
			name: "Empty",
			doc:  "",
		},
		{
			name:    "DuplicateID",
			doc:     "products:\n  - {id: a, price: 1}\n  - {id: a, price: 2}\n",
			wantErr: true,
		},
		{
			name:    "NegativePrice",
			doc:     "products:\n  - {id: a, price: -1}\n",
			wantErr: true,
		},
		{
			name:    "RatingOutOfRange",
			doc:     "products:\n  - {id: a, price: 1, rating: 7}\n",
			wantErr: true,
		},
		{
			name:    "UnknownField",
			doc:     "products:\n  - {id: a, price: 1, colour: red}\n",
			wantErr: true,
		},
		{
			name:    "MissingID",
			doc:     "products:\n  - {price: 1}\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.Parse([]byte(tt.doc))
			if tt.wantErr {
				assert.ErrorIs(t, err, fixture.ErrInvalidCatalog)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("EmptyPathIsDemo", func(t *testing.T) {
		c, err := fixture.Open("")
		require.NoError(t, err)
		assert.Len(t, c.Products, 16)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		doc := strings.Join([]string{
			"products:",
			"  - {id: x1, name: Clog, price: 250, in_stock: true}",
			"locations:",
			"  - {pin_code: \"400001\", area: Fort, city: Mumbai}",
		}, "\n")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		c, err := fixture.Open(path)
		require.NoError(t, err)
		require.Len(t, c.Products, 1)
		assert.True(t, c.Products[0].InStock)
		assert.Equal(t, "Mumbai", c.Locations[0].City)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := fixture.Open(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
