package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrIncrementMergesByID(t *testing.T) {
	c := Cart{}
	c = c.AddOrIncrement(LineItem{ID: "filtro-aceite", Name: "Filtro de aceite", UnitPrice: 150, Quantity: 1})
	c = c.AddOrIncrement(LineItem{ID: "filtro-aceite", Name: "Filtro de aceite", UnitPrice: 150, Quantity: 2})

	require.Len(t, c, 1)
	assert.Equal(t, 3, c[0].Quantity)
}

func TestAddOrIncrementClampsBadValues(t *testing.T) {
	c := Cart{}.AddOrIncrement(LineItem{ID: "casco", UnitPrice: -10, Quantity: 0})

	require.Len(t, c, 1)
	assert.Equal(t, 1, c[0].Quantity)
	assert.Equal(t, 0.0, c[0].UnitPrice)
}

func TestSetQuantityRemovesAtZero(t *testing.T) {
	c := Cart{
		{ID: "a", UnitPrice: 10, Quantity: 2},
		{ID: "b", UnitPrice: 5, Quantity: 1},
	}

	c = c.SetQuantity(0, 0)

	require.Len(t, c, 1)
	assert.Equal(t, "b", c[0].ID)
}

func TestRemoveAt(t *testing.T) {
	c := Cart{
		{ID: "a", Quantity: 1},
		{ID: "b", Quantity: 1},
		{ID: "c", Quantity: 1},
	}

	c = c.RemoveAt(1)

	require.Len(t, c, 2)
	assert.Equal(t, -1, c.IndexOf("b"))
	assert.Equal(t, 1, c.IndexOf("c"))
}

func TestComputeTotalsNoDiscountAtThreshold(t *testing.T) {
	// Exactly 3 units: the discount requires strictly more.
	c := Cart{{ID: "a", UnitPrice: 100, Quantity: 3}}

	totals := c.ComputeTotals()

	assert.Equal(t, 300.0, totals.Subtotal)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, 0.0, totals.DiscountRate)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, 300.0, totals.Total)
}

func TestComputeTotalsDiscountAboveThreshold(t *testing.T) {
	c := Cart{
		{ID: "a", UnitPrice: 10, Quantity: 2},
		{ID: "b", UnitPrice: 5, Quantity: 2},
	}

	totals := c.ComputeTotals()

	assert.Equal(t, 30.0, totals.Subtotal)
	assert.Equal(t, 4, totals.TotalQuantity)
	assert.Equal(t, QuantityDiscountRate, totals.DiscountRate)
	assert.InDelta(t, 3.0, totals.Discount, 0.0001)
	assert.InDelta(t, 27.0, totals.Total, 0.0001)
	assert.Equal(t, 0.0, totals.Shipping)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := Cart{}.ComputeTotals()

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0, totals.TotalQuantity)
	assert.Equal(t, 0.0, totals.Total)
}

func TestParseDisplayPrice(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    float64
	}{
		{"plain", "150.00", 150.0},
		{"dollar sign", "$150.00", 150.0},
		{"thousands separator", "$1,250.50", 1250.5},
		{"whitespace", " $99 ", 99.0},
		{"malformed", "precio", 0.0},
		{"negative", "$-5.00", 0.0},
		{"empty", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDisplayPrice(tt.display))
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryAccessory, NormalizeCategory(" Accessory "))
	assert.Equal(t, CategoryPart, NormalizeCategory("part"))
	assert.Equal(t, CategoryOther, NormalizeCategory("something else"))
}
