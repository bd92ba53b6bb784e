package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

func newTestProduct(name, price string) product.Product {
	return product.New(name, name+" description", decimal.RequireFromString(price), decimal.RequireFromString("0.2"), "EUR")
}

func TestAddProduct_AppendsNewLine(t *testing.T) {
	c := New()
	p := newTestProduct("Widget", "12.00")

	got := c.AddProduct(p, 2)

	assert.Same(t, c, got, "AddProduct should return the same cart for chaining")
	require.Len(t, c.Items, 1)
	assert.Equal(t, p.ID, c.Items[0].Product.ID)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddProduct_MergesExistingLine(t *testing.T) {
	c := New()
	p := newTestProduct("Widget", "12.00")

	c.AddProduct(p, 1).AddProduct(p, 3)

	require.Len(t, c.Items, 1, "same product must not create a duplicate line")
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestChangeProductQuantity_SetsAbsoluteValue(t *testing.T) {
	c := New()
	p := newTestProduct("Widget", "12.00")
	c.AddProduct(p, 5)

	got, err := c.ChangeProductQuantity(p, 2)

	require.NoError(t, err)
	assert.Same(t, c, got)
	assert.Equal(t, 2, c.Items[0].Quantity, "quantity is set, not added")
}

func TestChangeProductQuantity_ProductNotInCart(t *testing.T) {
	c := New()
	c.AddProduct(newTestProduct("Widget", "12.00"), 1)

	_, err := c.ChangeProductQuantity(newTestProduct("Gadget", "10.00"), 2)

	require.ErrorIs(t, err, ErrProductNotInCart)
}

func TestTotalPrice_EmptyCart(t *testing.T) {
	c := New()

	assert.True(t, decimal.Zero.Equal(c.TotalPrice()))
	assert.Zero(t, c.TotalQuantity())
}

func TestTotalPrice_SumsLineTotals(t *testing.T) {
	c := New()
	c.AddProduct(newTestProduct("Widget", "12.00"), 1)
	c.AddProduct(newTestProduct("Gadget", "10.00"), 2)

	assert.True(t, decimal.RequireFromString("32.00").Equal(c.TotalPrice()))
	assert.Equal(t, 3, c.TotalQuantity())
}

func TestLineTotal(t *testing.T) {
	item := Item{Product: newTestProduct("Widget", "9.99"), Quantity: 3}

	assert.True(t, decimal.RequireFromString("29.97").Equal(item.LineTotal()))
}
