// Package cart implements the shopping cart aggregate: an ordered list of
// line items keyed by product identity, with exact decimal totals.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

// ErrProductNotInCart is returned when an operation targets a product that
// has no line item in the cart.
var ErrProductNotInCart = errors.New("product not in cart")

// Item is one cart line: a product paired with an integer quantity.
// Quantity is only mutated through the owning Cart.
type Item struct {
	Product  product.Product
	Quantity int
}

// LineTotal returns unit price times quantity as an exact decimal.
func (i *Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the line items a customer intends to purchase. All mutating
// operations work in place and return the same cart so calls can be chained.
// A cart belongs to at most one order at a time.
type Cart struct {
	ID    string
	Items []*Item
}

// New creates an empty cart with a fresh identity.
func New() *Cart {
	return &Cart{ID: uuid.New().String()}
}

// AddProduct adds quantity units of the product to the cart. If the product
// already has a line item, its quantity is increased; a product never gets
// two lines.
func (c *Cart) AddProduct(p product.Product, quantity int) *Cart {
	if item := c.find(p.ID); item != nil {
		item.Quantity += quantity
		return c
	}
	c.Items = append(c.Items, &Item{Product: p, Quantity: quantity})
	return c
}

// ChangeProductQuantity sets the quantity of the product's line item to the
// given absolute value. It returns ErrProductNotInCart when the product has
// no line item.
func (c *Cart) ChangeProductQuantity(p product.Product, quantity int) (*Cart, error) {
	item := c.find(p.ID)
	if item == nil {
		return nil, errors.Wrapf(ErrProductNotInCart, "product %q", p.ID)
	}
	item.Quantity = quantity
	return c, nil
}

// TotalPrice returns the exact decimal sum of all line totals. An empty cart
// totals zero.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// TotalQuantity returns the sum of quantities across all line items.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) find(productID string) *Item {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return item
		}
	}
	return nil
}
