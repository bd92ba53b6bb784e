package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item. Price and tax rate are decimals: money never
// passes through binary floats. Products are treated as immutable once they
// enter a cart or an order.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
	Currency    string
}

// New creates a Product with a fresh identity. Price and tax rate are
// expected to be non-negative; enforcing that is the constructing
// collaborator's responsibility, not this layer's.
func New(name, description string, price, taxRate decimal.Decimal, currency string) Product {
	return Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Price:       price,
		TaxRate:     taxRate,
		Currency:    currency,
	}
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
}
