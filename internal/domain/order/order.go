// Package order implements the order lifecycle: a small state machine over
// CREATED → PENDING → CLOSED with derived pricing.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scholanova/ecommerce-go/internal/domain/cart"
)

// Status is the lifecycle state of an order. CLOSED is terminal.
type Status string

const (
	StatusCreated Status = "CREATED"
	StatusPending Status = "PENDING"
	StatusClosed  Status = "CLOSED"
)

var (
	// ErrOrderClosed is returned when a state-machine precondition is
	// violated: mutating a closed order's cart or checking it out.
	ErrOrderClosed = errors.New("order is closed")
	// ErrZeroQuantity is returned when checkout is attempted against a cart
	// whose items sum to zero quantity.
	ErrZeroQuantity = errors.New("order contains zero quantity of items")
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
)

// Discount policy: 5% off cart totals of at least 100 currency units.
var (
	discountThreshold = decimal.NewFromInt(100)
	discountRate      = decimal.NewFromInt(5)
	hundred           = decimal.NewFromInt(100)
)

// Order tracks a cart through checkout. Discount and final price are derived
// from the cart on every read, never stored.
type Order struct {
	ID        string
	Number    string
	IssueDate time.Time // zero until checkout
	Status    Status
	Cart      *cart.Cart // nil until attached
}

// New creates an order in the CREATED state with the given cart attached.
// The cart may be nil; one can be attached later via SetCart.
func New(c *cart.Cart) *Order {
	return &Order{
		ID:     uuid.New().String(),
		Status: StatusCreated,
		Cart:   c,
	}
}

// SetCart attaches or replaces the order's cart. It returns ErrOrderClosed
// once the order is CLOSED.
func (o *Order) SetCart(c *cart.Cart) error {
	if o.Status == StatusClosed {
		return ErrOrderClosed
	}
	o.Cart = c
	return nil
}

// Checkout validates the order and moves it to PENDING, stamping the issue
// date with now. A closed order returns ErrOrderClosed. A cart whose items
// sum to zero quantity returns ErrZeroQuantity; an order with no cart at all
// is allowed through.
func (o *Order) Checkout(now time.Time) error {
	if o.Status == StatusClosed {
		return ErrOrderClosed
	}
	if o.Cart != nil && o.Cart.TotalQuantity() == 0 {
		return ErrZeroQuantity
	}
	o.IssueDate = now
	o.Status = StatusPending
	return nil
}

// Discount returns 5% of the cart's total price, rounded half-up to two
// decimal places, when the total reaches 100 currency units; zero otherwise.
// An order without a cart has no discount.
func (o *Order) Discount() decimal.Decimal {
	if o.Cart == nil {
		return decimal.Zero
	}
	total := o.Cart.TotalPrice()
	if total.LessThan(discountThreshold) {
		return decimal.Zero
	}
	// Round on a non-negative value rounds half up.
	return total.Mul(discountRate).Div(hundred).Round(2)
}

// Price returns the cart's total price minus the discount. An order without
// a cart prices at zero.
func (o *Order) Price() decimal.Decimal {
	if o.Cart == nil {
		return decimal.Zero
	}
	return o.Cart.TotalPrice().Sub(o.Discount())
}

// Close moves the order to CLOSED. It has no precondition and cannot be
// undone.
func (o *Order) Close() {
	o.Status = StatusClosed
}

// Repository defines persistence operations for orders. Update persists the
// order row and its cart lines atomically.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
}
