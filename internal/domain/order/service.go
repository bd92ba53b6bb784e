package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/scholanova/ecommerce-go/internal/domain/cart"
)

// Service drives persisted orders through their lifecycle. Cart mutations go
// through the cart service so product references are resolved first; the
// mutated cart is re-attached via SetCart, which enforces the closed-order
// rule.
type Service struct {
	orders Repository
	carts  *cart.Service
	now    func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(orders Repository, carts *cart.Service) *Service {
	return &Service{
		orders: orders,
		carts:  carts,
		now:    time.Now,
	}
}

// Line is one requested cart line at order creation.
type Line struct {
	ProductID string
	Quantity  int
}

// Create builds a new order around the given cart (which may be nil), assigns
// a human-readable number, and persists it.
func (s *Service) Create(ctx context.Context, c *cart.Cart) (*Order, error) {
	o := New(c)
	o.Number = newOrderNumber()

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// CreateWithLines builds the cart from the requested lines first and persists
// the order once, so a bad line leaves nothing behind. No lines means an
// order without a cart.
func (s *Service) CreateWithLines(ctx context.Context, lines []Line) (*Order, error) {
	var c *cart.Cart
	if len(lines) > 0 {
		c = cart.New()
		for _, ln := range lines {
			var err error
			c, err = s.carts.AddProductToCart(ctx, c, ln.ProductID, ln.Quantity)
			if err != nil {
				return nil, err
			}
		}
	}
	return s.Create(ctx, c)
}

// Get loads an order with its cart.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.orders.Get(ctx, id)
}

// AttachCart replaces the order's cart and persists the result.
func (s *Service) AttachCart(ctx context.Context, orderID string, c *cart.Cart) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.SetCart(c); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// AddProduct adds quantity units of a product to the order's cart, creating
// the cart on first use, and persists the result.
func (s *Service) AddProduct(ctx context.Context, orderID, productID string, quantity int) (*Order, error) {
	return s.mutateCart(ctx, orderID, func(ctx context.Context, c *cart.Cart) (*cart.Cart, error) {
		return s.carts.AddProductToCart(ctx, c, productID, quantity)
	})
}

// ChangeProductQuantity sets the absolute quantity of a product already in
// the order's cart and persists the result.
func (s *Service) ChangeProductQuantity(ctx context.Context, orderID, productID string, quantity int) (*Order, error) {
	return s.mutateCart(ctx, orderID, func(ctx context.Context, c *cart.Cart) (*cart.Cart, error) {
		return s.carts.ChangeProductQuantity(ctx, c, productID, quantity)
	})
}

// Checkout transitions the order to PENDING and persists it.
func (s *Service) Checkout(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.Checkout(s.now()); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// Close moves the order to its terminal state and persists it.
func (s *Service) Close(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Close()
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// mutateCart loads the order, applies fn to its cart (creating one when the
// order has none), re-attaches the cart, and saves. SetCart is what rejects
// mutations on a closed order.
func (s *Service) mutateCart(ctx context.Context, orderID string, fn func(context.Context, *cart.Cart) (*cart.Cart, error)) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusClosed {
		// Reject before touching the cart so the loaded aggregate stays
		// untouched on failure.
		return nil, ErrOrderClosed
	}

	c := o.Cart
	if c == nil {
		c = cart.New()
	}

	c, err = fn(ctx, c)
	if err != nil {
		return nil, err
	}

	if err := o.SetCart(c); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// newOrderNumber builds a short human-readable order number.
func newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "ORD-" + id[:8]
}
