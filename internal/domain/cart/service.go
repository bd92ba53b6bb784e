package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

// User-facing messages for cart mutation failures. One fixed message per
// operation; the underlying cause stays on the error chain for logs.
const (
	MsgAddProduct     = "Impossible d'ajouter le produit au panier"
	MsgChangeQuantity = "Impossible de changer la quantité"
)

// CartError wraps a cart mutation failure into a single user-facing message.
type CartError struct {
	Message string
	cause   error
}

func (e *CartError) Error() string { return e.Message }

func (e *CartError) Unwrap() error { return e.cause }

// Service mutates carts on behalf of callers, resolving product references
// through the catalog first.
type Service struct {
	products product.Repository
}

// NewService creates a cart Service backed by the given product repository.
func NewService(products product.Repository) *Service {
	return &Service{products: products}
}

// AddProductToCart resolves the product and adds quantity units of it to the
// cart. Any failure surfaces as a CartError with a fixed message.
func (s *Service) AddProductToCart(ctx context.Context, c *Cart, productID string, quantity int) (*Cart, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, &CartError{Message: MsgAddProduct, cause: err}
	}
	return c.AddProduct(*p, quantity), nil
}

// ChangeProductQuantity resolves the product and sets its line quantity to
// the given absolute value. Any failure, including the product missing from
// the cart, surfaces as a CartError with a fixed message.
func (s *Service) ChangeProductQuantity(ctx context.Context, c *Cart, productID string, quantity int) (*Cart, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, &CartError{Message: MsgChangeQuantity, cause: err}
	}

	changed, err := c.ChangeProductQuantity(*p, quantity)
	if err != nil {
		return nil, &CartError{Message: MsgChangeQuantity, cause: errors.Wrap(err, "change quantity")}
	}
	return changed, nil
}
