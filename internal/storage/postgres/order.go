package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholanova/ecommerce-go/internal/domain/cart"
	"github.com/scholanova/ecommerce-go/internal/domain/order"
	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, number, status, issue_date, cart_id)
		VALUES ($1, $2, $3, $4, $5)`

	updateOrderSQL = `UPDATE orders
		SET number = $2, status = $3, issue_date = $4, cart_id = $5
		WHERE id = $1`

	getOrderSQL = `SELECT id, number, status, issue_date, cart_id
		FROM orders WHERE id = $1`

	deleteCartItemsSQL = `DELETE FROM order_cart_items WHERE order_id = $1`

	insertCartItemSQL = `INSERT INTO order_cart_items
		(order_id, position, product_id, product_name, product_description, unit_price, tax_rate, currency, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getCartItemsSQL = `SELECT product_id, product_name, product_description, unit_price, tax_rate, currency, quantity
		FROM order_cart_items WHERE order_id = $1 ORDER BY position`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The cart
// is owned by its order, so cart lines are cascaded on every save: one
// transaction writes the order row and rewrites its lines.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order together with its cart lines.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.save(ctx, o, insertOrderSQL)
}

// Update persists the order row and rewrites its cart lines atomically.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	return r.save(ctx, o, updateOrderSQL)
}

func (r *OrderRepository) save(ctx context.Context, o *order.Order, orderSQL string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var issueDate *time.Time
	if !o.IssueDate.IsZero() {
		issueDate = &o.IssueDate
	}
	var cartID *string
	if o.Cart != nil {
		cartID = &o.Cart.ID
	}

	if _, err := tx.Exec(ctx, orderSQL, o.ID, o.Number, string(o.Status), issueDate, cartID); err != nil {
		return fmt.Errorf("saving order %q: %w", o.ID, err)
	}

	if _, err := tx.Exec(ctx, deleteCartItemsSQL, o.ID); err != nil {
		return fmt.Errorf("clearing cart items for order %q: %w", o.ID, err)
	}

	if o.Cart != nil {
		for pos, item := range o.Cart.Items {
			p := item.Product
			_, err := tx.Exec(ctx, insertCartItemSQL,
				o.ID, pos, p.ID, p.Name, p.Description, p.Price, p.TaxRate, p.Currency, item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("saving cart item %d for order %q: %w", pos, o.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// Get loads an order and rebuilds its cart from the stored lines. It returns
// order.ErrNotFound when no row matches.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	var (
		o         order.Order
		status    string
		issueDate *time.Time
		cartID    *string
	)
	err := r.pool.QueryRow(ctx, getOrderSQL, id).Scan(&o.ID, &o.Number, &status, &issueDate, &cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o.Status = order.Status(status)
	if issueDate != nil {
		o.IssueDate = *issueDate
	}

	if cartID != nil {
		c, err := r.loadCart(ctx, id, *cartID)
		if err != nil {
			return nil, err
		}
		o.Cart = c
	}

	return &o, nil
}

func (r *OrderRepository) loadCart(ctx context.Context, orderID, cartID string) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx, getCartItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting cart items for order %q: %w", orderID, err)
	}

	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("getting cart items for order %q: %w", orderID, err)
	}

	return &cart.Cart{ID: cartID, Items: items}, nil
}

func scanCartItem(row pgx.CollectableRow) (*cart.Item, error) {
	var (
		p   product.Product
		qty int
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.TaxRate, &p.Currency, &qty)
	if err != nil {
		return nil, err
	}
	return &cart.Item{Product: p, Quantity: qty}, nil
}
