package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

type stubProductRepo struct {
	products map[string]product.Product
	finds    int
}

func (r *stubProductRepo) List(context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*product.Product, error) {
	r.finds++
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// unreachableClient returns a client whose every command fails fast.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestFindByIDDegradesWhenRedisDown(t *testing.T) {
	inner := &stubProductRepo{products: map[string]product.Product{
		"p1": {ID: "p1", Name: "Souris sans fil", Price: decimal.RequireFromString("12.00"), Currency: "EUR"},
	}}
	cache := New(inner, unreachableClient(), time.Minute, zap.NewNop())

	p, err := cache.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 1, inner.finds)
}

func TestFindByIDNotFoundPassesThrough(t *testing.T) {
	inner := &stubProductRepo{products: map[string]product.Product{}}
	cache := New(inner, unreachableClient(), time.Minute, zap.NewNop())

	_, err := cache.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestListBypassesCache(t *testing.T) {
	inner := &stubProductRepo{products: map[string]product.Product{
		"p1": {ID: "p1", Name: "Souris sans fil", Price: decimal.RequireFromString("12.00"), Currency: "EUR"},
	}}
	cache := New(inner, unreachableClient(), time.Minute, zap.NewNop())

	products, err := cache.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 0, inner.finds)
}
