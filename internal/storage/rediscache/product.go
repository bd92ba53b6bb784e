// Package rediscache decorates the product repository with a read-through
// Redis cache. Cache failures are never surfaced to callers: a broken or
// cold cache degrades to the inner repository.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

const keyPrefix = "product:"

var _ product.Repository = (*ProductCache)(nil)

// cachedProduct is the stored representation. Decimals travel as strings so
// the cache never loses precision.
type cachedProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	TaxRate     string `json:"tax_rate"`
	Currency    string `json:"currency"`
}

// ProductCache is a product.Repository decorator that serves FindByID from
// Redis when possible and fills the cache on miss.
type ProductCache struct {
	inner  product.Repository
	client *redis.Client
	ttl    time.Duration
	lg     *zap.Logger
}

// New wraps inner with a Redis cache using the given TTL.
func New(inner product.Repository, client *redis.Client, ttl time.Duration, lg *zap.Logger) *ProductCache {
	return &ProductCache{inner: inner, client: client, ttl: ttl, lg: lg}
}

// List is a pass-through: the catalog listing is backed by one query and is
// not worth invalidation bookkeeping.
func (c *ProductCache) List(ctx context.Context) ([]product.Product, error) {
	return c.inner.List(ctx)
}

// FindByID returns the cached product when present, otherwise loads it from
// the inner repository and fills the cache.
func (c *ProductCache) FindByID(ctx context.Context, id string) (*product.Product, error) {
	if p, ok := c.get(ctx, id); ok {
		return p, nil
	}

	p, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.set(ctx, p)
	return p, nil
}

func (c *ProductCache) get(ctx context.Context, id string) (*product.Product, bool) {
	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.lg.Warn("product cache read failed", zap.String("id", id), zap.Error(err))
		}
		return nil, false
	}

	var model cachedProduct
	if err := json.Unmarshal(data, &model); err != nil {
		c.lg.Warn("product cache entry corrupt", zap.String("id", id), zap.Error(err))
		return nil, false
	}

	p, err := model.toEntity()
	if err != nil {
		c.lg.Warn("product cache entry corrupt", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return p, true
}

func (c *ProductCache) set(ctx context.Context, p *product.Product) {
	data, err := json.Marshal(cachedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		TaxRate:     p.TaxRate.String(),
		Currency:    p.Currency,
	})
	if err != nil {
		c.lg.Warn("product cache encode failed", zap.String("id", p.ID), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, keyPrefix+p.ID, data, c.ttl).Err(); err != nil {
		c.lg.Warn("product cache write failed", zap.String("id", p.ID), zap.Error(err))
	}
}

func (m cachedProduct) toEntity() (*product.Product, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, err
	}
	taxRate, err := decimal.NewFromString(m.TaxRate)
	if err != nil {
		return nil, err
	}
	return &product.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       price,
		TaxRate:     taxRate,
		Currency:    m.Currency,
	}, nil
}
