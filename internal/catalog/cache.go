package catalog

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

// Cached memoizes a Source per query key for ttl. Concurrent misses on the
// same key share one upstream call. Failures are never cached.
type Cached struct {
	src    Source
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func NewCached(src Source, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		src:     src,
		ttl:     ttl,
		logger:  logger.Named("catalog_cache"),
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cached) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := fetch(c, ctx, "products", c.src.ListProducts)
	return slices.Clone(products), err
}

func (c *Cached) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := fetch(c, ctx, "categories", c.src.ListCategories)
	return slices.Clone(categories), err
}

func (c *Cached) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	p, err := fetch(c, ctx, "product:"+strconv.Itoa(id), func(ctx context.Context) (*domain.Product, error) {
		return c.src.GetProduct(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

// Invalidate drops every cached entry.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func fetch[T any](c *Cached, ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		c.mu.Unlock()
		return e.value.(T), nil
	}
	c.mu.Unlock()

	v, err, shared := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
			c.mu.Unlock()
			return e.value, nil
		}
		c.mu.Unlock()

		// The result is shared, so one caller going away must not fail the rest.
		value, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		c.logger.Debug("catalog fetch failed", zap.String("key", key), zap.Bool("shared", shared), zap.Error(err))
		return zero, err
	}
	return v.(T), nil
}
