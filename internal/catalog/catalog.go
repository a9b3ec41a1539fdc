// Package catalog fetches the read-only product catalog.
package catalog

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// ErrUnavailable wraps transport and decoding failures. A missing product is
// reported as domain.ErrNotFound instead.
var ErrUnavailable = errors.New("catalog unavailable")

// Source is a product catalog.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
}
