package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

const maxBodyBytes = 8 << 20

// HTTPClient reads a fake-store style REST catalog.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("catalog"),
	}
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: decode products: %v", ErrUnavailable, err)
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	c.logger.Debug("products fetched", zap.Int("count", len(products)))
	return products, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		return nil, err
	}
	var categories []string
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("%w: decode categories: %v", ErrUnavailable, err)
	}
	return categories, nil
}

// GetProduct returns domain.ErrNotFound for a 404 or an empty body, which is
// how fake-store APIs answer unknown IDs.
func (c *HTTPClient) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	body, err := c.get(ctx, "/products/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, domain.ErrNotFound
	}
	var p domain.Product
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w: decode product %d: %v", ErrUnavailable, id, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &p, nil
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: GET %s: %v", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	c.logger.Debug("catalog request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrUnavailable, path, resp.StatusCode)
	}
	return body, nil
}
