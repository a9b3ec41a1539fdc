package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type countingSource struct {
	calls    atomic.Int32
	err      error
	release  chan struct{}
	products []domain.Product
}

func (s *countingSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *countingSource) ListCategories(context.Context) ([]string, error) {
	s.calls.Add(1)
	return []string{"a"}, nil
}

func (s *countingSource) GetProduct(_ context.Context, id int) (*domain.Product, error) {
	s.calls.Add(1)
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestCachedServesFromCacheUntilExpiry(t *testing.T) {
	src := &countingSource{products: []domain.Product{{ID: 1, Price: decimal.NewFromInt(3)}}}
	cache := NewCached(src, time.Minute, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		products, err := cache.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
	}
	assert.EqualValues(t, 1, src.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err := cache.ListProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())

	cache.Invalidate()
	_, err = cache.ListProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, src.calls.Load())
}

func TestCachedKeysAreIndependent(t *testing.T) {
	src := &countingSource{products: []domain.Product{{ID: 1}, {ID: 2}}}
	cache := NewCached(src, time.Minute, nil)
	ctx := context.Background()

	p1, err := cache.GetProduct(ctx, 1)
	require.NoError(t, err)
	p2, err := cache.GetProduct(ctx, 2)
	require.NoError(t, err)
	_, err = cache.ListCategories(ctx)
	require.NoError(t, err)
	_, _ = cache.GetProduct(ctx, 1)

	assert.Equal(t, 1, p1.ID)
	assert.Equal(t, 2, p2.ID)
	assert.EqualValues(t, 3, src.calls.Load())
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	src := &countingSource{err: errors.New("down")}
	cache := NewCached(src, time.Minute, nil)
	ctx := context.Background()

	_, err := cache.ListProducts(ctx)
	require.Error(t, err)
	src.err = nil
	_, err = cache.ListProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())

	_, err = cache.GetProduct(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCachedCoalescesConcurrentMisses(t *testing.T) {
	src := &countingSource{release: make(chan struct{}), products: []domain.Product{{ID: 1}}}
	cache := NewCached(src, time.Minute, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := cache.ListProducts(ctx)
			assert.NoError(t, err)
			assert.Len(t, products, 1)
		}()
	}
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.EqualValues(t, 1, src.calls.Load())
}

func TestCachedFetchOutlivesCanceledCaller(t *testing.T) {
	src := &countingSource{release: make(chan struct{}), products: []domain.Product{{ID: 1}}}
	cache := NewCached(src, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := cache.ListProducts(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	close(src.release)
	require.NoError(t, <-done)

	products, err := cache.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.EqualValues(t, 1, src.calls.Load())
}
