package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront/internal/migrate"
)

type blobStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// exerciseStore checks the get/set contract shared by every backend.
func exerciseStore(t *testing.T, store blobStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok, "absent key must report ok=false")

	require.NoError(t, store.Set(ctx, "cart", `[{"id":1,"quantity":2}]`))
	v, ok, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":1,"quantity":2}]`, v)

	require.NoError(t, store.Set(ctx, "cart", "[]"))
	v, _, err = store.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", v, "set overwrites the whole slot")

	require.NoError(t, store.Set(ctx, "wishlist", "[3]"))
	v, _, err = store.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", v, "slots are independent")
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shop.db")

	store, err := OpenSQLite(ctx, path, zaptest.NewLogger(t))
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path, zaptest.NewLogger(t))
	require.NoError(t, err, "migrations must be idempotent")
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "wishlist")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[3]", v)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, migrate.Apply(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE blobs`)
	require.NoError(t, err)

	store := NewPostgres(pool, zaptest.NewLogger(t))
	exerciseStore(t, store)
	require.NoError(t, store.Ping(ctx))
}
