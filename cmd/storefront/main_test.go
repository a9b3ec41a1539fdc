package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
)

const testCatalogCSV = `id,title,price,description,category,image,rating.rate,rating.count
1,Backpack,109.95,Fits laptops,bags,,3.9,120
2,Gold Ring,9.99,Gold,jewelery,,4.6,400
3,Silver Ring,19.50,Silver,jewelery,,4.1,90
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogCSV), 0o600))
	return path
}

func TestSearchCommandPrintsFilteredCatalog(t *testing.T) {
	cfg = config.Default()
	cfg.CatalogCSV = writeCatalog(t)
	cfg.CatalogCacheTTL = 0
	logger = zap.NewNop()

	searchQuery, searchCategory, searchPrice, searchSort = "ring", "all", "under25", "priceHigh"
	var out bytes.Buffer
	searchCmd.SetOut(&out)
	searchCmd.SetContext(context.Background())

	require.NoError(t, searchCmd.RunE(searchCmd, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Silver Ring")
	assert.Contains(t, lines[1], "19.50")
	assert.Contains(t, lines[2], "Gold Ring")
	assert.Equal(t, "2 result(s)", lines[3])
}

func TestSearchCommandRejectsUnknownSort(t *testing.T) {
	cfg = config.Default()
	logger = zap.NewNop()
	searchQuery, searchCategory, searchPrice, searchSort = "", "all", "all", "cheapest"
	searchCmd.SetContext(context.Background())
	assert.Error(t, searchCmd.RunE(searchCmd, nil))
}

func TestOpenCatalogWrapsCache(t *testing.T) {
	c := config.Default()
	c.CatalogCSV = writeCatalog(t)

	src, err := openCatalog(c, zap.NewNop())
	require.NoError(t, err)
	_, cached := src.(*catalog.Cached)
	assert.True(t, cached)

	c.CatalogCacheTTL = 0
	src, err = openCatalog(c, zap.NewNop())
	require.NoError(t, err)
	_, isCSV := src.(*catalog.CSVSource)
	assert.True(t, isCSV)
}

func TestOpenBlobStore(t *testing.T) {
	ctx := context.Background()
	c := config.Default()

	c.BlobBackend = config.BackendMemory
	blobs, closer, err := openBlobStore(ctx, c, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, blobs.Ping(ctx))
	require.NoError(t, closer.Close())

	c.BlobBackend = config.BackendSQLite
	c.SQLitePath = filepath.Join(t.TempDir(), "shop.db")
	blobs, closer, err = openBlobStore(ctx, c, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, blobs.Set(ctx, "cart", "[]"))
	require.NoError(t, closer.Close())

	c.BlobBackend = "redis"
	_, _, err = openBlobStore(ctx, c, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenBlobStorePostgresMigratesOnOpen(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	c := config.Default()
	c.BlobBackend = config.BackendPostgres
	c.DBConnString = dsn

	blobs, closer, err := openBlobStore(ctx, c, zap.NewNop())
	require.NoError(t, err)
	defer closer.Close()
	require.NoError(t, blobs.Set(ctx, "wishlist", "[3]"))
	got, ok, err := blobs.Get(ctx, "wishlist")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[3]", got)
}

