package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"storefront/internal/blobstore"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
)

type blobBackend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openBlobStore returns the configured backend, migrated and ready to use.
func openBlobStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (blobBackend, io.Closer, error) {
	switch cfg.BlobBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory blob store; cart and wishlist will not survive restarts")
		return blobstore.NewMemory(), closerFunc(func() error { return nil }), nil
	case config.BackendSQLite:
		store, err := blobstore.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite blob store opened", zap.String("path", cfg.SQLitePath))
		return store, store, nil
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return blobstore.NewPostgres(pool, logger), closerFunc(func() error { pool.Close(); return nil }), nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// openCatalog prefers a local CSV export over the remote API when both are set.
func openCatalog(cfg config.Config, logger *zap.Logger) (catalog.Source, error) {
	var src catalog.Source
	if cfg.CatalogCSV != "" {
		csvSrc, err := catalog.OpenCSV(cfg.CatalogCSV)
		if err != nil {
			return nil, err
		}
		logger.Info("serving catalog from csv", zap.String("path", cfg.CatalogCSV))
		src = csvSrc
	} else {
		logger.Info("serving catalog from api", zap.String("url", cfg.CatalogURL))
		src = catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogTimeout, logger)
	}
	if cfg.CatalogCacheTTL <= 0 {
		return src, nil
	}
	return catalog.NewCached(src, cfg.CatalogCacheTTL, logger), nil
}
