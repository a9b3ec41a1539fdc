package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/blobstore"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply blob store schema migrations for the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		switch cfg.BlobBackend {
		case config.BackendPostgres:
			pool, err := db.Connect(ctx, cfg.DBConnString, logger)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := migrate.Apply(ctx, pool); err != nil {
				return err
			}
		case config.BackendSQLite:
			store, err := blobstore.OpenSQLite(ctx, cfg.SQLitePath, logger)
			if err != nil {
				return err
			}
			defer store.Close()
		default:
			logger.Info("nothing to migrate", zap.String("backend", cfg.BlobBackend))
			return nil
		}
		logger.Info("migrations applied", zap.String("backend", cfg.BlobBackend))
		return nil
	},
}
