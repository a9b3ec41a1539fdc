package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/httpserver"
	"storefront/internal/notify"
	"storefront/internal/shop"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	blobs, closer, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	src, err := openCatalog(cfg, logger)
	if err != nil {
		return err
	}

	feed := notify.NewFeed(cfg.FeedSize)
	store := shop.New(ctx, blobs, notify.Multi{notify.NewLogger(logger), feed}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog:     src,
		Shop:        store,
		Feed:        feed,
		Ready:       blobs,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stopCh)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.Stringer("signal", sig))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
