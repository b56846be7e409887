package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retro-hunt/internal/catalog"
	"retro-hunt/internal/config"
	"retro-hunt/internal/handler"
	"retro-hunt/internal/repository"
	"retro-hunt/internal/requestcache"
	"retro-hunt/internal/router"
	"retro-hunt/internal/service"

	"github.com/rs/zerolog"
)

const (
	shutdownTimeout = 30 * time.Second
	probeTimeout    = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize product source: %w", err)
	}
	defer backend.Close()

	productService := service.NewProductService(backend.Repository, nil, logger)
	probeCatalog(ctx, productService, logger)

	if cfg.Auth.APIKey == "" {
		logger.Info().Msg("API_KEY not set, product endpoints are public")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(handler.NewProductHandler(productService, logger), cfg.Auth.APIKey, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().
			Str("address", server.Addr).
			Str("feed_source", cfg.FeedSource()).
			Msg("storefront API listening")
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received, draining requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server gracefully")
		if closeErr := server.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to close server")
		}
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info().Msg("server shutdown completed")
	return nil
}

// probeCatalog fetches the catalogue once so a broken feed shows up in the
// startup log. The server starts either way; every request fetches again.
func probeCatalog(ctx context.Context, products service.ProductService, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	ctx = requestcache.WithCache(ctx, requestcache.New("startup"))

	all, err := products.List(ctx, catalog.Query{})
	if err != nil {
		logger.Warn().Err(err).Msg("catalog probe failed, each request fetches the feed again")
		return
	}

	featured, err := products.GetFeatured(ctx, 0)
	if err != nil {
		logger.Warn().Err(err).Msg("featured probe failed")
		return
	}

	logger.Info().
		Int("products", len(all)).
		Int("featured", len(featured)).
		Msg("catalog probe succeeded")
}
