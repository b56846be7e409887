package repository

import (
	"context"
	"fmt"

	"retro-hunt/internal/config"
	"retro-hunt/internal/database"
	"retro-hunt/internal/feed"

	"github.com/rs/zerolog"
)

// Backend is the product repository selected by configuration.
type Backend struct {
	Repository ProductRepository
	// Source is the raw feed behind Repository, or nil for the static catalogue.
	Source feed.Source

	closers []func()
}

// Close releases connections held by the backend.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Open builds the repository for the configured feed source.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	backend := &Backend{}

	kind := cfg.FeedSource()
	logger.Info().Str("feed_source", kind).Msg("configuring product source")

	switch kind {
	case config.SourceStatic:
		repo, err := NewStaticRepository(logger)
		if err != nil {
			return nil, err
		}
		backend.Repository = repo
		return backend, nil

	case config.SourceSheets:
		backend.Source = feed.NewSheetsSource(feed.SheetsConfig{
			ServiceAccountEmail: cfg.Google.ServiceAccountEmail,
			PrivateKey:          cfg.Google.PrivateKey,
			SheetID:             cfg.Google.SheetID,
			SheetTitle:          cfg.Google.SheetTitle,
		}, logger)

	case config.SourceXLSX:
		backend.Source = feed.NewXLSXSource(cfg.Feed.XLSXPath, cfg.Google.SheetTitle, logger)

	case config.SourceS3:
		local := feed.NewXLSXSource(cfg.Feed.XLSXPath, cfg.Google.SheetTitle, logger)

		remote, err := feed.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Key, cfg.Google.SheetTitle, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 source, falling back to local workbook only")
		}
		backend.Source = feed.NewFallbackSource(remote, local, logger)

	case config.SourcePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		backend.closers = append(backend.closers, pool.Close)
		backend.Source = feed.NewPostgresSource(pool, cfg.Feed.Table, logger)

	default:
		return nil, fmt.Errorf("unknown feed source: %s", kind)
	}

	backend.Repository = NewFeedRepository(backend.Source, logger)
	return backend, nil
}
