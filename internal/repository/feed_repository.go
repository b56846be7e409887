package repository

import (
	"context"
	"errors"
	"fmt"

	"retro-hunt/internal/feed"
	"retro-hunt/internal/model"

	"github.com/rs/zerolog"
)

// feedRepository implements ProductRepository on top of a raw feed source.
type feedRepository struct {
	source feed.Source
	logger zerolog.Logger
}

// NewFeedRepository creates a repository that normalizes the rows of source.
func NewFeedRepository(source feed.Source, logger zerolog.Logger) ProductRepository {
	return &feedRepository{
		source: source,
		logger: logger.With().
			Str("repository", "feed").
			Str("source", source.Name()).
			Logger(),
	}
}

// GetAll fetches the source rows and normalizes them into products.
func (r *feedRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	rows, err := r.source.Rows(ctx)
	if err != nil {
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			r.logger.Error().Str("key", cfgErr.Key).Msg("feed source is not configured")
			return nil, err
		}

		r.logger.Error().Err(err).Msg("failed to fetch feed rows")
		return nil, &model.SourceUnavailableError{
			Source: r.source.Name(),
			Err:    fmt.Errorf("failed to fetch feed rows: %w", err),
		}
	}

	products := feed.Normalize(rows)

	r.logger.Debug().
		Int("rows", len(rows)).
		Int("products", len(products)).
		Msg("normalized feed")

	return products, nil
}
