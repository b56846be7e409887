package repository

import (
	"context"
	_ "embed"
	"fmt"

	"retro-hunt/internal/model"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed static_catalog.yaml
var staticCatalog []byte

type staticCatalogFile struct {
	Products []model.Product `yaml:"products"`
}

// staticRepository serves the embedded fixture catalogue.
type staticRepository struct {
	products []model.Product
	logger   zerolog.Logger
}

// NewStaticRepository creates a repository backed by the embedded catalogue.
func NewStaticRepository(logger zerolog.Logger) (ProductRepository, error) {
	products, err := parseCatalog(staticCatalog)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str("repository", "static").Logger()
	logger.Info().Int("products", len(products)).Msg("loaded static catalogue")

	return &staticRepository{
		products: products,
		logger:   logger,
	}, nil
}

// parseCatalog decodes a YAML catalogue and derives the dollar prices.
func parseCatalog(data []byte) ([]model.Product, error) {
	var file staticCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse static catalogue: %w", err)
	}

	for i, p := range file.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("static catalogue entry %d has no id", i)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("static catalogue entry %s has invalid category %q", p.ID, p.Category)
		}
		if !p.Condition.Valid() {
			return nil, fmt.Errorf("static catalogue entry %s has invalid condition %q", p.ID, p.Condition)
		}
		file.Products[i].PriceYen = max(p.PriceYen, 0)
		file.Products[i].PriceUSD = model.USDFromYen(file.Products[i].PriceYen)
	}

	return file.Products, nil
}

// GetAll returns a copy of the catalogue so callers cannot modify it.
func (r *staticRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products := make([]model.Product, len(r.products))
	copy(products, r.products)

	r.logger.Debug().Int("count", len(products)).Msg("served static catalogue")

	return products, nil
}
