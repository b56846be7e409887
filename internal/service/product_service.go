package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"retro-hunt/internal/catalog"
	"retro-hunt/internal/model"
	"retro-hunt/internal/repository"
	"retro-hunt/internal/requestcache"

	"github.com/rs/zerolog"
)

const (
	// DefaultFeaturedLimit is the size of the home page carousel.
	DefaultFeaturedLimit = 4
	// DefaultRelatedLimit is the number of suggestions on a product page.
	DefaultRelatedLimit = 3

	productsKey      = "products"
	productKeyPrefix = "product:"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewProductService creates a new product service. rng drives the related
// product sample; a nil rng is replaced by a randomly seeded one.
func NewProductService(productRepo repository.ProductRepository, rng *rand.Rand, logger zerolog.Logger) ProductService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &productService{
		productRepo: productRepo,
		rng:         rng,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// products fetches the catalogue at most once per request.
func (s *productService) products(ctx context.Context) ([]model.Product, error) {
	return requestcache.Do(ctx, productsKey, func() ([]model.Product, error) {
		products, err := s.productRepo.GetAll(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to get all products")
			return nil, fmt.Errorf("failed to get products: %w", err)
		}

		s.logger.Debug().Int("count", len(products)).Msg("retrieved products")
		return products, nil
	})
}

// List returns the products matching q in display order.
func (s *productService) List(ctx context.Context, q catalog.Query) ([]model.Product, error) {
	if q.Category != "" && q.Category != model.CategoryAll && !q.Category.Valid() {
		return nil, model.ErrInvalidCategory
	}
	if !q.Sort.Valid() {
		return nil, model.ErrInvalidSort
	}

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	result := catalog.Apply(products, q)

	s.logger.Debug().
		Str("search", q.Search).
		Str("category", string(q.Category)).
		Str("sort", string(q.Sort)).
		Int("count", len(result)).
		Msg("listed products")

	return result, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	return requestcache.Do(ctx, productKeyPrefix+id, func() (*model.Product, error) {
		products, err := s.products(ctx)
		if err != nil {
			return nil, err
		}

		for i := range products {
			if products[i].ID == id {
				product := products[i]
				return &product, nil
			}
		}

		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	})
}

// GetFeatured returns up to limit featured products in feed order.
func (s *productService) GetFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.Featured(products, limit), nil
}

// GetRelated returns a random sample of other products in the same category.
func (s *productService) GetRelated(ctx context.Context, product model.Product, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	return catalog.Related(products, product, limit, s.rng), nil
}

// ResolveOutbound returns the affiliate URL behind the buy button of a product.
func (s *productService) ResolveOutbound(ctx context.Context, id string) (string, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if product.AffiliateLink == "" {
		s.logger.Warn().Str("product_id", id).Msg("product has no affiliate link")
		return "", model.ErrNoAffiliateLink
	}

	s.logger.Info().
		Str("product_id", id).
		Str("category", string(product.Category)).
		Msg("outbound click")

	return product.AffiliateLink, nil
}
