package service

import (
	"context"

	"retro-hunt/internal/catalog"
	"retro-hunt/internal/model"
)

// ProductService defines the storefront's read operations on the catalogue.
type ProductService interface {
	// List returns the products matching q in display order.
	List(ctx context.Context, q catalog.Query) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetFeatured returns up to limit featured products in feed order.
	GetFeatured(ctx context.Context, limit int) ([]model.Product, error)

	// GetRelated returns a random sample of other products in the same category.
	GetRelated(ctx context.Context, product model.Product, limit int) ([]model.Product, error)

	// ResolveOutbound returns the affiliate URL behind the buy button of a product.
	ResolveOutbound(ctx context.Context, id string) (string, error)
}
