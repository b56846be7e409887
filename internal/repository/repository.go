package repository

import (
	"context"

	"retro-hunt/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves every approved product in feed order. A source either
	// yields the complete catalogue or an error, never a partial list.
	GetAll(ctx context.Context) ([]model.Product, error)
}
