package repository

import (
	"context"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	// Category filters by exact category; empty means all categories.
	Category string

	// Query filters by a case-insensitive title substring match.
	Query string
}

// ProductRepository defines the interface for catalog persistence.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a product by its ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Update overwrites an existing product.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product by its ID.
	Delete(ctx context.Context, id string) error
}
