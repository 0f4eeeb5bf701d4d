package repository

import (
	"context"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
)

// OrderRepository defines the interface for order persistence. Orders are
// immutable once written: there is no update-in-place operation.
type OrderRepository interface {
	// Create inserts a new order and its items atomically.
	Create(ctx context.Context, o *domain.Order) error

	// GetByID retrieves an order by its ID, eagerly loading its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByEmail returns paid orders for a customer email, newest first.
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
}
