package repository

import (
	"context"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
)

// CartRepository defines the interface for session cart persistence.
type CartRepository interface {
	// Get retrieves the cart for a session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a session ID.
	Delete(ctx context.Context, sessionID string) error
}
