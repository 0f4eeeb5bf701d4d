package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// CartRepository is an in-memory implementation of repository.CartRepository
// for tests and local development. Carts are stored as serialized copies so
// callers cannot mutate shared state.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewCartRepository creates a new in-memory cart repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string][]byte)}
}

// Get retrieves a cart by session ID.
func (r *CartRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.RLock()
	data, ok := r.carts[sessionID]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound("cart", sessionID)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save persists a cart, overwriting any existing cart for the session.
func (r *CartRepository) Save(_ context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.carts[cart.SessionID] = data
	r.mu.Unlock()
	return nil
}

// Delete removes the cart for a session ID.
func (r *CartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.carts, sessionID)
	r.mu.Unlock()
	return nil
}
