package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dont21900-lgtm/editing-store/internal/cart/repository"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/internal/event"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// MaxLinesPerCart is the maximum number of distinct product lines in a cart.
const MaxLinesPerCart = 50

// ProductReader resolves catalog products for cart additions.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// CartService implements the business logic for session cart operations.
type CartService struct {
	repo     repository.CartRepository
	products ProductReader
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, products ProductReader, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an
// empty cart without persisting it.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddProduct adds the catalog product to the session cart. If a line for the
// product already exists its quantity is incremented by one; otherwise a new
// line starts at quantity one.
func (s *CartService) AddProduct(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.FindLine(productID) < 0 && cart.LineCount() >= MaxLinesPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d lines", MaxLinesPerCart))
	}

	cart.AddProduct(product)
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "product added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("line_count", cart.LineCount()),
	)

	return cart, nil
}

// UpdateQuantity adjusts a line's quantity by delta, clamped to a floor of
// one. Decrementing never removes the line; RemoveProduct is the only way to
// drop it.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, delta int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if delta == 0 {
		return nil, apperrors.InvalidInput("quantity delta must not be zero")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart for update: %w", err)
	}

	if !cart.ApplyQuantityDelta(productID, delta) {
		return nil, apperrors.NotFound("cart line", productID)
	}
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("delta", delta),
	)

	return cart, nil
}

// RemoveProduct deletes the line for the product regardless of its quantity.
func (s *CartService) RemoveProduct(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart for remove: %w", err)
	}

	if !cart.RemoveLine(productID) {
		return nil, apperrors.NotFound("cart line", productID)
	}
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "product removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// ClearCart removes all lines from the session cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// publishUpdated publishes cart.updated; publish failures are logged, never
// surfaced to the caller.
func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
