package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/internal/order/repository"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// OrderService exposes read access to persisted orders. Orders are written
// only by the checkout orchestrator.
type OrderService struct {
	repo repository.OrderRepository
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// GetOrder retrieves a single order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListByEmail returns the paid orders for a customer email, newest first.
// This backs the downloads page: a purchase is looked up by the email given
// at checkout.
func (s *OrderService) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("a valid email is required")
	}

	orders, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list orders by email: %w", err)
	}
	return orders, nil
}
