package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dont21900-lgtm/editing-store/internal/catalog/repository"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// CatalogService implements the business logic for catalog reads and admin
// product maintenance. Product creation goes through the Composer.
type CatalogService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts returns catalog products, newest first, optionally narrowed
// by category and a title search query.
func (s *CatalogService) ListProducts(ctx context.Context, category, query string) ([]domain.Product, error) {
	filter := repository.ProductFilter{
		Category: strings.TrimSpace(category),
		Query:    strings.TrimSpace(query),
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a single product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// UpdateProductInput holds the mutable product fields for an admin update.
type UpdateProductInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price" validate:"gte=0"`
	GradientTag string `json:"gradient_tag"`
}

// UpdateProduct overwrites the descriptive fields of an existing product.
// Presentation media uploaded at composition time is kept unless the update
// switches a non-video product to a different gradient tag.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Title = input.Title
	p.Description = input.Description
	p.Category = input.Category
	p.Price = input.Price

	if p.Media.Kind != domain.MediaVideo {
		if input.GradientTag != "" {
			p.Media = domain.Media{Kind: domain.MediaGradient, GradientTag: input.GradientTag}
		} else {
			p.Media = domain.Media{Kind: domain.MediaNone}
		}
	}

	if err := p.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", p.ID),
		slog.String("title", p.Title),
	)

	return p, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
