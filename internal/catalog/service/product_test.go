package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dont21900-lgtm/editing-store/internal/catalog/repository"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// --- Mock Repository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func gradientProduct() *domain.Product {
	return &domain.Product{
		ID:       "prod-1",
		Title:    "Transition Preset",
		Category: "presets",
		Price:    19900,
		Media:    domain.Media{Kind: domain.MediaGradient, GradientTag: "sunset"},
	}
}

func videoProduct() *domain.Product {
	return &domain.Product{
		ID:       "prod-2",
		Title:    "Cinematic LUT Pack",
		Category: "luts",
		Price:    49900,
		Media: domain.Media{
			Kind:     domain.MediaVideo,
			VideoURL: "https://cdn.example.com/previews/p2.mp4",
		},
	}
}

// --- Tests ---

func TestListProducts_TrimsFilter(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewCatalogService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("List", ctx, repository.ProductFilter{Category: "luts", Query: "cine"}).
		Return([]domain.Product{*videoProduct()}, nil)

	products, err := svc.ListProducts(ctx, " luts ", " cine ")

	require.NoError(t, err)
	require.Len(t, products, 1)
	repo.AssertExpectations(t)
}

func TestGetProduct_RequiresID(t *testing.T) {
	svc := NewCatalogService(new(mockProductRepository), newTestLogger())

	_, err := svc.GetProduct(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateProduct_KeepsVideoMedia(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewCatalogService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "prod-2").Return(videoProduct(), nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	got, err := svc.UpdateProduct(ctx, "prod-2", UpdateProductInput{
		Title:       "Cinematic LUT Pack v2",
		Price:       59900,
		GradientTag: "sunset",
	})

	require.NoError(t, err)
	assert.Equal(t, "Cinematic LUT Pack v2", got.Title)
	assert.Equal(t, domain.MediaVideo, got.Media.Kind, "composed preview video survives admin edits")
	repo.AssertExpectations(t)
}

func TestUpdateProduct_SwitchesGradient(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewCatalogService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "prod-1").Return(gradientProduct(), nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	got, err := svc.UpdateProduct(ctx, "prod-1", UpdateProductInput{
		Title:       "Transition Preset",
		Price:       19900,
		GradientTag: "ocean",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.MediaGradient, got.Media.Kind)
	assert.Equal(t, "ocean", got.Media.GradientTag)
}

func TestUpdateProduct_DropsGradientWhenTagCleared(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewCatalogService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "prod-1").Return(gradientProduct(), nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	got, err := svc.UpdateProduct(ctx, "prod-1", UpdateProductInput{
		Title: "Transition Preset",
		Price: 19900,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.MediaNone, got.Media.Kind)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewCatalogService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := svc.UpdateProduct(ctx, "missing", UpdateProductInput{Title: "x", Price: 1})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewCatalogService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Delete", ctx, "prod-1").Return(nil)

	require.NoError(t, svc.DeleteProduct(ctx, "prod-1"))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, ""), apperrors.ErrInvalidInput)
	repo.AssertExpectations(t)
}
