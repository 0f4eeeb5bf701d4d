package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/internal/event"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
	pkgkafka "github.com/dont21900-lgtm/editing-store/pkg/kafka"
)

// --- Mock Repository ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// --- Mock Product Reader ---

type mockProductReader struct {
	mock.Mock
}

func (m *mockProductReader) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(repo *mockCartRepository, products *mockProductReader) *CartService {
	logger := newTestLogger()
	// Kafka producer that fails silently in tests (no real broker).
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer)
	return NewCartService(repo, products, producer, logger)
}

func lutPack() *domain.Product {
	return &domain.Product{
		ID:    "prod-1",
		Title: "Cinematic LUT Pack",
		Price: 49900,
		Media: domain.Media{Kind: domain.MediaNone},
	}
}

// --- Tests ---

func TestGetCart_MissingReturnsEmpty(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestService(repo, new(mockProductReader))
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))

	cart, err := svc.GetCart(ctx, "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "sess-1", cart.SessionID)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "INR", cart.Currency)

	// The empty cart is synthesized, never persisted.
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestGetCart_RequiresSession(t *testing.T) {
	svc := newTestService(new(mockCartRepository), new(mockProductReader))

	_, err := svc.GetCart(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddProduct_NewLine(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductReader)
	svc := newTestService(repo, products)
	ctx := context.Background()

	products.On("GetProduct", ctx, "prod-1").Return(lutPack(), nil)
	repo.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Cart")).Return(nil)

	cart, err := svc.AddProduct(ctx, "sess-1", "prod-1")

	require.NoError(t, err)
	require.Equal(t, 1, cart.LineCount())
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, int64(49900), cart.Total())

	repo.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestAddProduct_MergesDuplicate(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductReader)
	svc := newTestService(repo, products)
	ctx := context.Background()

	existing := domain.NewCart("sess-1")
	existing.AddProduct(lutPack())

	products.On("GetProduct", ctx, "prod-1").Return(lutPack(), nil)
	repo.On("Get", ctx, "sess-1").Return(existing, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Cart")).Return(nil)

	cart, err := svc.AddProduct(ctx, "sess-1", "prod-1")

	require.NoError(t, err)
	require.Equal(t, 1, cart.LineCount())
	assert.Equal(t, 2, cart.Lines[0].Quantity)

	repo.AssertExpectations(t)
}

func TestAddProduct_UnknownProduct(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductReader)
	svc := newTestService(repo, products)
	ctx := context.Background()

	products.On("GetProduct", ctx, "ghost").Return(nil, apperrors.NotFound("product", "ghost"))

	_, err := svc.AddProduct(ctx, "sess-1", "ghost")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddProduct_LineLimit(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductReader)
	svc := newTestService(repo, products)
	ctx := context.Background()

	full := domain.NewCart("sess-1")
	for i := 0; i < MaxLinesPerCart; i++ {
		full.AddProduct(&domain.Product{
			ID:    fmt.Sprintf("prod-%d", i),
			Title: "filler",
			Price: 100,
			Media: domain.Media{Kind: domain.MediaNone},
		})
	}

	products.On("GetProduct", ctx, "prod-new").Return(&domain.Product{
		ID: "prod-new", Title: "one too many", Price: 100,
		Media: domain.Media{Kind: domain.MediaNone},
	}, nil)
	repo.On("Get", ctx, "sess-1").Return(full, nil)

	_, err := svc.AddProduct(ctx, "sess-1", "prod-new")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateQuantity_ClampsAtOne(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestService(repo, new(mockProductReader))
	ctx := context.Background()

	existing := domain.NewCart("sess-1")
	existing.AddProduct(lutPack())

	repo.On("Get", ctx, "sess-1").Return(existing, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Cart")).Return(nil)

	cart, err := svc.UpdateQuantity(ctx, "sess-1", "prod-1", -10)

	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Quantity)

	repo.AssertExpectations(t)
}

func TestUpdateQuantity_ZeroDeltaRejected(t *testing.T) {
	svc := newTestService(new(mockCartRepository), new(mockProductReader))

	_, err := svc.UpdateQuantity(context.Background(), "sess-1", "prod-1", 0)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestService(repo, new(mockProductReader))
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(domain.NewCart("sess-1"), nil)

	_, err := svc.UpdateQuantity(ctx, "sess-1", "prod-1", 1)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveProduct(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestService(repo, new(mockProductReader))
	ctx := context.Background()

	existing := domain.NewCart("sess-1")
	existing.AddProduct(lutPack())
	existing.ApplyQuantityDelta("prod-1", 4)

	repo.On("Get", ctx, "sess-1").Return(existing, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Cart")).Return(nil)

	cart, err := svc.RemoveProduct(ctx, "sess-1", "prod-1")

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "removal drops the whole line regardless of quantity")

	repo.AssertExpectations(t)
}

func TestClearCart(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestService(repo, new(mockProductReader))
	ctx := context.Background()

	repo.On("Delete", ctx, "sess-1").Return(nil)

	require.NoError(t, svc.ClearCart(ctx, "sess-1"))
	repo.AssertExpectations(t)
}
