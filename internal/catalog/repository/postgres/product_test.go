package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dont21900-lgtm/editing-store/internal/catalog/repository"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/pkg/database"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

func newTestRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ID:          "prod-001",
		Title:       "Cinematic LUT Pack",
		Description: "21 color grading LUTs for log footage",
		Category:    "luts",
		Price:       49900,
		Media: domain.Media{
			Kind:         domain.MediaVideo,
			VideoURL:     "https://cdn.example.com/previews/p1.mp4",
			ThumbnailURL: "https://cdn.example.com/thumbnails/p1.jpg",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func productColumns() []string {
	return []string{"id", "title", "description", "category", "price", "media", "created_at", "updated_at"}
}

func productRow(t *testing.T, p *domain.Product) []any {
	t.Helper()
	mediaJSON, err := json.Marshal(p.Media)
	require.NoError(t, err)
	return []any{p.ID, p.Title, p.Description, p.Category, p.Price, mediaJSON, p.CreatedAt, p.UpdatedAt}
}

func TestProductRepository_Create(t *testing.T) {
	repo, mock := newTestRepo(t)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Title, p.Description, p.Category, p.Price, pgxmock.AnyArg(), p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID(t *testing.T) {
	repo, mock := newTestRepo(t)

	p := sampleProduct()

	mock.ExpectQuery("SELECT").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productColumns()).AddRow(productRow(t, p)...))

	got, err := repo.GetByID(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, domain.MediaVideo, got.Media.Kind)
	assert.Equal(t, p.Media.VideoURL, got.Media.VideoURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_NoFilter(t *testing.T) {
	repo, mock := newTestRepo(t)

	p := sampleProduct()

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows(productColumns()).AddRow(productRow(t, p)...))

	products, err := repo.List(context.Background(), repository.ProductFilter{})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_CategoryAndQuery(t *testing.T) {
	repo, mock := newTestRepo(t)

	p := sampleProduct()

	mock.ExpectQuery("SELECT").
		WithArgs("luts", "%cinematic%").
		WillReturnRows(pgxmock.NewRows(productColumns()).AddRow(productRow(t, p)...))

	products, err := repo.List(context.Background(), repository.ProductFilter{
		Category: "luts",
		Query:    "cinematic",
	})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	repo, mock := newTestRepo(t)

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(p.Title, p.Description, p.Category, p.Price, pgxmock.AnyArg(), p.UpdatedAt, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(p.Title, p.Description, p.Category, p.Price, pgxmock.AnyArg(), p.UpdatedAt, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.Update(context.Background(), p), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "prod-001"))

	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
