package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dont21900-lgtm/editing-store/internal/catalog/repository"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/pkg/database"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// The media variant is stored as JSONB.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	mediaJSON, err := json.Marshal(p.Media)
	if err != nil {
		return fmt.Errorf("marshal media: %w", err)
	}

	query := `
		INSERT INTO products (id, title, description, category, price, media, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Category,
		p.Price,
		mediaJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, title, description, category, price, media, created_at, updated_at
		FROM products
		WHERE id = $1`

	var (
		p         domain.Product
		mediaJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.Price,
		&mediaJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := json.Unmarshal(mediaJSON, &p.Media); err != nil {
		return nil, fmt.Errorf("unmarshal media: %w", err)
	}

	return &p, nil
}

// List returns products matching the filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, category, price, media, created_at, updated_at
		FROM products
		%s
		ORDER BY created_at DESC`,
		whereClause,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)

	for rows.Next() {
		var (
			p         domain.Product
			mediaJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Category,
			&p.Price,
			&mediaJSON,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if err := json.Unmarshal(mediaJSON, &p.Media); err != nil {
			return nil, fmt.Errorf("unmarshal media: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// Update overwrites an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	mediaJSON, err := json.Marshal(p.Media)
	if err != nil {
		return fmt.Errorf("marshal media: %w", err)
	}

	query := `
		UPDATE products
		SET title = $1, description = $2, category = $3, price = $4, media = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		p.Title,
		p.Description,
		p.Category,
		p.Price,
		mediaJSON,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}
