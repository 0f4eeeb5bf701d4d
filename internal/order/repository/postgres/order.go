package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/pkg/database"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	contactJSON, err := json.Marshal(o.Contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (id, amount, currency, payment_reference, contact, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.Amount,
		o.Currency,
		o.PaymentReference,
		contactJSON,
		o.Status,
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, title, price, quantity)
		VALUES ($1, $2, $3, $4, $5)`

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			o.ID,
			item.ProductID,
			item.Title,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID with items aggregated in one query.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT
			o.id, o.amount, o.currency, o.payment_reference, o.contact, o.status, o.created_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'product_id', oi.product_id,
						'title', oi.title,
						'price', oi.price,
						'quantity', oi.quantity
					)
				) FILTER (WHERE oi.product_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id, o.amount, o.currency, o.payment_reference, o.contact, o.status, o.created_at`

	var (
		o           domain.Order
		contactJSON []byte
		itemsJSON   []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Amount,
		&o.Currency,
		&o.PaymentReference,
		&contactJSON,
		&o.Status,
		&o.CreatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := unmarshalOrderJSON(&o, contactJSON, itemsJSON); err != nil {
		return nil, err
	}

	return &o, nil
}

// ListByEmail returns paid orders for a customer email, newest first. The
// contact is stored as JSONB, so the filter reaches into the email field.
func (r *OrderRepository) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	query := `
		SELECT
			o.id, o.amount, o.currency, o.payment_reference, o.contact, o.status, o.created_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'product_id', oi.product_id,
						'title', oi.title,
						'price', oi.price,
						'quantity', oi.quantity
					)
				) FILTER (WHERE oi.product_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.contact->>'email' = $1 AND o.status = $2
		GROUP BY o.id, o.amount, o.currency, o.payment_reference, o.contact, o.status, o.created_at
		ORDER BY o.created_at DESC`

	rows, err := r.pool.Query(ctx, query, email, domain.OrderStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("list orders by email: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o           domain.Order
			contactJSON []byte
			itemsJSON   []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.Amount,
			&o.Currency,
			&o.PaymentReference,
			&contactJSON,
			&o.Status,
			&o.CreatedAt,
			&itemsJSON,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		if err := unmarshalOrderJSON(&o, contactJSON, itemsJSON); err != nil {
			return nil, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func unmarshalOrderJSON(o *domain.Order, contactJSON, itemsJSON []byte) error {
	if len(contactJSON) > 0 && string(contactJSON) != "null" {
		if err := json.Unmarshal(contactJSON, &o.Contact); err != nil {
			return fmt.Errorf("unmarshal contact: %w", err)
		}
	}

	if len(itemsJSON) > 0 && string(itemsJSON) != "null" && string(itemsJSON) != "[]" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return fmt.Errorf("unmarshal order items: %w", err)
		}
	} else {
		o.Items = []domain.OrderItem{}
	}

	return nil
}
