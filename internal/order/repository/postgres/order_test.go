package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/pkg/database"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// --- Test Helpers ---

func newTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:               "order-001",
		Amount:           119700,
		Currency:         "INR",
		PaymentReference: "pay_abc123",
		Contact:          domain.Contact{Phone: "9876543210", Email: "a@b.com"},
		Status:           domain.OrderStatusPaid,
		CreatedAt:        now,
		Items: []domain.OrderItem{
			{ProductID: "prod-1", Title: "Cinematic LUT Pack", Price: 49900, Quantity: 2},
			{ProductID: "prod-2", Title: "Transition Preset", Price: 19900, Quantity: 1},
		},
	}
}

func orderColumns() []string {
	return []string{"id", "amount", "currency", "payment_reference", "contact", "status", "created_at", "items"}
}

func orderRow(t *testing.T, o *domain.Order) []any {
	t.Helper()
	contactJSON, err := json.Marshal(o.Contact)
	require.NoError(t, err)
	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)
	return []any{o.ID, o.Amount, o.Currency, o.PaymentReference, contactJSON, o.Status, o.CreatedAt, itemsJSON}
}

// --- Create Tests ---

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.Amount, o.Currency, o.PaymentReference, pgxmock.AnyArg(), o.Status, o.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, item := range o.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(o.ID, item.ProductID, item.Title, item.Price, item.Quantity).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_OrderInsertFails(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.Amount, o.Currency, o.PaymentReference, pgxmock.AnyArg(), o.Status, o.CreatedAt).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemInsertRollsBack(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.Amount, o.Currency, o.PaymentReference, pgxmock.AnyArg(), o.Status, o.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(o.ID, o.Items[0].ProductID, o.Items[0].Title, o.Items[0].Price, o.Items[0].Quantity).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID Tests ---

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectQuery("SELECT").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows(orderColumns()).AddRow(orderRow(t, o)...))

	got, err := repo.GetByID(context.Background(), o.ID)

	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Amount, got.Amount)
	assert.Equal(t, o.PaymentReference, got.PaymentReference)
	assert.Equal(t, o.Contact, got.Contact)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Cinematic LUT Pack", got.Items[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- ListByEmail Tests ---

func TestOrderRepository_ListByEmail_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectQuery("SELECT").
		WithArgs("a@b.com", domain.OrderStatusPaid).
		WillReturnRows(pgxmock.NewRows(orderColumns()).AddRow(orderRow(t, o)...))

	orders, err := repo.ListByEmail(context.Background(), "a@b.com")

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
	assert.Equal(t, domain.OrderStatusPaid, orders[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByEmail_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT").
		WithArgs("nobody@b.com", domain.OrderStatusPaid).
		WillReturnRows(pgxmock.NewRows(orderColumns()))

	orders, err := repo.ListByEmail(context.Background(), "nobody@b.com")

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
