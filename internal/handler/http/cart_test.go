package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoryrepo "github.com/dont21900-lgtm/editing-store/internal/cart/repository/memory"
	cartservice "github.com/dont21900-lgtm/editing-store/internal/cart/service"
	"github.com/dont21900-lgtm/editing-store/internal/checkout/gateway"
	checkoutservice "github.com/dont21900-lgtm/editing-store/internal/checkout/service"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/internal/event"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
	pkgkafka "github.com/dont21900-lgtm/editing-store/pkg/kafka"
	"github.com/dont21900-lgtm/editing-store/pkg/middleware"
)

// --- Fixtures ---

type stubProducts struct {
	products map[string]*domain.Product
}

func (s *stubProducts) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return p, nil
}

type stubOrders struct {
	err error
}

func (s *stubOrders) Create(context.Context, *domain.Order) error { return s.err }

type stubJournal struct{}

func (stubJournal) Record(context.Context, *domain.JournalEntry) error { return nil }
func (stubJournal) ListUnresolved(context.Context) ([]domain.JournalEntry, error) {
	return []domain.JournalEntry{}, nil
}
func (stubJournal) MarkResolved(context.Context, string) error { return nil }

// holdGateway parks every Open call until released.
type holdGateway struct {
	release chan struct{}
	opened  chan struct{}
}

func (g *holdGateway) Name() string { return "hold" }

func (g *holdGateway) Open(ctx context.Context, _ *gateway.Request) (*gateway.Result, error) {
	close(g.opened)
	select {
	case <-g.release:
		return &gateway.Result{Outcome: gateway.OutcomeDismissed}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type cartTestEnv struct {
	router *chi.Mux
}

func newCartTestEnv(t *testing.T, gw gateway.Gateway) *cartTestEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer)

	products := &stubProducts{products: map[string]*domain.Product{
		"prod-1": {
			ID:    "prod-1",
			Title: "Cinematic LUT Pack",
			Price: 49900,
			Media: domain.Media{Kind: domain.MediaNone},
		},
	}}

	cartSvc := cartservice.NewCartService(memoryrepo.NewCartRepository(), products, producer, logger)
	checkoutSvc := checkoutservice.NewCheckoutService(cartSvc, &stubOrders{}, stubJournal{}, gw, producer, logger)

	handler := NewCartHandler(cartSvc, checkoutSvc, logger)
	checkoutHandler := NewCheckoutHandler(checkoutSvc, logger)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(SessionRequired)
		r.Get("/api/v1/cart", handler.GetCart)
		r.Delete("/api/v1/cart", handler.ClearCart)
		r.Post("/api/v1/cart/items", handler.AddProduct)
		r.Patch("/api/v1/cart/items/{productId}", handler.UpdateQuantity)
		r.Delete("/api/v1/cart/items/{productId}", handler.RemoveProduct)
		r.Post("/api/v1/checkout", checkoutHandler.Checkout)
		r.Get("/api/v1/checkout/status", checkoutHandler.Status)
	})

	return &cartTestEnv{router: r}
}

func doRequest(t *testing.T, router *chi.Mux, method, path, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestCartEndpoints_RequireSessionHeader(t *testing.T) {
	env := newCartTestEnv(t, nil)

	rec := doRequest(t, env.router, http.MethodGet, "/api/v1/cart", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), middleware.SessionHeader)
}

func TestGetCart_EmptyForNewSession(t *testing.T) {
	env := newCartTestEnv(t, nil)

	rec := doRequest(t, env.router, http.MethodGet, "/api/v1/cart", "sess-1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.Data.SessionID)
	assert.Empty(t, resp.Data.Lines)
}

func TestAddProduct_ThenGetCart(t *testing.T) {
	env := newCartTestEnv(t, nil)

	rec := doRequest(t, env.router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{"product_id":"prod-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, env.router, http.MethodGet, "/api/v1/cart", "sess-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Lines, 1)
	assert.Equal(t, "prod-1", resp.Data.Lines[0].ProductID)
}

func TestAddProduct_UnknownProduct404(t *testing.T) {
	env := newCartTestEnv(t, nil)

	rec := doRequest(t, env.router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{"product_id":"ghost"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddProduct_MissingBodyFieldValidation(t *testing.T) {
	env := newCartTestEnv(t, nil)

	rec := doRequest(t, env.router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCartFrozenDuringCheckout(t *testing.T) {
	gw := &holdGateway{release: make(chan struct{}), opened: make(chan struct{})}
	env := newCartTestEnv(t, gw)

	rec := doRequest(t, env.router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{"product_id":"prod-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- doRequest(t, env.router, http.MethodPost, "/api/v1/checkout", "sess-1",
			`{"phone":"9876543210","email":"a@b.com"}`)
	}()

	select {
	case <-gw.opened:
	case <-time.After(2 * time.Second):
		t.Fatal("checkout never reached the gateway")
	}

	// Status reports the open gateway.
	rec = doRequest(t, env.router, http.MethodGet, "/api/v1/checkout/status", "sess-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CheckoutStateAwaitingGateway)

	// Cart mutations are refused while the gateway is open.
	rec = doRequest(t, env.router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{"product_id":"prod-1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, env.router, http.MethodDelete, "/api/v1/cart", "sess-1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Reads still work.
	rec = doRequest(t, env.router, http.MethodGet, "/api/v1/cart", "sess-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	close(gw.release)
	checkoutRec := <-done
	assert.Equal(t, http.StatusOK, checkoutRec.Code)

	// Dismissal unfreezes the cart and leaves its contents alone.
	rec = doRequest(t, env.router, http.MethodGet, "/api/v1/checkout/status", "sess-1", "")
	assert.Contains(t, rec.Body.String(), domain.CheckoutStateIdle)

	rec = doRequest(t, env.router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{"product_id":"prod-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckout_InvalidContactRejected(t *testing.T) {
	env := newCartTestEnv(t, nil)

	rec := doRequest(t, env.router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{"product_id":"prod-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, env.router, http.MethodPost, "/api/v1/checkout", "sess-1",
		`{"phone":"12345","email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = doRequest(t, env.router, http.MethodPost, "/api/v1/checkout", "sess-1",
		`{"phone":"9876543210","email":"no-at-sign"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	env := newCartTestEnv(t, nil)

	rec := doRequest(t, env.router, http.MethodPost, "/api/v1/checkout", "sess-1",
		`{"phone":"9876543210","email":"a@b.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
