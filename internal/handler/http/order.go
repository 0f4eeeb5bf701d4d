package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	orderservice "github.com/dont21900-lgtm/editing-store/internal/order/service"
	"github.com/dont21900-lgtm/editing-store/pkg/httputil"
)

// OrderHandler handles HTTP requests for order lookups.
type OrderHandler struct {
	service *orderservice.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *orderservice.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// ListByEmail handles GET /api/v1/orders?email=
// It backs the downloads page: paid orders looked up by checkout email.
func (h *OrderHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	orders, err := h.service.ListByEmail(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
