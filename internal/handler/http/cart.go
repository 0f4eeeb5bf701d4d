package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	cartservice "github.com/dont21900-lgtm/editing-store/internal/cart/service"
	checkoutservice "github.com/dont21900-lgtm/editing-store/internal/checkout/service"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
	"github.com/dont21900-lgtm/editing-store/pkg/httputil"
	"github.com/dont21900-lgtm/editing-store/pkg/validator"
)

// CartHandler handles HTTP requests for session cart endpoints. Mutations
// are refused while a checkout holds the session's cart frozen.
type CartHandler struct {
	service  *cartservice.CartService
	checkout *checkoutservice.CheckoutService
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *cartservice.CartService, checkout *checkoutservice.CheckoutService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service:  svc,
		checkout: checkout,
		logger:   logger,
	}
}

// AddProductRequest is the JSON request body for adding a product to the cart.
type AddProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// UpdateQuantityRequest is the JSON request body for a quantity delta.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddProduct handles POST /api/v1/cart/items
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if !h.cartMutable(w, r, sessionID) {
		return
	}

	var req AddProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddProduct(r.Context(), sessionID, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if !h.cartMutable(w, r, sessionID) {
		return
	}

	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), sessionID, productID, req.Delta)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveProduct handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if !h.cartMutable(w, r, sessionID) {
		return
	}

	productID := chi.URLParam(r, "productId")

	cart, err := h.service.RemoveProduct(r.Context(), sessionID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if !h.cartMutable(w, r, sessionID) {
		return
	}

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// cartMutable writes a 409 and returns false while the session's checkout
// holds the cart frozen.
func (h *CartHandler) cartMutable(w http.ResponseWriter, r *http.Request, sessionID string) bool {
	if h.checkout != nil && h.checkout.InProgress(sessionID) {
		httputil.WriteError(w, r, apperrors.Conflict("cart is frozen while checkout is in progress"), h.logger)
		return false
	}
	return true
}
