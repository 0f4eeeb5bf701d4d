package http

import (
	"log/slog"
	"net/http"

	checkoutservice "github.com/dont21900-lgtm/editing-store/internal/checkout/service"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/pkg/httputil"
	"github.com/dont21900-lgtm/editing-store/pkg/validator"
)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	service *checkoutservice.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *checkoutservice.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// CheckoutRequest is the JSON request body for running a checkout.
type CheckoutRequest struct {
	Phone string `json:"phone" validate:"required,phone10"`
	Email string `json:"email" validate:"required,contains=@"`
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Checkout(r.Context(), sessionID, domain.Contact{
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Status handles GET /api/v1/checkout/status
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"state": h.service.State(sessionID)},
	})
}
