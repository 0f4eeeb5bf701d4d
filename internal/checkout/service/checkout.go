package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dont21900-lgtm/editing-store/internal/checkout/gateway"
	"github.com/dont21900-lgtm/editing-store/internal/checkout/repository"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/internal/event"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

var checkoutAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Total number of checkout attempts by terminal outcome",
	},
	[]string{"outcome"},
)

// CartStore is the slice of the cart service the orchestrator needs.
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// OrderStore is the slice of the order repository the orchestrator needs.
type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
}

// Result is the terminal report of a completed checkout run.
type Result struct {
	Outcome string        `json:"outcome"`
	Order   *domain.Order `json:"order,omitempty"`
}

// CheckoutService orchestrates the cart-to-order flow: validation, payment
// gateway invocation, order persistence, and the payment journal for the
// paid-but-unsaved case. At most one checkout runs per session at a time.
type CheckoutService struct {
	carts    CartStore
	orders   OrderStore
	journal  repository.JournalRepository
	gateway  gateway.Gateway
	producer *event.Producer
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCheckoutService creates a new checkout orchestrator.
func NewCheckoutService(
	carts CartStore,
	orders OrderStore,
	journal repository.JournalRepository,
	gw gateway.Gateway,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		journal:  journal,
		gateway:  gw,
		producer: producer,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// State reports the checkout state for a session: awaiting_gateway while a
// checkout holds the gateway open, idle otherwise.
func (s *CheckoutService) State(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[sessionID]; ok {
		return domain.CheckoutStateAwaitingGateway
	}
	return domain.CheckoutStateIdle
}

// InProgress reports whether a checkout is currently running for the session.
// The HTTP layer uses this to refuse cart mutation while the gateway is open.
func (s *CheckoutService) InProgress(sessionID string) bool {
	return s.State(sessionID) == domain.CheckoutStateAwaitingGateway
}

// begin marks a checkout as in flight for the session. Returns false when one
// is already running.
func (s *CheckoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[sessionID]; ok {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}

// Checkout runs the full flow for a session. Validation failures reject the
// attempt before the gateway is touched. A second Checkout for the same
// session while one is in flight is refused.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, contact domain.Contact) (*Result, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	if !s.begin(sessionID) {
		return nil, apperrors.Conflict("a checkout is already in progress for this session")
	}
	defer s.end(sessionID)

	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}
	if err := contact.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	// Snapshot before the gateway opens; the order is assembled from this
	// snapshot even if the stored cart changes underneath.
	snapshot := &domain.Cart{
		SessionID: cart.SessionID,
		Lines:     cart.Snapshot(),
		Currency:  cart.Currency,
	}

	titles := make([]string, len(snapshot.Lines))
	for i, line := range snapshot.Lines {
		titles[i] = line.Title
	}

	req := &gateway.Request{
		Amount:        snapshot.Total(),
		Currency:      snapshot.Currency,
		Description:   "digital asset purchase",
		ItemTitles:    titles,
		CustomerPhone: contact.Phone,
		CustomerEmail: contact.Email,
	}

	s.logger.InfoContext(ctx, "opening payment gateway",
		slog.String("session_id", sessionID),
		slog.Int64("amount", req.Amount),
		slog.String("currency", req.Currency),
		slog.Int("items", len(titles)),
	)

	res, err := s.gateway.Open(ctx, req)
	if err != nil {
		s.recordFailure(ctx, sessionID, domain.CheckoutOutcomeGatewayFailed, "", err.Error())
		return nil, apperrors.ServiceUnavailable("payment gateway unavailable")
	}

	switch res.Outcome {
	case gateway.OutcomeDismissed:
		checkoutAttemptsTotal.WithLabelValues(domain.CheckoutOutcomeGatewayDismissed).Inc()
		s.logger.InfoContext(ctx, "payment gateway dismissed by customer",
			slog.String("session_id", sessionID),
		)
		return &Result{Outcome: domain.CheckoutOutcomeGatewayDismissed}, nil

	case gateway.OutcomeFailure:
		s.recordFailure(ctx, sessionID, domain.CheckoutOutcomeGatewayFailed, "", res.FailureReason)
		return nil, apperrors.PaymentFailed(res.FailureReason)

	case gateway.OutcomeSuccess:
		return s.commitOrder(ctx, sessionID, snapshot, contact, res.PaymentReference)

	default:
		s.recordFailure(ctx, sessionID, domain.CheckoutOutcomeGatewayFailed, "", "unknown gateway outcome "+res.Outcome)
		return nil, apperrors.Internal(fmt.Errorf("unknown gateway outcome %q", res.Outcome))
	}
}

// commitOrder persists the paid order and clears the cart. Persistence
// failure after a captured payment is journaled before it is surfaced.
func (s *CheckoutService) commitOrder(ctx context.Context, sessionID string, snapshot *domain.Cart, contact domain.Contact, paymentReference string) (*Result, error) {
	order := domain.NewOrderFromCart(snapshot, contact, paymentReference)

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "order persistence failed after captured payment",
			slog.String("session_id", sessionID),
			slog.String("payment_reference", paymentReference),
			slog.String("error", err.Error()),
		)

		s.journalUnrecorded(ctx, order, err)
		s.recordFailure(ctx, sessionID, domain.CheckoutOutcomeSaveFailed, paymentReference, err.Error())
		return nil, apperrors.PaymentNotRecorded(paymentReference)
	}

	// The order is durably recorded; a cart cleanup failure must not fail
	// the checkout.
	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	checkoutAttemptsTotal.WithLabelValues(domain.CheckoutOutcomeOrderSaved).Inc()

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("session_id", sessionID),
		slog.String("order_id", order.ID),
		slog.String("payment_reference", paymentReference),
		slog.Int64("amount", order.Amount),
	)

	return &Result{Outcome: domain.CheckoutOutcomeOrderSaved, Order: order}, nil
}

// journalUnrecorded writes the payment journal entry for a captured payment
// whose order could not be saved. A journal write failure is logged loudly;
// the payment reference still reaches the customer via the returned error.
func (s *CheckoutService) journalUnrecorded(ctx context.Context, order *domain.Order, cause error) {
	entry := &domain.JournalEntry{
		ID:               uuid.New().String(),
		PaymentReference: order.PaymentReference,
		Amount:           order.Amount,
		Currency:         order.Currency,
		Contact:          order.Contact,
		Items:            order.Items,
		Reason:           cause.Error(),
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to journal unrecorded payment",
			slog.String("payment_reference", order.PaymentReference),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CheckoutService) recordFailure(ctx context.Context, sessionID, outcome, paymentReference, reason string) {
	checkoutAttemptsTotal.WithLabelValues(outcome).Inc()

	if err := s.producer.PublishCheckoutFailed(ctx, sessionID, outcome, paymentReference, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.failed event",
			slog.String("session_id", sessionID),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
	}

	s.logger.WarnContext(ctx, "checkout failed",
		slog.String("session_id", sessionID),
		slog.String("outcome", outcome),
		slog.String("reason", reason),
	)
}

// ListUnrecordedPayments returns journal entries awaiting reconciliation.
func (s *CheckoutService) ListUnrecordedPayments(ctx context.Context) ([]domain.JournalEntry, error) {
	entries, err := s.journal.ListUnresolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unrecorded payments: %w", err)
	}
	return entries, nil
}

// ResolveUnrecordedPayment marks a journal entry as reconciled.
func (s *CheckoutService) ResolveUnrecordedPayment(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("journal entry id is required")
	}
	if err := s.journal.MarkResolved(ctx, id); err != nil {
		return fmt.Errorf("resolve unrecorded payment: %w", err)
	}
	return nil
}
