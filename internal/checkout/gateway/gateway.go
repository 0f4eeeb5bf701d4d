package gateway

import "context"

// Outcome values reported by the payment gateway.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeDismissed = "dismissed"
)

// Request holds the parameters for opening a payment with the gateway.
// Amount is in minor currency units (paise).
type Request struct {
	Amount        int64
	Currency      string
	Description   string
	ItemTitles    []string
	CustomerPhone string
	CustomerEmail string
}

// Result holds the gateway's terminal report for a payment attempt.
// PaymentReference is set only on success; FailureReason only on failure.
// A dismissed attempt carries neither.
type Result struct {
	Outcome          string
	PaymentReference string
	FailureReason    string
}

// Gateway defines the interface for payment gateway integrations. Open blocks
// until the gateway reports a terminal outcome (success, failure, or customer
// dismissal) or the context is canceled.
type Gateway interface {
	// Name returns the gateway name (e.g., "mock", "razorpay").
	Name() string

	// Open runs a payment through the gateway and returns its terminal outcome.
	Open(ctx context.Context, req *Request) (*Result, error)
}
