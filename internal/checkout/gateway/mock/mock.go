package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dont21900-lgtm/editing-store/internal/checkout/gateway"
)

// Gateway is a mock payment gateway that always succeeds.
// It is intended for development and testing purposes.
type Gateway struct{}

// NewGateway creates a new mock payment gateway.
func NewGateway() *Gateway {
	return &Gateway{}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return "mock"
}

// Open simulates a payment that always succeeds.
func (g *Gateway) Open(ctx context.Context, _ *gateway.Request) (*gateway.Result, error) {
	// Simulate a small processing delay.
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &gateway.Result{
		Outcome:          gateway.OutcomeSuccess,
		PaymentReference: "mock_pay_" + uuid.New().String(),
	}, nil
}
