package domain

// Checkout session states. A session is idle unless a checkout is holding the
// gateway open; terminal outcomes are reported on the result, after which the
// session returns to idle.
const (
	CheckoutStateIdle            = "idle"
	CheckoutStateAwaitingGateway = "awaiting_gateway"
)

// Checkout outcomes.
const (
	CheckoutOutcomeOrderSaved       = "order_saved"
	CheckoutOutcomeSaveFailed       = "save_failed"
	CheckoutOutcomeGatewayFailed    = "gateway_failed"
	CheckoutOutcomeGatewayDismissed = "gateway_dismissed"
)
