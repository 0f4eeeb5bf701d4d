package domain

import "time"

// JournalEntry records a payment that was captured by the gateway but whose
// order could not be persisted. Entries are written before the failure is
// surfaced to the customer and stay until manually reconciled.
type JournalEntry struct {
	ID               string      `json:"id"`
	PaymentReference string      `json:"payment_reference"`
	Amount           int64       `json:"amount"`
	Currency         string      `json:"currency"`
	Contact          Contact     `json:"contact"`
	Items            []OrderItem `json:"items"`
	Reason           string      `json:"reason"`
	Resolved         bool        `json:"resolved"`
	CreatedAt        time.Time   `json:"created_at"`
	ResolvedAt       *time.Time  `json:"resolved_at,omitempty"`
}
