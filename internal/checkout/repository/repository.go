package repository

import (
	"context"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
)

// JournalRepository defines the interface for the payment journal: the
// durable record of payments captured by the gateway whose order could not
// be persisted.
type JournalRepository interface {
	// Record writes a journal entry. It must succeed independently of the
	// order store failure that triggered it.
	Record(ctx context.Context, entry *domain.JournalEntry) error

	// ListUnresolved returns all entries awaiting reconciliation, oldest first.
	ListUnresolved(ctx context.Context) ([]domain.JournalEntry, error)

	// MarkResolved marks an entry as reconciled.
	MarkResolved(ctx context.Context, id string) error
}
