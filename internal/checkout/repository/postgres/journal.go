package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/pkg/database"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// JournalRepository implements repository.JournalRepository using PostgreSQL.
type JournalRepository struct {
	pool database.DBTX
}

// NewJournalRepository creates a new PostgreSQL-backed payment journal.
func NewJournalRepository(pool database.DBTX) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// Record writes a journal entry for a captured-but-unrecorded payment.
func (r *JournalRepository) Record(ctx context.Context, entry *domain.JournalEntry) error {
	contactJSON, err := json.Marshal(entry.Contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	itemsJSON, err := json.Marshal(entry.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	query := `
		INSERT INTO payment_journal (id, payment_reference, amount, currency, contact, items, reason, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		entry.ID,
		entry.PaymentReference,
		entry.Amount,
		entry.Currency,
		contactJSON,
		itemsJSON,
		entry.Reason,
		entry.Resolved,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	return nil
}

// ListUnresolved returns all entries awaiting reconciliation, oldest first.
func (r *JournalRepository) ListUnresolved(ctx context.Context) ([]domain.JournalEntry, error) {
	query := `
		SELECT id, payment_reference, amount, currency, contact, items, reason, resolved, created_at, resolved_at
		FROM payment_journal
		WHERE resolved = FALSE
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unresolved journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)

	for rows.Next() {
		var (
			e           domain.JournalEntry
			contactJSON []byte
			itemsJSON   []byte
		)

		if err := rows.Scan(
			&e.ID,
			&e.PaymentReference,
			&e.Amount,
			&e.Currency,
			&contactJSON,
			&itemsJSON,
			&e.Reason,
			&e.Resolved,
			&e.CreatedAt,
			&e.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}

		if len(contactJSON) > 0 {
			if err := json.Unmarshal(contactJSON, &e.Contact); err != nil {
				return nil, fmt.Errorf("unmarshal journal contact: %w", err)
			}
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &e.Items); err != nil {
				return nil, fmt.Errorf("unmarshal journal items: %w", err)
			}
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}

	return entries, nil
}

// MarkResolved marks an entry as reconciled.
func (r *JournalRepository) MarkResolved(ctx context.Context, id string) error {
	query := `
		UPDATE payment_journal
		SET resolved = TRUE, resolved_at = $1
		WHERE id = $2 AND resolved = FALSE`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark journal entry resolved: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("journal entry", id)
	}

	return nil
}
