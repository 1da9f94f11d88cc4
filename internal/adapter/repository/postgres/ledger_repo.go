package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// LedgerRepository implements counterparty ledger persistence. Entries are
// immutable once written.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new ledger repository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CreateEntry inserts a ledger entry inside the caller's transaction.
func (r *LedgerRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO ledger_entries (
			id, counterparty_id, entry_date, reference_type, reference_id,
			description, debit, credit, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.CounterpartyID,
		entry.EntryDate,
		entry.ReferenceType,
		entry.ReferenceID,
		entry.Description,
		entry.Debit,
		entry.Credit,
		entry.CreatedAt,
	)

	return err
}

// ListByCounterparty returns a counterparty's entries in ascending
// chronological order, the order balance accumulation requires.
func (r *LedgerRepository) ListByCounterparty(ctx context.Context, counterpartyID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, counterparty_id, entry_date, reference_type, reference_id,
		       description, debit, credit, created_at
		FROM ledger_entries
		WHERE counterparty_id = $1
		ORDER BY entry_date ASC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, counterpartyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.CounterpartyID,
			&entry.EntryDate,
			&entry.ReferenceType,
			&entry.ReferenceID,
			&entry.Description,
			&entry.Debit,
			&entry.Credit,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
