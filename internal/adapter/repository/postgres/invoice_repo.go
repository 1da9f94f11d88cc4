package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// InvoiceRepository implements invoice persistence.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `
	id, number, counterparty_id, kind, invoice_date, due_date, buyer_state_code,
	taxable_total, tax_total, grand_total, amount_paid, created_at
`

// Create inserts an invoice and its lines inside the caller's transaction.
func (r *InvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := pgxTx.Exec(ctx, query,
		invoice.ID,
		invoice.Number,
		invoice.CounterpartyID,
		invoice.Kind,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.BuyerStateCode,
		invoice.TaxableTotal,
		invoice.TaxTotal,
		invoice.GrandTotal,
		invoice.AmountPaid,
		invoice.CreatedAt,
	)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO invoice_lines (
			id, invoice_id, description, hsn_code, quantity, unit_price,
			taxable_amount, rate_percent, cgst, sgst, igst
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, line := range invoice.Lines {
		_, err := pgxTx.Exec(ctx, lineQuery,
			line.ID,
			line.InvoiceID,
			line.Description,
			line.HSNCode,
			line.Quantity,
			line.UnitPrice,
			line.TaxableAmount,
			line.RatePercent,
			line.CGST,
			line.SGST,
			line.IGST,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.CounterpartyID,
		&inv.Kind,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.BuyerStateCode,
		&inv.TaxableTotal,
		&inv.TaxTotal,
		&inv.GrandTotal,
		&inv.AmountPaid,
		&inv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID retrieves an invoice with its lines.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines

	return inv, nil
}

// GetByIDForUpdate retrieves an invoice with a FOR UPDATE lock. Lines are not
// loaded; payment recording only touches the header.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`

	return scanInvoice(pgxTx.QueryRow(ctx, query, id))
}

// UpdateAmountPaid sets the paid total inside the caller's transaction.
func (r *InvoiceRepository) UpdateAmountPaid(ctx context.Context, tx usecase.Transaction, id string, amountPaid decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE invoices SET amount_paid = $2 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, amountPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// ListOutstanding returns unsettled invoices of a kind, projected to the
// fields the aging report consumes, ordered by invoice date ascending so the
// oldest documents group first.
func (r *InvoiceRepository) ListOutstanding(ctx context.Context, kind domain.InvoiceKind) ([]domain.OutstandingDoc, error) {
	query := `
		SELECT id, counterparty_id, invoice_date, due_date, grand_total, amount_paid
		FROM invoices
		WHERE kind = $1 AND grand_total - amount_paid > 0.01
		ORDER BY invoice_date ASC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.OutstandingDoc
	for rows.Next() {
		var doc domain.OutstandingDoc
		err := rows.Scan(
			&doc.ID,
			&doc.CounterpartyID,
			&doc.InvoiceDate,
			&doc.DueDate,
			&doc.Total,
			&doc.Paid,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (r *InvoiceRepository) listLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, description, hsn_code, quantity, unit_price,
		       taxable_amount, rate_percent, cgst, sgst, igst
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.InvoiceLine
	for rows.Next() {
		var line domain.InvoiceLine
		err := rows.Scan(
			&line.ID,
			&line.InvoiceID,
			&line.Description,
			&line.HSNCode,
			&line.Quantity,
			&line.UnitPrice,
			&line.TaxableAmount,
			&line.RatePercent,
			&line.CGST,
			&line.SGST,
			&line.IGST,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
