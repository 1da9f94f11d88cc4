package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// InvoiceUseCase posts invoices and payments, keeping the counterparty
// ledger in sync inside a single transaction.
type InvoiceUseCase struct {
	txManager   TransactionManager
	invoiceRepo InvoiceRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator

	// sellerStateCode decides intra vs inter-state tax on every line.
	sellerStateCode string
}

// NewInvoiceUseCase creates a new InvoiceUseCase.
func NewInvoiceUseCase(
	txManager TransactionManager,
	invoiceRepo InvoiceRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
	sellerStateCode string,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txManager:       txManager,
		invoiceRepo:     invoiceRepo,
		ledgerRepo:      ledgerRepo,
		idGen:           idGen,
		sellerStateCode: sellerStateCode,
	}
}

// CreateInvoiceLineInput is one line of a new invoice.
type CreateInvoiceLineInput struct {
	Description string
	HSNCode     string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	RatePercent decimal.Decimal
}

// CreateInvoiceInput describes a new invoice to post.
type CreateInvoiceInput struct {
	InvoiceDate    time.Time
	DueDate        *time.Time
	BuyerStateCode *string
	Number         string
	CounterpartyID string
	Kind           domain.InvoiceKind
	Lines          []CreateInvoiceLineInput
}

// CreateInvoice computes the GST split for every line, persists the invoice,
// and posts the matching ledger entry. Sales debit the counterparty, purchase
// bills credit them.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: invoice needs at least one line", domain.ErrInvalidAmount)
	}
	for _, line := range input.Lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) || line.UnitPrice.IsNegative() || line.RatePercent.IsNegative() {
			return nil, fmt.Errorf("%w: line %q", domain.ErrInvalidAmount, line.Description)
		}
	}

	now := time.Now().UTC()

	invoice := &domain.Invoice{
		ID:             uc.idGen.Generate(),
		Number:         input.Number,
		CounterpartyID: input.CounterpartyID,
		Kind:           input.Kind,
		InvoiceDate:    input.InvoiceDate,
		DueDate:        input.DueDate,
		BuyerStateCode: input.BuyerStateCode,
		TaxableTotal:   decimal.Zero,
		TaxTotal:       decimal.Zero,
		GrandTotal:     decimal.Zero,
		AmountPaid:     decimal.Zero,
		CreatedAt:      now,
	}

	for _, in := range input.Lines {
		taxable := in.Quantity.Mul(in.UnitPrice).Round(2)
		split := domain.ComputeGST(taxable, in.RatePercent, input.BuyerStateCode, uc.sellerStateCode)

		invoice.Lines = append(invoice.Lines, domain.InvoiceLine{
			ID:            uc.idGen.Generate(),
			InvoiceID:     invoice.ID,
			Description:   in.Description,
			HSNCode:       in.HSNCode,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			TaxableAmount: taxable,
			RatePercent:   in.RatePercent,
			CGST:          split.CGST,
			SGST:          split.SGST,
			IGST:          split.IGST,
		})

		invoice.TaxableTotal = invoice.TaxableTotal.Add(taxable)
		invoice.TaxTotal = invoice.TaxTotal.Add(split.TotalTax)
		invoice.GrandTotal = invoice.GrandTotal.Add(split.GrandTotal)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.invoiceRepo.Create(ctx, tx, invoice); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:             uc.idGen.Generate(),
		CounterpartyID: input.CounterpartyID,
		EntryDate:      input.InvoiceDate,
		CreatedAt:      now,
		ReferenceType:  "invoice",
		ReferenceID:    invoice.ID,
		Description:    fmt.Sprintf("Invoice %s", invoice.Number),
		Debit:          decimal.Zero,
		Credit:         decimal.Zero,
	}
	if input.Kind == domain.InvoiceSale {
		entry.Debit = invoice.GrandTotal
	} else {
		entry.Credit = invoice.GrandTotal
	}

	if err := uc.ledgerRepo.CreateEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return invoice, nil
}

// RecordPaymentInput describes a payment against an invoice.
type RecordPaymentInput struct {
	PaymentDate time.Time
	InvoiceID   string
	Amount      decimal.Decimal
	Reference   string
}

// RecordPayment applies a payment to an invoice and posts the balancing
// ledger entry: customer payments credit the counterparty, supplier payments
// debit them.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Invoice, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, tx, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	if input.Amount.GreaterThan(invoice.Outstanding()) {
		return nil, domain.ErrOverpayment
	}

	invoice.AmountPaid = invoice.AmountPaid.Add(input.Amount)
	if err := uc.invoiceRepo.UpdateAmountPaid(ctx, tx, invoice.ID, invoice.AmountPaid); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:             uc.idGen.Generate(),
		CounterpartyID: invoice.CounterpartyID,
		EntryDate:      input.PaymentDate,
		CreatedAt:      time.Now().UTC(),
		ReferenceType:  "payment",
		ReferenceID:    invoice.ID,
		Description:    fmt.Sprintf("Payment against %s", invoice.Number),
		Debit:          decimal.Zero,
		Credit:         decimal.Zero,
	}
	if invoice.Kind == domain.InvoiceSale {
		entry.Credit = input.Amount
	} else {
		entry.Debit = input.Amount
	}

	if err := uc.ledgerRepo.CreateEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return invoice, nil
}

// GetInvoice fetches an invoice with its lines.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.invoiceRepo.GetByID(ctx, id)
}
