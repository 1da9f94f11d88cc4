package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind separates customer invoices (receivables) from supplier bills
// (payables). Both share the same line/tax arithmetic.
type InvoiceKind string

const (
	InvoiceSale     InvoiceKind = "sale"
	InvoicePurchase InvoiceKind = "purchase"
)

// InvoiceLine is one taxed line of an invoice. The split fields are computed
// at posting time and immutable afterwards.
type InvoiceLine struct {
	ID            string
	InvoiceID     string
	Description   string
	HSNCode       string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TaxableAmount decimal.Decimal
	RatePercent   decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
}

// Invoice is a posted financial document against a counterparty.
type Invoice struct {
	InvoiceDate    time.Time
	DueDate        *time.Time
	CreatedAt      time.Time
	BuyerStateCode *string
	ID             string
	Number         string
	CounterpartyID string
	Kind           InvoiceKind
	Lines          []InvoiceLine
	TaxableTotal   decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	AmountPaid     decimal.Decimal
}

// Outstanding is the unpaid portion of the invoice.
func (inv *Invoice) Outstanding() decimal.Decimal {
	return Outstanding(inv.GrandTotal, inv.AmountPaid)
}
