package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// VerifyGSTINRequest accepts both field spellings seen in the mobile and web
// clients.
type VerifyGSTINRequest struct {
	GSTIN string `json:"gstin"`
	GSTNo string `json:"gstNo"`
}

// Value returns whichever GSTIN field the client filled.
func (r VerifyGSTINRequest) Value() string {
	if strings.TrimSpace(r.GSTIN) != "" {
		return r.GSTIN
	}
	return r.GSTNo
}

// InvoiceLineRequest is one line of a new invoice.
type InvoiceLineRequest struct {
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	RatePercent decimal.Decimal `json:"rate_percent"`
}

// CreateInvoiceRequest posts a new invoice or supplier bill.
type CreateInvoiceRequest struct {
	Number         string               `json:"number"`
	CounterpartyID string               `json:"counterparty_id"`
	Kind           string               `json:"kind"`
	InvoiceDate    time.Time            `json:"invoice_date"`
	DueDate        *time.Time           `json:"due_date,omitempty"`
	BuyerStateCode *string              `json:"buyer_state_code,omitempty"`
	Lines          []InvoiceLineRequest `json:"lines"`
}

// ToUseCaseInput converts the request to use case input.
func (r CreateInvoiceRequest) ToUseCaseInput() usecase.CreateInvoiceInput {
	lines := make([]usecase.CreateInvoiceLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.CreateInvoiceLineInput{
			Description: l.Description,
			HSNCode:     l.HSNCode,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			RatePercent: l.RatePercent,
		}
	}

	return usecase.CreateInvoiceInput{
		Number:         r.Number,
		CounterpartyID: r.CounterpartyID,
		Kind:           domain.InvoiceKind(r.Kind),
		InvoiceDate:    r.InvoiceDate,
		DueDate:        r.DueDate,
		BuyerStateCode: r.BuyerStateCode,
		Lines:          lines,
	}
}

// RecordPaymentRequest applies a payment to an invoice.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Reference   string          `json:"reference,omitempty"`
}

// PointRequest is one GPS fix in a trail upload.
type PointRequest struct {
	RecordedAt time.Time `json:"recorded_at"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Accuracy   float64   `json:"accuracy"`
}

// RecordPointsRequest appends fixes to a session trail.
type RecordPointsRequest struct {
	Points []PointRequest `json:"points"`
}

// UserAdminRequest multiplexes the user administration endpoint through an
// action discriminator.
type UserAdminRequest struct {
	Action string   `json:"action"`
	UserID string   `json:"user_id,omitempty"`
	Email  string   `json:"email,omitempty"`
	Name   string   `json:"name,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}

// DomainRoles converts the request roles.
func (r UserAdminRequest) DomainRoles() []domain.Role {
	roles := make([]domain.Role, len(r.Roles))
	for i, s := range r.Roles {
		roles[i] = domain.Role(s)
	}
	return roles
}
