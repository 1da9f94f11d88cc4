package dto

import (
	"time"

	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// ErrorResponse is the error body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// VerifyGSTINResponse is the envelope the GSTIN verification endpoint
// returns, mirroring the provider's success/error shape.
type VerifyGSTINResponse struct {
	Success bool                 `json:"success"`
	Data    *domain.TaxpayerInfo `json:"data,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// InvoiceLineResponse is one invoice line with its computed tax split.
type InvoiceLineResponse struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	HSNCode       string `json:"hsn_code"`
	Quantity      string `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	TaxableAmount string `json:"taxable_amount"`
	RatePercent   string `json:"rate_percent"`
	CGST          string `json:"cgst"`
	SGST          string `json:"sgst"`
	IGST          string `json:"igst"`
}

// InvoiceResponse is a posted invoice.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	Number         string                `json:"number"`
	CounterpartyID string                `json:"counterparty_id"`
	Kind           string                `json:"kind"`
	InvoiceDate    time.Time             `json:"invoice_date"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	BuyerStateCode *string               `json:"buyer_state_code,omitempty"`
	Lines          []InvoiceLineResponse `json:"lines,omitempty"`
	TaxableTotal   string                `json:"taxable_total"`
	TaxTotal       string                `json:"tax_total"`
	GrandTotal     string                `json:"grand_total"`
	AmountPaid     string                `json:"amount_paid"`
	Outstanding    string                `json:"outstanding"`
	CreatedAt      time.Time             `json:"created_at"`
}

// InvoiceFromDomain converts a domain invoice to its response form.
func InvoiceFromDomain(inv *domain.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			ID:            l.ID,
			Description:   l.Description,
			HSNCode:       l.HSNCode,
			Quantity:      l.Quantity.StringFixed(2),
			UnitPrice:     l.UnitPrice.StringFixed(2),
			TaxableAmount: l.TaxableAmount.StringFixed(2),
			RatePercent:   l.RatePercent.StringFixed(2),
			CGST:          l.CGST.StringFixed(2),
			SGST:          l.SGST.StringFixed(2),
			IGST:          l.IGST.StringFixed(2),
		}
	}

	return InvoiceResponse{
		ID:             inv.ID,
		Number:         inv.Number,
		CounterpartyID: inv.CounterpartyID,
		Kind:           string(inv.Kind),
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		BuyerStateCode: inv.BuyerStateCode,
		Lines:          lines,
		TaxableTotal:   inv.TaxableTotal.StringFixed(2),
		TaxTotal:       inv.TaxTotal.StringFixed(2),
		GrandTotal:     inv.GrandTotal.StringFixed(2),
		AmountPaid:     inv.AmountPaid.StringFixed(2),
		Outstanding:    inv.Outstanding().StringFixed(2),
		CreatedAt:      inv.CreatedAt,
	}
}

// StatementEntryResponse is one ledger entry with the running balance as of
// that entry.
type StatementEntryResponse struct {
	ID            string    `json:"id"`
	EntryDate     time.Time `json:"entry_date"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	Description   string    `json:"description"`
	Debit         string    `json:"debit"`
	Credit        string    `json:"credit"`
	Balance       string    `json:"balance"`
}

// StatementResponse is a counterparty statement, newest entry first.
type StatementResponse struct {
	CounterpartyID string                   `json:"counterparty_id"`
	Entries        []StatementEntryResponse `json:"entries"`
	ClosingBalance string                   `json:"closing_balance"`
}

// StatementFromUseCase converts a statement to its response form. Balances
// carry the Dr/Cr suffix.
func StatementFromUseCase(st *usecase.Statement) StatementResponse {
	entries := make([]StatementEntryResponse, len(st.Entries))
	for i, be := range st.Entries {
		entries[i] = StatementEntryResponse{
			ID:            be.Entry.ID,
			EntryDate:     be.Entry.EntryDate,
			ReferenceType: be.Entry.ReferenceType,
			ReferenceID:   be.Entry.ReferenceID,
			Description:   be.Entry.Description,
			Debit:         be.Entry.Debit.StringFixed(2),
			Credit:        be.Entry.Credit.StringFixed(2),
			Balance:       domain.FormatBalance(be.Balance),
		}
	}

	return StatementResponse{
		CounterpartyID: st.CounterpartyID,
		Entries:        entries,
		ClosingBalance: domain.FormatBalance(st.ClosingBalance),
	}
}

// AgingRowResponse is one counterparty's row of the aging report.
type AgingRowResponse struct {
	CounterpartyID string `json:"counterparty_id"`
	Bucket         string `json:"bucket"`
	Outstanding    string `json:"outstanding"`
	MaxDaysOverdue int    `json:"max_days_overdue"`
	DocCount       int    `json:"doc_count"`
	Overdue        bool   `json:"overdue"`
}

// AgingRowsFromUseCase converts an aging report to its response form.
func AgingRowsFromUseCase(rows []usecase.AgingRow) []AgingRowResponse {
	out := make([]AgingRowResponse, len(rows))
	for i, r := range rows {
		out[i] = AgingRowResponse{
			CounterpartyID: r.CounterpartyID,
			Bucket:         r.Bucket,
			Outstanding:    r.Outstanding.StringFixed(2),
			MaxDaysOverdue: r.MaxDaysOverdue,
			DocCount:       r.DocCount,
			Overdue:        r.Overdue,
		}
	}
	return out
}

// SessionResponse is a duty session.
type SessionResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// SessionFromDomain converts a domain session to its response form.
func SessionFromDomain(s *domain.DutySession) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Status:    string(s.Status),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

// PointResponse is one GPS fix of a session trail.
type PointResponse struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Accuracy   float64   `json:"accuracy"`
}

// PointsFromDomain converts a trail to its response form.
func PointsFromDomain(points []*domain.LocationPoint) []PointResponse {
	out := make([]PointResponse, len(points))
	for i, p := range points {
		out[i] = PointResponse{
			ID:         p.ID,
			RecordedAt: p.RecordedAt,
			Lat:        p.Lat,
			Lng:        p.Lng,
			Accuracy:   p.Accuracy,
		}
	}
	return out
}

// RecordPointsResponse reports how many fixes of an upload were stored.
type RecordPointsResponse struct {
	Stored int `json:"stored"`
}

// UserResponse is a user account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromDomain converts a domain user to its response form.
func UserFromDomain(u *domain.User) UserResponse {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}

	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     roles,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UsersFromDomain converts a user list to its response form.
func UsersFromDomain(users []*domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = UserFromDomain(u)
	}
	return out
}

// CleanupResponse summarizes one location retention run.
type CleanupResponse struct {
	Message           string `json:"message"`
	SessionsProcessed int    `json:"sessions_processed"`
	PointsDeleted     int    `json:"points_deleted"`
}
