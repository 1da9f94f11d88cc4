package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/dto"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

func TestInvoiceFromDomain(t *testing.T) {
	state := "36"
	inv := &domain.Invoice{
		ID:             "inv-1",
		Number:         "INV-2026-001",
		CounterpartyID: "cp-1",
		Kind:           domain.InvoiceSale,
		InvoiceDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		BuyerStateCode: &state,
		Lines: []domain.InvoiceLine{
			{
				ID:            "line-1",
				InvoiceID:     "inv-1",
				Description:   "Engine oil 5W-30",
				HSNCode:       "2710",
				Quantity:      decimal.NewFromInt(2),
				UnitPrice:     decimal.NewFromInt(500),
				TaxableAmount: decimal.NewFromInt(1000),
				RatePercent:   decimal.NewFromInt(18),
				CGST:          decimal.NewFromInt(90),
				SGST:          decimal.NewFromInt(90),
			},
		},
		TaxableTotal: decimal.NewFromInt(1000),
		TaxTotal:     decimal.NewFromInt(180),
		GrandTotal:   decimal.NewFromInt(1180),
		AmountPaid:   decimal.NewFromInt(180),
	}

	resp := dto.InvoiceFromDomain(inv)

	assert.Equal(t, "inv-1", resp.ID)
	assert.Equal(t, "sale", resp.Kind)
	assert.Equal(t, "1180.00", resp.GrandTotal)
	assert.Equal(t, "180.00", resp.AmountPaid)
	assert.Equal(t, "1000.00", resp.Outstanding)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "90.00", resp.Lines[0].CGST)
	assert.Equal(t, "90.00", resp.Lines[0].SGST)
	assert.Equal(t, "0.00", resp.Lines[0].IGST)
}

func TestStatementFromUseCase(t *testing.T) {
	debit := &domain.LedgerEntry{
		ID:            "le-1",
		ReferenceType: "invoice",
		Debit:         decimal.NewFromInt(1180),
		Credit:        decimal.Zero,
	}
	credit := &domain.LedgerEntry{
		ID:            "le-2",
		ReferenceType: "payment",
		Debit:         decimal.Zero,
		Credit:        decimal.NewFromInt(1500),
	}

	resp := dto.StatementFromUseCase(&usecase.Statement{
		CounterpartyID: "cp-1",
		Entries: []domain.BalancedEntry{
			{Entry: credit, Balance: decimal.NewFromInt(-320)},
			{Entry: debit, Balance: decimal.NewFromInt(1180)},
		},
		ClosingBalance: decimal.NewFromInt(-320),
	})

	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "320.00 Cr", resp.Entries[0].Balance)
	assert.Equal(t, "1180.00 Dr", resp.Entries[1].Balance)
	assert.Equal(t, "320.00 Cr", resp.ClosingBalance)
}

func TestUserFromDomain(t *testing.T) {
	user := &domain.User{
		ID:     "user-1",
		Email:  "ravi@dealerdesk.in",
		Name:   "Ravi",
		Roles:  []domain.Role{domain.RoleSales, domain.RoleFieldRep},
		Active: true,
	}

	resp := dto.UserFromDomain(user)

	assert.Equal(t, []string{"sales", "field_rep"}, resp.Roles)
	assert.True(t, resp.Active)
}

func TestVerifyGSTINRequestValue(t *testing.T) {
	tests := []struct {
		name string
		req  dto.VerifyGSTINRequest
		want string
	}{
		{"gstin field", dto.VerifyGSTINRequest{GSTIN: "36AABCM1234A1Z5"}, "36AABCM1234A1Z5"},
		{"gstNo alias", dto.VerifyGSTINRequest{GSTNo: "07AABCM1234A1Z5"}, "07AABCM1234A1Z5"},
		{"gstin wins over alias", dto.VerifyGSTINRequest{GSTIN: "36AABCM1234A1Z5", GSTNo: "07AABCM1234A1Z5"}, "36AABCM1234A1Z5"},
		{"blank gstin falls through", dto.VerifyGSTINRequest{GSTIN: "   ", GSTNo: "07AABCM1234A1Z5"}, "07AABCM1234A1Z5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Value())
		})
	}
}
