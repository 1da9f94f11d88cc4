package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/dto"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

type ledgerServiceStub struct {
	statementFn func(ctx context.Context, counterpartyID string) (*usecase.Statement, error)
	agingFn     func(ctx context.Context, kind domain.InvoiceKind, now time.Time) ([]usecase.AgingRow, error)
}

func (s *ledgerServiceStub) GetStatement(ctx context.Context, counterpartyID string) (*usecase.Statement, error) {
	return s.statementFn(ctx, counterpartyID)
}

func (s *ledgerServiceStub) AgingReport(ctx context.Context, kind domain.InvoiceKind, now time.Time) ([]usecase.AgingRow, error) {
	return s.agingFn(ctx, kind, now)
}

func TestLedgerHandler_Statement(t *testing.T) {
	entry := &domain.LedgerEntry{
		ID:             "le-1",
		CounterpartyID: "cp-1",
		ReferenceType:  "invoice",
		ReferenceID:    "inv-1",
		Debit:          decimal.NewFromInt(1180),
		Credit:         decimal.Zero,
	}

	handler := NewLedgerHandler(&ledgerServiceStub{
		statementFn: func(ctx context.Context, counterpartyID string) (*usecase.Statement, error) {
			if counterpartyID != "cp-1" {
				t.Fatalf("expected counterparty cp-1, got %s", counterpartyID)
			}
			return &usecase.Statement{
				CounterpartyID: "cp-1",
				Entries: []domain.BalancedEntry{
					{Entry: entry, Balance: decimal.NewFromInt(1180)},
				},
				ClosingBalance: decimal.NewFromInt(1180),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/counterparties/cp-1/statement", nil)
	req = setChiURLParam(req, "id", "cp-1")
	rec := httptest.NewRecorder()

	handler.Statement(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ClosingBalance != "1180.00 Dr" {
		t.Fatalf("expected closing balance 1180.00 Dr, got %s", resp.ClosingBalance)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Balance != "1180.00 Dr" {
		t.Fatalf("unexpected entries: %+v", resp.Entries)
	}
}

func TestLedgerHandler_Aging_DefaultsToReceivables(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		agingFn: func(ctx context.Context, kind domain.InvoiceKind, now time.Time) ([]usecase.AgingRow, error) {
			if kind != domain.InvoiceSale {
				t.Fatalf("expected sale kind by default, got %s", kind)
			}
			return []usecase.AgingRow{
				{
					CounterpartyID: "cp-1",
					Bucket:         "90+ days",
					Outstanding:    decimal.NewFromInt(1000),
					MaxDaysOverdue: 121,
					DocCount:       2,
					Overdue:        true,
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/aging", nil)
	rec := httptest.NewRecorder()

	handler.Aging(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rows []dto.AgingRowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != 1 || rows[0].Bucket != "90+ days" || !rows[0].Overdue {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestLedgerHandler_Aging_Payables(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		agingFn: func(ctx context.Context, kind domain.InvoiceKind, now time.Time) ([]usecase.AgingRow, error) {
			if kind != domain.InvoicePurchase {
				t.Fatalf("expected purchase kind, got %s", kind)
			}
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/aging?kind=purchase", nil)
	rec := httptest.NewRecorder()

	handler.Aging(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLedgerHandler_Aging_InvalidKind(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		agingFn: func(ctx context.Context, kind domain.InvoiceKind, now time.Time) ([]usecase.AgingRow, error) {
			t.Fatal("AgingReport should not be called for an invalid kind")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/reports/aging?kind=rental", nil)
	rec := httptest.NewRecorder()

	handler.Aging(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
