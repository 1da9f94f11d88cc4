package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/dto"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetStatement(ctx context.Context, counterpartyID string) (*usecase.Statement, error)
	AgingReport(ctx context.Context, kind domain.InvoiceKind, now time.Time) ([]usecase.AgingRow, error)
}

// LedgerHandler handles statement and aging report requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Statement returns a counterparty's running-balance statement.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing counterparty ID", "")
		return
	}

	statement, err := h.ledgerUC.GetStatement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromUseCase(statement))
}

// Aging returns the aging report for receivables or payables, selected by the
// kind query parameter.
func (h *LedgerHandler) Aging(w http.ResponseWriter, r *http.Request) {
	kind := domain.InvoiceKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = domain.InvoiceSale
	}
	if kind != domain.InvoiceSale && kind != domain.InvoicePurchase {
		writeError(w, http.StatusBadRequest, "invalid kind", "kind must be sale or purchase")
		return
	}

	rows, err := h.ledgerUC.AgingReport(r.Context(), kind, time.Now().UTC())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build aging report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AgingRowsFromUseCase(rows))
}
