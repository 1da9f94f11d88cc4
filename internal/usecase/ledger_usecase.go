package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// LedgerUseCase serves counterparty statements and aging reports.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	invoiceRepo InvoiceRepository

	receivableSchedule domain.AgingSchedule
	payableSchedule    domain.AgingSchedule
	overdueCutoffDays  int
}

// NewLedgerUseCase creates a new LedgerUseCase. The schedules come from the
// configured cutoff tables; sales invoices age against receivable, supplier
// bills against payable.
func NewLedgerUseCase(
	ledgerRepo LedgerRepository,
	invoiceRepo InvoiceRepository,
	receivableSchedule, payableSchedule domain.AgingSchedule,
	overdueCutoffDays int,
) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:         ledgerRepo,
		invoiceRepo:        invoiceRepo,
		receivableSchedule: receivableSchedule,
		payableSchedule:    payableSchedule,
		overdueCutoffDays:  overdueCutoffDays,
	}
}

// Statement is a counterparty ledger with running balances, newest entry
// first.
type Statement struct {
	CounterpartyID string
	Entries        []domain.BalancedEntry
	ClosingBalance decimal.Decimal
}

// GetStatement builds the running-balance statement for one counterparty.
func (uc *LedgerUseCase) GetStatement(ctx context.Context, counterpartyID string) (*Statement, error) {
	entries, err := uc.ledgerRepo.ListByCounterparty(ctx, counterpartyID)
	if err != nil {
		return nil, err
	}

	return &Statement{
		CounterpartyID: counterpartyID,
		Entries:        domain.WithRunningBalance(entries),
		ClosingBalance: domain.ClosingBalance(entries),
	}, nil
}

// AgingRow is one counterparty's slice of the aging report.
type AgingRow struct {
	CounterpartyID string
	Bucket         string
	Outstanding    decimal.Decimal
	MaxDaysOverdue int
	DocCount       int
	Overdue        bool
}

// AgingReport groups outstanding documents of the given kind by counterparty
// and buckets each group by its oldest document.
func (uc *LedgerUseCase) AgingReport(ctx context.Context, kind domain.InvoiceKind, now time.Time) ([]AgingRow, error) {
	docs, err := uc.invoiceRepo.ListOutstanding(ctx, kind)
	if err != nil {
		return nil, err
	}

	schedule := uc.receivableSchedule
	if kind == domain.InvoicePurchase {
		schedule = uc.payableSchedule
	}

	groups := domain.AggregateAging(now, docs)

	rows := make([]AgingRow, len(groups))
	for i, g := range groups {
		rows[i] = AgingRow{
			CounterpartyID: g.CounterpartyID,
			Bucket:         schedule.Bucket(g.MaxDaysOverdue),
			Outstanding:    g.Outstanding,
			MaxDaysOverdue: g.MaxDaysOverdue,
			DocCount:       g.DocCount,
			Overdue:        domain.IsOverdue(g.MaxDaysOverdue, uc.overdueCutoffDays, g.Outstanding),
		}
	}

	return rows, nil
}
