package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a single immutable debit or credit against a counterparty.
// Exactly one of Debit/Credit is non-zero for entries produced by this
// service, but the balance arithmetic does not rely on that.
type LedgerEntry struct {
	EntryDate      time.Time
	CreatedAt      time.Time
	ID             string
	CounterpartyID string
	ReferenceType  string // invoice, payment
	ReferenceID    string
	Description    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// BalancedEntry pairs an entry with the running balance after it was applied.
type BalancedEntry struct {
	Entry   *LedgerEntry
	Balance decimal.Decimal
}

// WithRunningBalance accumulates debit-credit over entries in ascending
// chronological order and returns them newest-first for display, each carrying
// the balance as of that entry. Positive balance means the counterparty owes
// us (Dr), negative means we owe them (Cr).
func WithRunningBalance(entries []*LedgerEntry) []BalancedEntry {
	balance := decimal.Zero

	result := make([]BalancedEntry, len(entries))
	for i, e := range entries {
		balance = balance.Add(e.Debit).Sub(e.Credit)
		// Fill back-to-front so the returned slice is newest-first.
		result[len(entries)-1-i] = BalancedEntry{Entry: e, Balance: balance}
	}

	return result
}

// ClosingBalance returns the balance after the last entry, zero for an empty
// ledger.
func ClosingBalance(entries []*LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Debit).Sub(e.Credit)
	}
	return balance
}

// FormatBalance renders a balance as its absolute value with a Dr/Cr suffix.
// An exactly-zero balance is rendered without a suffix.
func FormatBalance(balance decimal.Decimal) string {
	switch {
	case balance.IsPositive():
		return balance.StringFixed(2) + " Dr"
	case balance.IsNegative():
		return balance.Abs().StringFixed(2) + " Cr"
	default:
		return balance.StringFixed(2)
	}
}
