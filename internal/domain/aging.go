package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// settledEpsilon is the tolerance below which an outstanding amount is
// considered fully paid. Totals come out of floating-point front-ends, so a
// strict zero comparison would keep settled documents alive forever.
var settledEpsilon = decimal.NewFromFloat(0.01)

// AgingThreshold maps a minimum overdue age in days to a bucket label.
type AgingThreshold struct {
	MinDays int
	Label   string
}

// AgingSchedule is an ordered bucket table. Thresholds must be sorted by
// MinDays descending; BaseLabel is returned when no threshold matches.
type AgingSchedule struct {
	Thresholds []AgingThreshold
	BaseLabel  string
}

// Bucket returns the label of the first threshold whose MinDays is strictly
// less than daysOverdue. The comparison is strict, an invoice at exactly 90
// days still belongs to the 60-90 bucket.
func (s AgingSchedule) Bucket(daysOverdue int) string {
	for _, t := range s.Thresholds {
		if t.MinDays < daysOverdue {
			return t.Label
		}
	}
	return s.BaseLabel
}

// NewAgingSchedule builds a schedule from a cutoff-day list, deriving the
// bucket labels: "0-30 days", "30-60 days", ..., "<last>+ days". The cutoffs
// may arrive in any order; duplicates collapse into one threshold.
func NewAgingSchedule(cutoffDays []int) AgingSchedule {
	sorted := slices.Clone(cutoffDays)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	if len(sorted) == 0 {
		return AgingSchedule{BaseLabel: "Current"}
	}

	thresholds := make([]AgingThreshold, 0, len(sorted)+1)
	for i := len(sorted) - 1; i >= 0; i-- {
		label := fmt.Sprintf("%d+ days", sorted[i])
		if i < len(sorted)-1 {
			label = fmt.Sprintf("%d-%d days", sorted[i], sorted[i+1])
		}
		thresholds = append(thresholds, AgingThreshold{MinDays: sorted[i], Label: label})
	}
	thresholds = append(thresholds, AgingThreshold{MinDays: 0, Label: fmt.Sprintf("0-%d days", sorted[0])})

	return AgingSchedule{Thresholds: thresholds, BaseLabel: "Current"}
}

// DefaultReceivableCutoffs is the 30/60/90 table applied to sales invoices
// unless overridden in configuration.
var DefaultReceivableCutoffs = []int{30, 60, 90}

// DefaultPayableCutoffs is the extended table applied to supplier bills,
// which commonly age far past the receivable horizon.
var DefaultPayableCutoffs = []int{30, 60, 90, 120, 180, 360}

// ReceivableSchedule is the default schedule applied to sales invoices.
func ReceivableSchedule() AgingSchedule {
	return NewAgingSchedule(DefaultReceivableCutoffs)
}

// PayableSchedule is the default schedule applied to supplier bills.
func PayableSchedule() AgingSchedule {
	return NewAgingSchedule(DefaultPayableCutoffs)
}

// DaysOverdue counts whole days elapsed since dueDate, falling back to
// invoiceDate when no due date was set. Ages in the future come out negative.
func DaysOverdue(now time.Time, invoiceDate time.Time, dueDate *time.Time) int {
	ref := invoiceDate
	if dueDate != nil {
		ref = *dueDate
	}
	return int(now.Sub(ref).Hours() / 24)
}

// Outstanding is the unpaid portion of a document.
func Outstanding(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

// IsSettled reports whether an outstanding amount is effectively zero.
func IsSettled(outstanding decimal.Decimal) bool {
	return outstanding.LessThanOrEqual(settledEpsilon)
}

// IsOverdue reports whether a document has crossed the hard overdue cutoff.
// Settled documents are never overdue regardless of age.
func IsOverdue(daysOverdue, cutoffDays int, outstanding decimal.Decimal) bool {
	return daysOverdue > cutoffDays && !IsSettled(outstanding)
}

// OutstandingDoc is the slice of a financial document the aging report needs.
type OutstandingDoc struct {
	InvoiceDate    time.Time
	DueDate        *time.Time
	ID             string
	CounterpartyID string
	Total          decimal.Decimal
	Paid           decimal.Decimal
}

// CounterpartyAging aggregates a counterparty's qualifying documents.
type CounterpartyAging struct {
	CounterpartyID string
	Outstanding    decimal.Decimal
	MaxDaysOverdue int
	DocCount       int
}

// AggregateAging groups outstanding documents by counterparty, summing the
// outstanding amount and tracking the oldest overdue age. Settled documents
// are skipped. Group order follows first appearance in docs.
func AggregateAging(now time.Time, docs []OutstandingDoc) []CounterpartyAging {
	index := make(map[string]int)
	var result []CounterpartyAging

	for _, doc := range docs {
		outstanding := Outstanding(doc.Total, doc.Paid)
		if IsSettled(outstanding) {
			continue
		}

		days := DaysOverdue(now, doc.InvoiceDate, doc.DueDate)

		i, ok := index[doc.CounterpartyID]
		if !ok {
			i = len(result)
			index[doc.CounterpartyID] = i
			result = append(result, CounterpartyAging{
				CounterpartyID: doc.CounterpartyID,
				Outstanding:    decimal.Zero,
				MaxDaysOverdue: days,
			})
		}

		result[i].Outstanding = result[i].Outstanding.Add(outstanding)
		result[i].DocCount++
		if days > result[i].MaxDaysOverdue {
			result[i].MaxDaysOverdue = days
		}
	}

	return result
}
