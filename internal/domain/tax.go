package domain

import "github.com/shopspring/decimal"

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// TaxSplit is the GST breakdown for a single taxable amount.
// Exactly one side of the split is populated: CGST+SGST for intra-state
// supplies, IGST for inter-state.
type TaxSplit struct {
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	TotalTax   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeGST splits the tax on taxable at ratePercent (e.g. 18 for 18%)
// between CGST/SGST or IGST depending on whether the buyer and seller are in
// the same state. A nil buyer state is treated as inter-state.
//
// When an intra-state total has an odd number of paise, CGST takes the floored
// half and SGST the remainder, so the two halves always sum to TotalTax.
// Downstream reconciliation depends on this exact rounding, do not change it.
func ComputeGST(taxable, ratePercent decimal.Decimal, buyerState *string, sellerState string) TaxSplit {
	totalTax := taxable.Mul(ratePercent).Div(hundred).Round(2)

	split := TaxSplit{
		TotalTax:   totalTax,
		GrandTotal: taxable.Add(totalTax).Round(2),
	}

	if buyerState != nil && *buyerState == sellerState {
		split.CGST = totalTax.Div(two).Truncate(2)
		split.SGST = totalTax.Sub(split.CGST).Round(2)
	} else {
		split.IGST = totalTax
	}

	return split
}
