// Package pricing prices print runs: tiered quantity bands and the cost
// breakdown built on top of them.
package pricing

import "github.com/shopspring/decimal"

// JobInput represents the job-level values used to build a cost breakdown.
type JobInput struct {
	Sheets       uint64
	CostPerSheet decimal.Decimal
	PrintTotal   decimal.Decimal
	Quantity     uint32
}

// Rates represents the shop-wide pricing parameters shared across quotes.
type Rates struct {
	WastePercent  decimal.Decimal
	SetupFee      decimal.Decimal
	MarginPercent decimal.Decimal
	TaxEnabled    bool
	TaxPercent    decimal.Decimal
}

// Breakdown contains all intermediate and line-item values of the cost calculation.
type Breakdown struct {
	PaperCost decimal.Decimal `json:"paper_cost"`
	PrintCost decimal.Decimal `json:"print_cost"`
	SetupFee  decimal.Decimal `json:"setup_fee"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Margin    decimal.Decimal `json:"margin"`
	Tax       decimal.Decimal `json:"tax"`
}

// Totals contains roll-up values from the cost calculation.
type Totals struct {
	Total     decimal.Decimal `json:"total"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Result groups the full pricing output, including detailed breakdown and totals.
type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Totals    Totals    `json:"totals"`
}

// Calculate computes the cost breakdown of a job from its inputs and the shop rates.
func Calculate(job JobInput, rates Rates) Result {
	one := decimal.NewFromInt(1)

	paperCost := decimal.NewFromInt(int64(job.Sheets)).
		Mul(job.CostPerSheet).
		Mul(one.Add(rates.WastePercent.Div(hundred)))
	subtotal := paperCost.Add(job.PrintTotal).Add(rates.SetupFee)
	margin := rates.MarginPercent.Div(hundred).Mul(subtotal)

	tax := decimal.Zero
	if rates.TaxEnabled {
		tax = rates.TaxPercent.Div(hundred).Mul(subtotal.Add(margin))
	}

	total := subtotal.Add(margin).Add(tax)

	unit := decimal.Zero
	if job.Quantity > 0 {
		unit = total.Div(decimal.NewFromInt(int64(job.Quantity))).Round(4)
	}

	return Result{
		Breakdown: Breakdown{
			PaperCost: paperCost,
			PrintCost: job.PrintTotal,
			SetupFee:  rates.SetupFee,
			Subtotal:  subtotal,
			Margin:    margin,
			Tax:       tax,
		},
		Totals: Totals{Total: total, UnitPrice: unit},
	}
}
