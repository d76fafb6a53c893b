package tokenmath

import "math"

// Advisory is a non-fatal budget problem shown next to the computed figures.
type Advisory string

const (
	AdvisoryBelowCommitted Advisory = "allocation below committed amount"
	AdvisoryExceedsBalance Advisory = "allocation exceeds available balance"
)

// BudgetAllocationInput describes an amount carved out of a collaborative or
// project balance. A nil TotalAvailableBalance means the balance is not known yet.
type BudgetAllocationInput struct {
	TotalAvailableBalance  *float64 `json:"totalAvailableBalance"`
	RequestedAmount        float64  `json:"requestedAmount"`
	AlreadyCommittedAmount float64  `json:"alreadyCommittedAmount"`
}

// BudgetAllocationResult holds the derived preview figures.
type BudgetAllocationResult struct {
	RemainingBalance         int64      `json:"remainingBalance"`
	PercentOfAvailable       float64    `json:"percentOfAvailable"`
	RemainingAfterCommitment int64      `json:"remainingAfterCommitment"`
	PercentCommitted         float64    `json:"percentCommitted"`
	Advisories               []Advisory `json:"advisories,omitempty"`
}

// Has reports whether the advisory was raised.
func (r BudgetAllocationResult) Has(a Advisory) bool {
	for _, got := range r.Advisories {
		if got == a {
			return true
		}
	}
	return false
}

// Balance is a convenience for filling BudgetAllocationInput.TotalAvailableBalance.
func Balance(v float64) *float64 {
	return &v
}

// BudgetAllocationPreview computes remaining balances and percentages for an allocation.
//
// ok is false when there is nothing to preview yet (no positive requested amount or
// no balance), which callers must keep distinct from a preview that computed zero.
// Advisories never suppress the figures.
func BudgetAllocationPreview(in BudgetAllocationInput) (res BudgetAllocationResult, ok bool) {
	if in.TotalAvailableBalance == nil {
		return BudgetAllocationResult{}, false
	}
	requested := Amount(in.RequestedAmount)
	if requested <= 0 {
		return BudgetAllocationResult{}, false
	}
	balance := Amount(*in.TotalAvailableBalance)
	committed := Amount(in.AlreadyCommittedAmount)

	res.RemainingBalance = roundInt(signed(balance - requested))
	if balance > 0 {
		res.PercentOfAvailable = requested / balance * 100
	}
	res.RemainingAfterCommitment = roundInt(math.Max(0, requested-committed))
	res.PercentCommitted = committed / requested * 100

	if requested < committed {
		res.Advisories = append(res.Advisories, AdvisoryBelowCommitted)
	}
	if requested > balance {
		res.Advisories = append(res.Advisories, AdvisoryExceedsBalance)
	}
	return res, true
}
