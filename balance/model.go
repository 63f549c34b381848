package balance

import "github.com/synthledger/core/types"

// Period identifies a fiscal year/period pair, the unit the tracker and
// trial-balance snapshots key on.
type Period struct {
	FiscalYear   int
	FiscalPeriod int
}

// Key identifies one (company, account, period) balance cell, per spec §4.5.
type Key struct {
	Company string
	Account string
	Period  Period
}

// State is one account's running balance for a period: derived entirely
// from postings, never double-stored against a separate ledger.
type State struct {
	Key            Key
	Opening        types.Decimal
	PeriodDebits   types.Decimal
	PeriodCredits  types.Decimal
	Closing        types.Decimal
}

// TrialBalance is a point-in-time snapshot across every account touched in
// a period.
type TrialBalance struct {
	Period Period
	Lines  []State
}

// TotalDebits sums PeriodDebits across every line.
func (tb TrialBalance) TotalDebits() types.Decimal {
	sum := types.Zero
	for _, l := range tb.Lines {
		sum = sum.Add(l.PeriodDebits)
	}
	return sum
}

// TotalCredits sums PeriodCredits across every line.
func (tb TrialBalance) TotalCredits() types.Decimal {
	sum := types.Zero
	for _, l := range tb.Lines {
		sum = sum.Add(l.PeriodCredits)
	}
	return sum
}
