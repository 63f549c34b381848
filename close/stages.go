package close

import (
	"time"

	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// runAccruals posts one accrued-expense entry per company, per spec
// §4.10's "monthly accruals" step.
func (e *Engine) runAccruals(companies []string, period balance.Period, periodEndDate time.Time, stream *rng.Stream) ([]*journal.Entry, error) {
	entries := make([]*journal.Entry, 0, len(companies))
	for _, company := range companies {
		amount := e.AccrualAmount.Sample(stream)
		docID := e.newDocID("accrual")
		entries = append(entries, balancedEntry(docID, company, period, periodEndDate, accrualExpenseAccount, e.AccruedLiabilityAccount, amount, "period-end accrual"))
	}
	return entries, nil
}

// accrualExpenseAccount is the generic expense account accrual entries
// debit; close doesn't pick a specific operating category since the
// accrual itself is a period-end estimate, not tied to one transaction.
const accrualExpenseAccount = "5700"

// runDepreciation posts one aggregate depreciation entry per company,
// splitting the total monthly depreciation across assets evenly across
// companies since FixedAsset records are not company-scoped, per spec
// §4.10's three-method depreciation step.
func (e *Engine) runDepreciation(companies []string, period balance.Period, periodEndDate time.Time, assets []registry.FixedAsset, monthsElapsed int) []*journal.Entry {
	if len(companies) == 0 || len(assets) == 0 {
		return nil
	}
	total := types.Zero
	for _, a := range assets {
		total = total.Add(monthlyDepreciation(a, monthsElapsed))
	}
	if !total.IsPositive() {
		return nil
	}

	perCompany := total.DivInt(int64(len(companies)))
	entries := make([]*journal.Entry, 0, len(companies))
	for _, company := range companies {
		docID := e.newDocID("depreciation")
		entries = append(entries, balancedEntry(docID, company, period, periodEndDate, e.DepreciationExpenseAccount, e.AccumulatedDepreciationAccount, perCompany, "monthly depreciation"))
	}
	return entries
}

// runReconciliation compares each control account's GL balance against an
// independently supplied subledger total, posting a correcting entry
// (and recording the diff) when they disagree by more than
// rounding_tolerance = 1 cent × the number of control accounts checked,
// per spec §4.10.
func (e *Engine) runReconciliation(companies []string, period balance.Period, periodEndDate time.Time, tb balance.TrialBalance, subledgerTotals map[string]types.Decimal) ([]*journal.Entry, map[string]types.Decimal) {
	if len(subledgerTotals) == 0 {
		return nil, nil
	}
	tolerance := e.toleranceCentsPerLine.MulInt(int64(len(subledgerTotals)))

	glBalance := make(map[string]types.Decimal)
	for _, line := range tb.Lines {
		glBalance[line.Key.Account] = glBalance[line.Key.Account].Add(line.Closing)
	}

	var entries []*journal.Entry
	diffs := make(map[string]types.Decimal)
	for code, subledgerTotal := range subledgerTotals {
		diff := subledgerTotal.Sub(glBalance[code])
		if diff.Abs().LessThan(tolerance) || diff.Abs().Equal(tolerance) {
			continue
		}
		diffs[code] = diff
		for _, company := range companies {
			docID := e.newDocID("reconciliation")
			amount := diff.Abs()
			var entry *journal.Entry
			if diff.IsPositive() {
				entry = balancedEntry(docID, company, period, periodEndDate, code, e.ReconciliationVarianceAccount, amount, "subledger reconciliation adjustment")
			} else {
				entry = balancedEntry(docID, company, period, periodEndDate, e.ReconciliationVarianceAccount, code, amount, "subledger reconciliation adjustment")
			}
			entries = append(entries, entry)
		}
	}
	return entries, diffs
}

// runICEliminations posts, quarterly per spec §4.10, one entry in the
// first company that debits the elimination account and credits the
// intercompany receivable by the smaller of the receivable and payable
// balances. The payable balance is not posted to.
func (e *Engine) runICEliminations(companies []string, period balance.Period, periodEndDate time.Time, tb balance.TrialBalance) []*journal.Entry {
	if len(companies) < 2 {
		return nil
	}
	var receivable, payable types.Decimal
	for _, line := range tb.Lines {
		switch line.Key.Account {
		case e.ICReceivableAccount:
			receivable = receivable.Add(line.Closing)
		case e.ICPayableAccount:
			payable = payable.Add(line.Closing.Abs())
		}
	}
	amount := receivable.Min(payable)
	if !amount.IsPositive() {
		return nil
	}
	docID := e.newDocID("ic-elimination")
	return []*journal.Entry{
		balancedEntry(docID, companies[0], period, periodEndDate, e.ICEliminationAccount, e.ICReceivableAccount, amount, "intercompany elimination"),
	}
}

// runClosingEntries zeros every Revenue/Expense account into retained
// earnings, annually per spec §4.10.
func (e *Engine) runClosingEntries(companies []string, period balance.Period, periodEndDate time.Time, tb balance.TrialBalance) ([]*journal.Entry, error) {
	byCompanyAccount := make(map[string]map[string]types.Decimal)
	for _, line := range tb.Lines {
		acct, ok := e.Registry.AccountByCode(line.Key.Account)
		if !ok || (acct.Type != registry.Revenue && acct.Type != registry.Expense) {
			continue
		}
		if byCompanyAccount[line.Key.Company] == nil {
			byCompanyAccount[line.Key.Company] = make(map[string]types.Decimal)
		}
		byCompanyAccount[line.Key.Company][line.Key.Account] = byCompanyAccount[line.Key.Company][line.Key.Account].Add(line.Closing)
	}

	var entries []*journal.Entry
	for _, company := range companies {
		accounts := byCompanyAccount[company]
		if len(accounts) == 0 {
			continue
		}
		entry := &journal.Entry{
			DocID:        e.newDocID("annual-close"),
			Company:      company,
			FiscalYear:   period.FiscalYear,
			FiscalPeriod: period.FiscalPeriod,
			PostingDate:  periodEndDate,
			DocumentDate: periodEndDate,
			Source:       journal.SourceClose,
		}
		netIncome := types.Zero
		for code, closing := range accounts {
			// closing is (debits - credits); revenue carries a natural
			// credit balance so its closing is negative, expense positive.
			line := journal.Line{Account: code, Description: "annual close"}
			if closing.IsPositive() {
				line.Credit = closing
			} else {
				line.Debit = closing.Abs()
			}
			line.AmountLC, line.AmountTC = line.Debit, line.Debit
			if line.Credit.IsPositive() {
				line.AmountLC, line.AmountTC = line.Credit, line.Credit
			}
			entry.Lines = append(entry.Lines, line)
			netIncome = netIncome.Sub(closing) // revenue(-) becomes +income, expense(+) becomes -income
		}
		reLine := journal.Line{Account: e.RetainedEarningsAccount, Description: "transfer net income to retained earnings"}
		if netIncome.IsPositive() {
			reLine.Credit = netIncome
		} else {
			reLine.Debit = netIncome.Abs()
		}
		reLine.AmountLC, reLine.AmountTC = reLine.Debit, reLine.Debit
		if reLine.Credit.IsPositive() {
			reLine.AmountLC, reLine.AmountTC = reLine.Credit, reLine.Credit
		}
		entry.Lines = append(entry.Lines, reLine)

		if !entry.IsBalanced() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
