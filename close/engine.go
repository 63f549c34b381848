// Package close implements the period-close engine (C10): accruals,
// depreciation, subledger reconciliation, and trial-balance snapshots for
// each fiscal period, with quarterly intercompany eliminations and annual
// closing entries layered on top.
package close

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// Engine runs period-close for a generation run, posting its own entries
// through the same balance.Tracker the transactional generators use
// rather than a parallel ledger, per spec's reversal/closing invariants.
type Engine struct {
	Tracker   *balance.Tracker
	Registry  *registry.Registry
	Namespace uuid.UUID

	AccruedLiabilityAccount       string
	DepreciationExpenseAccount    string
	AccumulatedDepreciationAccount string
	ReconciliationVarianceAccount string
	RetainedEarningsAccount       string
	ICReceivableAccount           string
	ICPayableAccount              string
	ICEliminationAccount          string

	AccrualAmount distribution.LogNormal

	toleranceCentsPerLine types.Decimal
	nextIndex             int
}

// NewEngine builds a close Engine wired to tracker and reg. Account codes
// default to a fixed set of codes, none of which registry.GenerateAccounts
// creates; override fields directly to match a given chart of accounts.
func NewEngine(tracker *balance.Tracker, reg *registry.Registry, namespace uuid.UUID) *Engine {
	return &Engine{
		Tracker:                        tracker,
		Registry:                       reg,
		Namespace:                      namespace,
		AccruedLiabilityAccount:        "2190",
		DepreciationExpenseAccount:     "5800",
		AccumulatedDepreciationAccount: "1590",
		ReconciliationVarianceAccount:  "5950",
		RetainedEarningsAccount:        "3900",
		ICReceivableAccount:            "1600",
		ICPayableAccount:               "2600",
		ICEliminationAccount:           "3800",
		AccrualAmount:                  distribution.LogNormal{Mu: 6, Sigma: 1, Min: types.NewFromInt(100), Max: types.NewFromInt(50000)},
		toleranceCentsPerLine:          types.NewDecimal(1, -2),
	}
}

// Result bundles everything ClosePeriod produced for one period.
type Result struct {
	Entries             []*journal.Entry
	TrialBalance        balance.TrialBalance
	ReconciliationDiffs map[string]types.Decimal
}

// ClosePeriod runs accrual, depreciation, subledger reconciliation, and a
// trial-balance snapshot for period across companies, in that order, per
// spec §4.10. subledgerTotals supplies independently computed subledger
// totals (AR/AP/FA/Inventory) keyed by control account code; a control
// account with no entry in the map is skipped, not flagged.
func (e *Engine) ClosePeriod(ctx context.Context, period balance.Period, periodEndDate time.Time, companies []string, assets []registry.FixedAsset, monthsElapsed int, subledgerTotals map[string]types.Decimal, quarterly, annual bool, stream *rng.Stream) (Result, error) {
	var entries []*journal.Entry

	accruals, err := e.runAccruals(companies, period, periodEndDate, stream)
	if err != nil {
		return Result{}, err
	}
	entries = append(entries, accruals...)

	depreciation := e.runDepreciation(companies, period, periodEndDate, assets, monthsElapsed)
	entries = append(entries, depreciation...)

	if len(entries) > 0 {
		batch := make([]journal.Entry, len(entries))
		for i, en := range entries {
			batch[i] = *en
		}
		if err := e.Tracker.Post(ctx, batch...); err != nil {
			return Result{}, fmt.Errorf("close: post accrual/depreciation: %w", err)
		}
	}

	tb, err := e.Tracker.Snapshot(ctx, period)
	if err != nil {
		return Result{}, fmt.Errorf("close: snapshot before reconciliation: %w", err)
	}

	recEntries, diffs := e.runReconciliation(companies, period, periodEndDate, tb, subledgerTotals)
	if len(recEntries) > 0 {
		batch := make([]journal.Entry, len(recEntries))
		for i, en := range recEntries {
			batch[i] = *en
		}
		if err := e.Tracker.Post(ctx, batch...); err != nil {
			return Result{}, fmt.Errorf("close: post reconciliation: %w", err)
		}
		entries = append(entries, recEntries...)
	}

	if quarterly {
		icEntries := e.runICEliminations(companies, period, periodEndDate, tb)
		if len(icEntries) > 0 {
			batch := make([]journal.Entry, len(icEntries))
			for i, en := range icEntries {
				batch[i] = *en
			}
			if err := e.Tracker.Post(ctx, batch...); err != nil {
				return Result{}, fmt.Errorf("close: post IC eliminations: %w", err)
			}
			entries = append(entries, icEntries...)
		}
	}

	if annual {
		closingEntries, err := e.runClosingEntries(companies, period, periodEndDate, tb)
		if err != nil {
			return Result{}, err
		}
		if len(closingEntries) > 0 {
			batch := make([]journal.Entry, len(closingEntries))
			for i, en := range closingEntries {
				batch[i] = *en
			}
			if err := e.Tracker.Post(ctx, batch...); err != nil {
				return Result{}, fmt.Errorf("close: post closing entries: %w", err)
			}
			entries = append(entries, closingEntries...)
		}
	}

	finalTB, err := e.Tracker.Snapshot(ctx, period)
	if err != nil {
		return Result{}, fmt.Errorf("close: final snapshot: %w", err)
	}

	return Result{Entries: entries, TrialBalance: finalTB, ReconciliationDiffs: diffs}, nil
}

func (e *Engine) newDocID(label string) id.ID {
	e.nextIndex++
	return id.New(e.Namespace, id.PrefixJournalEntry, "close/"+label, e.nextIndex)
}

func balancedEntry(docID id.ID, company string, period balance.Period, periodEndDate time.Time, debitAccount, creditAccount string, amount types.Decimal, description string) *journal.Entry {
	return &journal.Entry{
		DocID:        docID,
		Company:      company,
		FiscalYear:   period.FiscalYear,
		FiscalPeriod: period.FiscalPeriod,
		PostingDate:  periodEndDate,
		DocumentDate: periodEndDate,
		Source:       journal.SourceClose,
		Lines: []journal.Line{
			{Account: debitAccount, Debit: amount, AmountLC: amount, AmountTC: amount, Description: description},
			{Account: creditAccount, Credit: amount, AmountLC: amount, AmountTC: amount, Description: description},
		},
	}
}
