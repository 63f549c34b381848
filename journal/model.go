// Package journal implements the journal-entry data model and synthesizer
// (C7): balanced, multi-line entries assembled from document-flow
// transitions or generated directly to fill out direct-posting volume.
package journal

import (
	"time"

	"github.com/synthledger/core/id"
	"github.com/synthledger/core/types"
)

// Source classifies how an entry entered the books, per spec §3.
type Source int

const (
	SourceManual Source = iota
	SourceInterface
	SourceBatch
	SourceRecurring
	// SourceClose marks period-close-engine postings (accruals,
	// depreciation, closing entries) — not one of spec §3's four document
	// sources, but needed to let the anomaly injector exclude close
	// postings from its candidate pool (spec §9(b), resolved in DESIGN.md).
	SourceClose
)

func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceInterface:
		return "interface"
	case SourceBatch:
		return "batch"
	case SourceRecurring:
		return "recurring"
	case SourceClose:
		return "close"
	default:
		return "unknown"
	}
}

// Line is one leg of a journal entry. Exactly one of Debit/Credit is
// nonzero, per spec §3's per-line invariant.
type Line struct {
	Account     string        `json:"account"`
	CostCenter  string        `json:"cost_center,omitempty"`
	ProfitCenter string       `json:"profit_center,omitempty"`
	Debit       types.Decimal `json:"debit"`
	Credit      types.Decimal `json:"credit"`
	Description string        `json:"description"`
	AmountLC    types.Decimal `json:"amount_lc"`
	AmountTC    types.Decimal `json:"amount_tc"`
	Currency    string        `json:"currency"`
}

// Entry is a full journal entry header plus its balanced lines.
type Entry struct {
	DocID           id.ID     `json:"doc_id"`
	Company         string    `json:"company"`
	FiscalYear      int       `json:"fiscal_year"`
	FiscalPeriod    int       `json:"fiscal_period"`
	PostingDate     time.Time `json:"posting_date"`
	DocumentDate    time.Time `json:"document_date"`
	Source          Source    `json:"source"`
	CreatedBy       id.ID     `json:"created_by"`
	ApprovedBy      id.ID     `json:"approved_by,omitempty"`
	BusinessProcess string    `json:"business_process"`
	References      []id.ID   `json:"references,omitempty"`
	IsAnomaly       bool      `json:"is_anomaly"`
	AnomalyID       id.ID     `json:"anomaly_id,omitempty"`
	// ThreeWayMatchTolerance flags a P2P invoice-matched entry whose PO/GR
	// quantities or PO/invoice prices diverged beyond the configured
	// tolerances (spec §4.6).
	ThreeWayMatchTolerance bool   `json:"three_way_match_tolerance,omitempty"`
	Lines                  []Line `json:"lines"`
}

// SumDebits returns the sum of all line debits.
func (e Entry) SumDebits() types.Decimal {
	sum := types.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

// SumCredits returns the sum of all line credits.
func (e Entry) SumCredits() types.Decimal {
	sum := types.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}

// IsBalanced reports whether the entry's debits equal its credits exactly,
// per spec §8 P2.
func (e Entry) IsBalanced() bool {
	return e.SumDebits().Equal(e.SumCredits())
}
