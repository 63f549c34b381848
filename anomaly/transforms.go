package anomaly

import (
	"strings"
	"time"

	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// idFactory mints a deterministic ID for an anomaly-generated document,
// scoping the label by a short suffix describing its role.
type idFactory func(suffix string) id.ID

// transformFunc applies one anomaly type to entry, returning the set of
// entries that should replace it in the output stream (length 1 for an
// in-place mutation, >1 when the transform splits or duplicates). It must
// not be called on an already-anomalous entry.
type transformFunc func(entry *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error)

var transforms = map[Type]transformFunc{
	TypeDuplicatePayment:     duplicatePayment,
	TypeStructuring:          structuring,
	TypeGhostVendor:          ghostVendor,
	TypeKickbackRouting:      kickbackRouting,
	TypeTransposedAmount:     transposedAmount,
	TypeWrongAccount:         wrongAccount,
	TypeDuplicateEntry:       duplicateEntry,
	TypeOffByOnePeriod:       offByOnePeriod,
	TypeSkippedApproval:      skippedApproval,
	TypeLateApproval:         lateApproval,
	TypeBypassedWorkflow:     bypassedWorkflow,
	TypeSplitPurchase:        splitPurchase,
	TypeRoundNumberSpike:     roundNumberSpike,
	TypeWeekendPosting:       weekendPosting,
	TypeAfterHoursPosting:    afterHoursPosting,
	TypeBenfordOutlier:       benfordOutlier,
	TypeSuspenseAbuse:        suspenseAbuse,
	TypeOrphanReference:      orphanReference,
	TypeUnmatchedReversal:    unmatchedReversal,
	TypeIntercompanyMismatch: intercompanyMismatch,
}

func cloneEntry(e *journal.Entry) *journal.Entry {
	clone := *e
	clone.Lines = append([]journal.Line(nil), e.Lines...)
	clone.References = append([]id.ID(nil), e.References...)
	return &clone
}

// duplicatePayment inserts a near-duplicate of a payment-clearing entry a
// minute later, per spec §4.9 step 3.
func duplicatePayment(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	dup := cloneEntry(e)
	dup.DocID = newID("duplicate")
	dup.PostingDate = e.PostingDate.Add(time.Minute)
	return []*journal.Entry{e, dup}, nil
}

// structuring splits one entry into three smaller entries, each carrying
// about a third of every line amount, whose lines sum back to the
// original's: a classic split-to-avoid-threshold pattern.
func structuring(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	const parts = 3
	out := make([]*journal.Entry, 0, parts)
	remaining := make([]types.Decimal, len(e.Lines))
	for i, l := range e.Lines {
		if l.Debit.IsPositive() {
			remaining[i] = l.Debit
		} else {
			remaining[i] = l.Credit
		}
	}
	for p := 0; p < parts; p++ {
		piece := cloneEntry(e)
		piece.DocID = newID("structured")
		piece.PostingDate = e.PostingDate
		for i := range piece.Lines {
			var share types.Decimal
			if p == parts-1 {
				share = remaining[i]
			} else {
				share = remaining[i].DivInt(int64(parts - p))
				remaining[i] = remaining[i].Sub(share)
			}
			if piece.Lines[i].Debit.IsPositive() {
				piece.Lines[i].Debit = share
			} else {
				piece.Lines[i].Credit = share
			}
			piece.Lines[i].AmountLC = share
			piece.Lines[i].AmountTC = share
		}
		out = append(out, piece)
	}
	return out, nil
}

// ghostVendor flags an entry as referencing a vendor absent from the
// master registry by clearing its document references.
func ghostVendor(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	out.References = nil
	return []*journal.Entry{out}, nil
}

// kickbackRouting retargets the credit leg to an off-books settlement
// account; the amount is untouched so the entry stays balanced.
func kickbackRouting(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	for i := range out.Lines {
		if out.Lines[i].Credit.IsPositive() {
			out.Lines[i].Account = "9800"
			break
		}
	}
	return []*journal.Entry{out}, nil
}

// transposedAmount swaps two adjacent digits in one line's amount and
// carries the same delta onto the opposite side so the entry still
// balances, matching the residual-correction technique the synthesizer
// itself uses.
func transposedAmount(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	if len(out.Lines) < 2 {
		return []*journal.Entry{out}, nil
	}
	debitIdx, creditIdx := -1, -1
	for i, l := range out.Lines {
		if debitIdx < 0 && l.Debit.IsPositive() {
			debitIdx = i
		}
		if creditIdx < 0 && l.Credit.IsPositive() {
			creditIdx = i
		}
	}
	if debitIdx < 0 || creditIdx < 0 {
		return []*journal.Entry{out}, nil
	}
	transposed, ok := transposeDigits(out.Lines[debitIdx].Debit)
	if !ok {
		return []*journal.Entry{out}, nil
	}
	delta := transposed.Sub(out.Lines[debitIdx].Debit)
	out.Lines[debitIdx].Debit = transposed
	out.Lines[debitIdx].AmountLC = transposed
	out.Lines[debitIdx].AmountTC = transposed
	out.Lines[creditIdx].Credit = out.Lines[creditIdx].Credit.Add(delta)
	out.Lines[creditIdx].AmountLC = out.Lines[creditIdx].Credit
	out.Lines[creditIdx].AmountTC = out.Lines[creditIdx].Credit
	return []*journal.Entry{out}, nil
}

// transposeDigits swaps the last two digits of amount's integer part, if
// it has at least two.
func transposeDigits(amount types.Decimal) (types.Decimal, bool) {
	str := amount.Abs().String()
	dot := strings.IndexByte(str, '.')
	intPart := str
	frac := ""
	if dot >= 0 {
		intPart = str[:dot]
		frac = str[dot:]
	}
	if len(intPart) < 2 {
		return amount, false
	}
	n := len(intPart)
	swapped := intPart[:n-2] + string(intPart[n-1]) + string(intPart[n-2]) + frac
	result, err := types.ParseDecimal(swapped)
	if err != nil {
		return amount, false
	}
	if amount.IsNegative() {
		result = result.Neg()
	}
	return result, true
}

// wrongAccount redirects one line to a plausible but incorrect account
// code, leaving amounts untouched.
func wrongAccount(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	if len(out.Lines) == 0 {
		return []*journal.Entry{out}, nil
	}
	i := stream.UniformInt(0, len(out.Lines)-1)
	out.Lines[i].Account = shiftAccountCode(out.Lines[i].Account)
	return []*journal.Entry{out}, nil
}

func shiftAccountCode(code string) string {
	if len(code) == 0 {
		return code
	}
	last := code[len(code)-1]
	if last == '9' {
		last = '0'
	} else {
		last++
	}
	return code[:len(code)-1] + string(last)
}

// duplicateEntry posts the exact same entry twice on the same date, an
// unambiguous processing error.
func duplicateEntry(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	dup := cloneEntry(e)
	dup.DocID = newID("dup-entry")
	return []*journal.Entry{e, dup}, nil
}

// offByOnePeriod shifts the entry's fiscal period back by one while
// leaving its posting date untouched, simulating a misattributed period.
func offByOnePeriod(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	out.FiscalPeriod--
	if out.FiscalPeriod < 1 {
		out.FiscalPeriod = 12
		out.FiscalYear--
	}
	return []*journal.Entry{out}, nil
}

// skippedApproval clears the approver on an entry that should have
// required one.
func skippedApproval(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	out.ApprovedBy = id.Nil
	return []*journal.Entry{out}, nil
}

// lateApproval pushes the posting date out, simulating approval arriving
// after the document was already economically effective.
func lateApproval(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	out.PostingDate = e.PostingDate.AddDate(0, 0, 5+stream.Intn(10))
	return []*journal.Entry{out}, nil
}

// bypassedWorkflow strips the source-document references from an entry
// that should have come from a document flow.
func bypassedWorkflow(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	out.References = nil
	out.BusinessProcess = "Direct"
	return []*journal.Entry{out}, nil
}

// splitPurchase breaks one entry into two, each just under the original,
// to dodge a purchase-approval threshold.
func splitPurchase(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	const parts = 2
	entries, err := structuring(e, stream, newID)
	if err != nil || len(entries) < parts {
		return entries, err
	}
	return entries[:parts], nil
}

// roundNumberSpike snaps every line of an entry toward a round-number
// anchor, reusing the round-number bias the amount distribution itself
// applies, then re-balances on the last line.
func roundNumberSpike(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	bias := distribution.RoundNumberBias{PRound: 1.0}
	debitSum, creditSum := types.Zero, types.Zero
	for i := range out.Lines {
		if out.Lines[i].Debit.IsPositive() {
			snapped := bias.Apply(out.Lines[i].Debit, stream)
			out.Lines[i].Debit = snapped
			out.Lines[i].AmountLC = snapped
			out.Lines[i].AmountTC = snapped
			debitSum = debitSum.Add(snapped)
		} else {
			snapped := bias.Apply(out.Lines[i].Credit, stream)
			out.Lines[i].Credit = snapped
			out.Lines[i].AmountLC = snapped
			out.Lines[i].AmountTC = snapped
			creditSum = creditSum.Add(snapped)
		}
	}
	residual := debitSum.Sub(creditSum)
	if len(out.Lines) > 0 {
		last := &out.Lines[len(out.Lines)-1]
		if last.Debit.IsPositive() {
			last.Debit = last.Debit.Sub(residual)
			last.AmountLC, last.AmountTC = last.Debit, last.Debit
		} else {
			last.Credit = last.Credit.Add(residual)
			last.AmountLC, last.AmountTC = last.Credit, last.Credit
		}
	}
	return []*journal.Entry{out}, nil
}

// weekendPosting moves an entry's posting date onto the first Saturday on
// or after it,
// a pattern legitimate workflow approvals shouldn't produce.
func weekendPosting(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	d := out.PostingDate
	for d.Weekday() != time.Saturday {
		d = d.AddDate(0, 0, 1)
	}
	out.PostingDate = d
	return []*journal.Entry{out}, nil
}

// afterHoursPosting moves an entry's document timestamp to late night.
func afterHoursPosting(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	d := out.DocumentDate
	out.DocumentDate = time.Date(d.Year(), d.Month(), d.Day(), 23, 45, 0, 0, d.Location())
	return []*journal.Entry{out}, nil
}

// benfordOutlier forces an amount's leading digit to 9, a value Benford's
// law assigns low probability, while re-balancing the opposite side.
func benfordOutlier(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	if len(out.Lines) < 2 {
		return []*journal.Entry{out}, nil
	}
	debitIdx, creditIdx := -1, -1
	for i, l := range out.Lines {
		if debitIdx < 0 && l.Debit.IsPositive() {
			debitIdx = i
		}
		if creditIdx < 0 && l.Credit.IsPositive() {
			creditIdx = i
		}
	}
	if debitIdx < 0 || creditIdx < 0 {
		return []*journal.Entry{out}, nil
	}
	forced, ok := forceLeadingDigit(out.Lines[debitIdx].Debit, '9')
	if !ok {
		return []*journal.Entry{out}, nil
	}
	delta := forced.Sub(out.Lines[debitIdx].Debit)
	out.Lines[debitIdx].Debit = forced
	out.Lines[debitIdx].AmountLC, out.Lines[debitIdx].AmountTC = forced, forced
	out.Lines[creditIdx].Credit = out.Lines[creditIdx].Credit.Add(delta)
	out.Lines[creditIdx].AmountLC, out.Lines[creditIdx].AmountTC = out.Lines[creditIdx].Credit, out.Lines[creditIdx].Credit
	return []*journal.Entry{out}, nil
}

func forceLeadingDigit(amount types.Decimal, digit byte) (types.Decimal, bool) {
	str := amount.Abs().String()
	dot := strings.IndexByte(str, '.')
	digits := str
	if dot >= 0 {
		digits = str[:dot] + str[dot+1:]
	}
	first := 0
	for first < len(digits) && digits[first] == '0' {
		first++
	}
	if first >= len(digits) {
		return amount, false
	}
	digits = digits[:first] + string(digit) + digits[first+1:]
	rebuilt := digits
	if dot >= 0 {
		rebuilt = digits[:dot] + "." + digits[dot:]
	}
	result, err := types.ParseDecimal(rebuilt)
	if err != nil {
		return amount, false
	}
	if amount.IsNegative() {
		result = result.Neg()
	}
	return result, true
}

// suspenseAbuse retargets a line into a suspense account, a common
// end-of-period "park it and forget it" pattern.
func suspenseAbuse(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	if len(out.Lines) == 0 {
		return []*journal.Entry{out}, nil
	}
	i := stream.UniformInt(0, len(out.Lines)-1)
	out.Lines[i].Account = "1999"
	return []*journal.Entry{out}, nil
}

// orphanReference appends a fabricated document reference that does not
// correspond to any generated document.
func orphanReference(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	out := cloneEntry(e)
	out.References = append(out.References, newID("orphan-ref"))
	return []*journal.Entry{out}, nil
}

// unmatchedReversal posts a reversal-shaped entry (debit/credit legs
// flipped) as a brand new document with no reference back to the entry it
// reverses.
func unmatchedReversal(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	reversal := cloneEntry(e)
	reversal.DocID = newID("unmatched-reversal")
	reversal.References = nil
	for i := range reversal.Lines {
		reversal.Lines[i].Debit, reversal.Lines[i].Credit = reversal.Lines[i].Credit, reversal.Lines[i].Debit
	}
	return []*journal.Entry{e, reversal}, nil
}

// intercompanyMismatch duplicates an entry under a different company with
// a slightly different amount, so the two legs of an intercompany
// transaction fail to net to zero.
func intercompanyMismatch(e *journal.Entry, stream *rng.Stream, newID idFactory) ([]*journal.Entry, error) {
	mirror := cloneEntry(e)
	mirror.DocID = newID("ic-mismatch")
	mirror.Company = mismatchCompany(e.Company)
	noise := 1.0 + (stream.Float64()-0.5)*0.02
	debitSum, creditSum := types.Zero, types.Zero
	for i := range mirror.Lines {
		if mirror.Lines[i].Debit.IsPositive() {
			mirror.Lines[i].Debit = types.NewFromFloat(mirror.Lines[i].Debit.Float64() * noise)
			mirror.Lines[i].AmountLC, mirror.Lines[i].AmountTC = mirror.Lines[i].Debit, mirror.Lines[i].Debit
			debitSum = debitSum.Add(mirror.Lines[i].Debit)
		} else {
			mirror.Lines[i].Credit = types.NewFromFloat(mirror.Lines[i].Credit.Float64() * noise)
			mirror.Lines[i].AmountLC, mirror.Lines[i].AmountTC = mirror.Lines[i].Credit, mirror.Lines[i].Credit
			creditSum = creditSum.Add(mirror.Lines[i].Credit)
		}
	}
	residual := debitSum.Sub(creditSum)
	if len(mirror.Lines) > 0 {
		last := &mirror.Lines[len(mirror.Lines)-1]
		if last.Debit.IsPositive() {
			last.Debit = last.Debit.Sub(residual)
			last.AmountLC, last.AmountTC = last.Debit, last.Debit
		} else {
			last.Credit = last.Credit.Add(residual)
			last.AmountLC, last.AmountTC = last.Credit, last.Credit
		}
	}
	return []*journal.Entry{e, mirror}, nil
}

func mismatchCompany(company string) string {
	if company == "" {
		return "IC99"
	}
	return company + "-IC"
}
