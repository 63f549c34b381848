package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// maxBalanceRetries bounds the amount-resample loop before the entry is
// discarded, per spec §4.7.
const maxBalanceRetries = 4

// roundingTolerancePerLine is the per-line slack the final line's residual
// may absorb, per spec §4.7 ("never exceeds rounding_tolerance = 1 cent ×
// line_count").
var roundingTolerancePerLine = types.NewDecimal(1, -2)

// Synthesizer turns document-flow transitions and direct postings into
// balanced multi-line journal entries, per spec §4.7.
type Synthesizer struct {
	Templates         TemplateSet
	LineCountDist     *distribution.Empirical
	AmountDist        distribution.LogNormal
	Employees         []registry.Employee
	ApprovalLadder    []types.Decimal // ascending thresholds; index i needs approval level i+1
	Namespace         uuid.UUID
}

// NewSynthesizer builds a Synthesizer with the given templates and
// employee roster for created_by/approved_by attribution.
func NewSynthesizer(templates TemplateSet, lineCountDist *distribution.Empirical, amountDist distribution.LogNormal, employees []registry.Employee, approvalLadder []types.Decimal, namespace uuid.UUID) *Synthesizer {
	return &Synthesizer{
		Templates:      templates,
		LineCountDist:  lineCountDist,
		AmountDist:     amountDist,
		Employees:      employees,
		ApprovalLadder: approvalLadder,
		Namespace:      namespace,
	}
}

// FromTransition synthesizes the entry for a document-flow transition that
// has an accounting impact, referencing doc as the entry's source document.
func (s *Synthesizer) FromTransition(businessProcess, transition, company string, doc id.ID, docDate, postDate time.Time, stream *rng.Stream, index int) (*Entry, error) {
	tmpl, ok := s.Templates.Lookup(businessProcess, transition)
	if !ok {
		return nil, fmt.Errorf("journal: %s/%s: %w", businessProcess, transition, ErrNoTemplate)
	}
	return s.synthesize(tmpl, company, []id.ID{doc}, docDate, postDate, stream, index, SourceInterface)
}

// Direct synthesizes a manual/recurring/adjustment entry with no source
// document, filling out target_count alongside flow-derived volume.
func (s *Synthesizer) Direct(businessProcess, transition, company string, docDate, postDate time.Time, stream *rng.Stream, index int) (*Entry, error) {
	tmpl, ok := s.Templates.Lookup(businessProcess, transition)
	if !ok {
		return nil, fmt.Errorf("journal: %s/%s: %w", businessProcess, transition, ErrNoTemplate)
	}
	source := SourceManual
	if transition == "Recurring" {
		source = SourceRecurring
	}
	return s.synthesize(tmpl, company, nil, docDate, postDate, stream, index, source)
}

func (s *Synthesizer) synthesize(tmpl Template, company string, references []id.ID, docDate, postDate time.Time, stream *rng.Stream, index int, source Source) (*Entry, error) {
	lineCount := 2
	if s.LineCountDist != nil {
		lineCount = s.LineCountDist.Sample(stream)
	}
	if lineCount < 2 {
		lineCount = 2
	}

	var entry *Entry
	var lastErr error
	for attempt := 0; attempt <= maxBalanceRetries; attempt++ {
		gross := s.AmountDist.Sample(stream)
		candidate := buildLines(tmpl, lineCount, gross, stream)
		tolerance := roundingTolerancePerLine.MulInt(int64(lineCount))
		diff := candidate.SumDebits().Sub(candidate.SumCredits()).Abs()
		if diff.LessThan(tolerance) || diff.Equal(tolerance) {
			entry = &Entry{
				DocID:           id.New(s.Namespace, id.PrefixJournalEntry, fmt.Sprintf("journal/%s/%s", tmpl.BusinessProcess, tmpl.Transition), index),
				Company:         company,
				FiscalYear:      postDate.Year(),
				FiscalPeriod:    int(postDate.Month()),
				PostingDate:     postDate,
				DocumentDate:    docDate,
				Source:          source,
				BusinessProcess: tmpl.BusinessProcess,
				References:      references,
				Lines:           candidate.Lines,
			}
			break
		}
		lastErr = fmt.Errorf("journal: attempt %d: residual %s exceeds tolerance %s", attempt, diff, tolerance)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnbalanced, lastErr)
	}

	s.attachPersona(entry, stream)
	return entry, nil
}

// lineBuild is an intermediate balance-checking wrapper around a []Line.
type lineBuild struct {
	Lines []Line
}

func (b lineBuild) SumDebits() types.Decimal {
	sum := types.Zero
	for _, l := range b.Lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

func (b lineBuild) SumCredits() types.Decimal {
	sum := types.Zero
	for _, l := range b.Lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}

// buildLines splits gross across lineCount lines using a Dirichlet-like
// allocation (normalized exponential draws), alternating template debit and
// credit account slots: gross is split once across the debit lines and once
// across the credit lines, then balance is forced by absorbing the rounding
// residual into the final line, per spec §4.7 steps 2-4.
func buildLines(tmpl Template, lineCount int, gross types.Decimal, stream *rng.Stream) lineBuild {
	weights := make([]float64, lineCount)
	debitTotal, creditTotal := 0.0, 0.0
	for i := range weights {
		w := stream.ExpFloat64() + 0.01 // avoid a zero-weight line
		weights[i] = w
		if i%2 == 0 {
			debitTotal += w
		} else {
			creditTotal += w
		}
	}

	lines := make([]Line, lineCount)
	debitSum := types.Zero
	for i := 0; i < lineCount; i++ {
		isDebit := i%2 == 0
		account := pickAccount(tmpl.DebitAccounts, i)
		if !isDebit {
			account = pickAccount(tmpl.CreditAccounts, i)
		}

		sideTotal := debitTotal
		if !isDebit {
			sideTotal = creditTotal
		}
		share := gross.MulInt(int64(weights[i] * 1e6)).DivInt(int64(sideTotal * 1e6))
		line := Line{
			Account:  account,
			Currency: tmpl.Currency,
			AmountLC: share,
			AmountTC: share,
		}
		if isDebit {
			line.Debit = share
			debitSum = debitSum.Add(share)
		} else {
			line.Credit = share
		}
		lines[i] = line
	}

	// force exact balance: last line's opposite side absorbs the residual
	// between what was allocated to debits vs credits.
	creditSum := types.Zero
	for _, l := range lines {
		creditSum = creditSum.Add(l.Credit)
	}
	residual := debitSum.Sub(creditSum)
	last := &lines[lineCount-1]
	if last.Debit.IsPositive() {
		last.Debit = last.Debit.Sub(residual)
	} else {
		last.Credit = last.Credit.Add(residual)
	}

	return lineBuild{Lines: lines}
}

func pickAccount(accounts []string, i int) string {
	if len(accounts) == 0 {
		return ""
	}
	return accounts[i%len(accounts)]
}

// attachPersona assigns created_by from the employee roster and, if the
// entry's gross amount crosses an approval threshold, an approved_by from
// an employee with sufficient authority, per spec §4.7 step 5.
func (s *Synthesizer) attachPersona(entry *Entry, stream *rng.Stream) {
	creators := make([]registry.Employee, 0, len(s.Employees))
	for _, e := range s.Employees {
		if e.CanCreate {
			creators = append(creators, e)
		}
	}
	if len(creators) > 0 {
		entry.CreatedBy = creators[stream.UniformInt(0, len(creators)-1)].ID
	}

	gross := entry.SumDebits()
	requiredLevel := 0
	for i, threshold := range s.ApprovalLadder {
		if gross.GreaterThan(threshold) {
			requiredLevel = i + 1
		}
	}
	if requiredLevel == 0 {
		return
	}

	var approvers []registry.Employee
	for _, e := range s.Employees {
		if e.CanApprove {
			approvers = append(approvers, e)
		}
	}
	if len(approvers) > 0 {
		entry.ApprovedBy = approvers[stream.UniformInt(0, len(approvers)-1)].ID
	}
}
