package synth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	closeengine "github.com/synthledger/core/close"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/plugin"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// periodWindow pairs a fiscal period with the calendar date its close
// runs against.
type periodWindow struct {
	period  balance.Period
	endDate time.Time
}

// periodWindows lays out one window per configured month, starting at
// StartDate, per spec §6's period_months.
func (o *Orchestrator) periodWindows() []periodWindow {
	windows := make([]periodWindow, 0, o.cfg.PeriodMonths)
	cursor := o.cfg.StartDate
	for i := 0; i < o.cfg.PeriodMonths; i++ {
		windows = append(windows, periodWindow{
			period:  balance.Period{FiscalYear: cursor.Year(), FiscalPeriod: int(cursor.Month())},
			endDate: lastDayOfMonth(cursor),
		})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return windows
}

func lastDayOfMonth(t time.Time) time.Time {
	firstNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstNext.AddDate(0, 0, -1)
}

// clampToWindows reassigns any entry whose scheduled posting date landed
// after the last configured period (a payment-term or dunning lag running
// past the generation window) into that final period, the way a real
// month-end cutoff force-posts late entries into the last open period
// before the books close. Entries within range keep their own period.
func clampToWindows(entries []*journal.Entry, windows []periodWindow) map[balance.Period][]*journal.Entry {
	grouped := make(map[balance.Period][]*journal.Entry)
	if len(windows) == 0 {
		return grouped
	}
	last := windows[len(windows)-1].period

	for _, e := range entries {
		p := balance.Period{FiscalYear: e.FiscalYear, FiscalPeriod: e.FiscalPeriod}
		if periodAfter(p, last) {
			e.FiscalYear = last.FiscalYear
			e.FiscalPeriod = last.FiscalPeriod
			p = last
		}
		grouped[p] = append(grouped[p], e)
	}
	return grouped
}

func periodAfter(p, limit balance.Period) bool {
	if p.FiscalYear != limit.FiscalYear {
		return p.FiscalYear > limit.FiscalYear
	}
	return p.FiscalPeriod > limit.FiscalPeriod
}

// runPeriods closes every configured fiscal period in order: inject
// anomalies over that period's window, post the resulting batch, then run
// period close (accruals, depreciation, reconciliation, and quarterly/
// annual layers), finally writing every entry and trial balance to the
// sinks.
func (o *Orchestrator) runPeriods(ctx context.Context, reg *registry.Registry, tracker *balance.Tracker, closeEngine *closeengine.Engine, injector *anomaly.Injector, allEntries []*journal.Entry, closeStream, anomalyStream *rng.Stream, summary *plugin.Summary) error {
	windows := o.periodWindows()
	byPeriod := clampToWindows(allEntries, windows)

	companies := make([]string, len(o.cfg.Companies))
	for i, c := range o.cfg.Companies {
		companies[i] = c.Code
	}

	budget := anomaly.Budget{TotalRate: o.cfg.Anomaly.TotalRate, Weights: o.cfg.Anomaly.Weights, ClusterSize: o.cfg.Anomaly.ClusterSize}

	var writtenEntries []*journal.Entry

	for idx, w := range windows {
		window := byPeriod[w.period]
		sort.Slice(window, func(i, j int) bool { return entryLess(window[i], window[j]) })

		periodAnomalyStream, err := anomalyStream.Split(fmt.Sprintf("anomaly/period/%d", idx))
		if err != nil {
			return fmt.Errorf("synth: split anomaly stream for period %d: %w", idx, err)
		}
		result, injErr := injector.Inject(window, budget, periodAnomalyStream)
		if injErr != nil && !errors.Is(injErr, anomaly.ErrUnmetBudget) {
			return fmt.Errorf("synth: inject anomalies for period %d: %w", idx, injErr)
		}
		if errors.Is(injErr, anomaly.ErrUnmetBudget) {
			o.plugins.EmitAnomalyBudgetUnmet(ctx, budget.TotalRate, result.RealizedRate)
		}
		for _, label := range result.Labels {
			o.plugins.EmitAnomalyInjected(ctx, label)
		}
		summary.AnomaliesInjected += len(result.Labels)
		if err := o.writeAnomalyLabels(ctx, result.Labels); err != nil {
			return err
		}

		if err := o.postBatches(ctx, tracker, result.Entries); err != nil {
			return err
		}
		writtenEntries = append(writtenEntries, result.Entries...)
		summary.EntriesPosted += len(result.Entries)

		periodCloseStream, err := closeStream.Split(fmt.Sprintf("close/period/%d", idx))
		if err != nil {
			return fmt.Errorf("synth: split close stream for period %d: %w", idx, err)
		}
		quarterly := (idx+1)%3 == 0
		annual := idx == len(windows)-1
		closeResult, err := closeEngine.ClosePeriod(ctx, w.period, w.endDate, companies, reg.Assets(), idx, map[string]types.Decimal{}, quarterly, annual, periodCloseStream)
		if err != nil {
			return fmt.Errorf("synth: close period %d: %w", idx, err)
		}

		writtenEntries = append(writtenEntries, closeResult.Entries...)
		summary.EntriesPosted += len(closeResult.Entries)
		summary.PeriodsClosed++

		for account, diff := range closeResult.ReconciliationDiffs {
			o.plugins.EmitReconciliationVariance(ctx, account, diff)
		}
		o.plugins.EmitPeriodClosed(ctx, w.period, closeResult.TrialBalance)
		if err := o.writeTrialBalance(ctx, closeResult.TrialBalance); err != nil {
			return err
		}
	}

	return o.writeEntries(ctx, writtenEntries)
}

// postBatches posts entries to tracker in FlushBatchSize chunks (the
// whole slice at once if unset), emitting OnEntryBatchPosted per chunk.
func (o *Orchestrator) postBatches(ctx context.Context, tracker *balance.Tracker, entries []*journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batchSize := o.cfg.Sink.FlushBatchSize
	if batchSize <= 0 {
		batchSize = len(entries)
	}
	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]
		values := make([]journal.Entry, len(chunk))
		for i, e := range chunk {
			values[i] = *e
		}
		if err := tracker.Post(ctx, values...); err != nil {
			return fmt.Errorf("synth: post batch [%d:%d]: %w", start, end, err)
		}
		o.plugins.EmitEntryBatchPosted(ctx, chunk)
	}
	return nil
}
