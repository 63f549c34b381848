// Package plugin provides an extensible hook system for the generation
// orchestrator. Plugins observe lifecycle events — master data built, a
// flow shard aborted, a batch flushed, an anomaly injected, a period
// closed — without the orchestrator knowing anything about their concrete
// implementations. A guard state transition hook also exists; it fires
// only when a caller invokes Registry.EmitGuardStateChanged, which the
// orchestrator does not do.
package plugin

import (
	"context"
	"time"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/flow"
	"github.com/synthledger/core/guard"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called once the orchestrator has validated its config and
// before master-data generation begins.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, runID string) error
}

// OnShutdown is called after sinks have been flushed and closed.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Master data hooks (C4)
// ──────────────────────────────────────────────────

// OnMasterDataBuilt is called once the entity registry has been sealed.
type OnMasterDataBuilt interface {
	Plugin
	OnMasterDataBuilt(ctx context.Context, reg *registry.Registry) error
}

// ──────────────────────────────────────────────────
// Document-flow hooks (C6)
// ──────────────────────────────────────────────────

// OnFlowShardAborted is called when one flow shard panics or errors mid
// way, per spec §4.6's PartialFlowError.
type OnFlowShardAborted interface {
	Plugin
	OnFlowShardAborted(ctx context.Context, shardIndex int, recovered any) error
}

// ──────────────────────────────────────────────────
// Journal-entry hooks (C7)
// ──────────────────────────────────────────────────

// OnEntryBatchPosted is called after a batch of balanced entries has been
// accepted by the balance tracker.
type OnEntryBatchPosted interface {
	Plugin
	OnEntryBatchPosted(ctx context.Context, entries []*journal.Entry) error
}

// OnTemplateDropped is called when the synthesizer discards an entry that
// could not balance within tolerance after its retry budget.
type OnTemplateDropped interface {
	Plugin
	OnTemplateDropped(ctx context.Context, businessProcess, transition string, err error) error
}

// ──────────────────────────────────────────────────
// Anomaly hooks (C9)
// ──────────────────────────────────────────────────

// OnAnomalyInjected is called once per modified entry, alongside the label
// the injector emitted for it.
type OnAnomalyInjected interface {
	Plugin
	OnAnomalyInjected(ctx context.Context, label anomaly.Label) error
}

// OnAnomalyBudgetUnmet is called when the realized injection rate strayed
// more than 10% from target, per spec §4.9/§7 (informational, not fatal).
type OnAnomalyBudgetUnmet interface {
	Plugin
	OnAnomalyBudgetUnmet(ctx context.Context, targetRate, realizedRate float64) error
}

// ──────────────────────────────────────────────────
// Period-close hooks (C10)
// ──────────────────────────────────────────────────

// OnPeriodClosed is called once a fiscal period's close has produced its
// final trial balance.
type OnPeriodClosed interface {
	Plugin
	OnPeriodClosed(ctx context.Context, period balance.Period, tb balance.TrialBalance) error
}

// OnReconciliationVariance is called when a subledger-to-control-account
// reconciliation diff exceeds the 1-cent tolerance, per spec §4.10.
type OnReconciliationVariance interface {
	Plugin
	OnReconciliationVariance(ctx context.Context, controlAccount string, diff any) error
}

// ──────────────────────────────────────────────────
// Resource-guard hooks (C3)
// ──────────────────────────────────────────────────

// OnGuardStateChanged is called for each guard level transition passed to
// Registry.EmitGuardStateChanged. Orchestrator.Run does not call that
// emitter, so this hook does not fire during a run.
type OnGuardStateChanged interface {
	Plugin
	OnGuardStateChanged(ctx context.Context, from, to guard.State) error
}

// ──────────────────────────────────────────────────
// Sink hooks (C11)
// ──────────────────────────────────────────────────

// OnSinkFlushed is called after an orchestrator-driven sink flush.
type OnSinkFlushed interface {
	Plugin
	OnSinkFlushed(ctx context.Context, sinkName string, recordCount int, elapsed time.Duration) error
}

// OnSinkRetry is called on each retry of a failed sink write, per spec
// §7's SinkError policy (retried up to 3x with exponential backoff).
type OnSinkRetry interface {
	Plugin
	OnSinkRetry(ctx context.Context, sinkName string, attempt int, err error) error
}

// ──────────────────────────────────────────────────
// Run-completion hooks
// ──────────────────────────────────────────────────

// OnRunCompleted is called once after the orchestrator finishes or
// aborts, summarizing per-kind error counts, per spec §7's "final summary
// enumerates counts per error kind".
type OnRunCompleted interface {
	Plugin
	OnRunCompleted(ctx context.Context, summary Summary) error
}

// Summary is the end-of-run report handed to OnRunCompleted.
type Summary struct {
	EntriesPosted      int
	TemplatesDropped   int
	ShardsAborted      int
	AnomaliesInjected  int
	PeriodsClosed      int
	FinalGuardState    guard.State
	FlowAborts         []*flow.PartialFlowError
	Err                error
}
