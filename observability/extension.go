// Package observability provides a metrics extension for the generation
// orchestrator that records per-stage counts and latencies through a
// MetricFactory, the same shape the teacher uses for billing metrics,
// retargeted at generation lifecycle events (C1-C11).
package observability

import (
	"context"
	"time"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/guard"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/plugin"
	"github.com/synthledger/core/registry"
)

// Ensure MetricsExtension implements every hook it records.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnMasterDataBuilt  = (*MetricsExtension)(nil)
	_ plugin.OnFlowShardAborted = (*MetricsExtension)(nil)
	_ plugin.OnEntryBatchPosted = (*MetricsExtension)(nil)
	_ plugin.OnTemplateDropped  = (*MetricsExtension)(nil)
	_ plugin.OnAnomalyInjected  = (*MetricsExtension)(nil)
	_ plugin.OnPeriodClosed     = (*MetricsExtension)(nil)
	_ plugin.OnGuardStateChanged = (*MetricsExtension)(nil)
	_ plugin.OnSinkFlushed      = (*MetricsExtension)(nil)
	_ plugin.OnRunCompleted     = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide generation metrics. Register it as
// an orchestrator plugin to track throughput. Its guard counters move only
// when transitions are passed to plugin.Registry.EmitGuardStateChanged,
// which Orchestrator.Run does not call.
type MetricsExtension struct {
	factory MetricFactory

	RegistrySize Counter

	ShardsAborted Counter

	EntriesPosted    Counter
	EntryBatchSize   Histogram
	TemplatesDropped Counter

	AnomaliesInjected Counter

	PeriodsClosed     Counter
	TrialBalanceLines Histogram

	GuardReduced   Counter
	GuardMinimal   Counter
	GuardEmergency Counter

	SinkFlushLatency Histogram
	SinkRecordsFlushed Counter

	RunErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		RegistrySize: factory.Counter("synth.registry.entities"),

		ShardsAborted: factory.Counter("synth.flow.shards.aborted"),

		EntriesPosted:    factory.Counter("synth.journal.entries.posted"),
		EntryBatchSize:   factory.Histogram("synth.journal.batch.size"),
		TemplatesDropped: factory.Counter("synth.journal.templates.dropped"),

		AnomaliesInjected: factory.Counter("synth.anomaly.injected"),

		PeriodsClosed:     factory.Counter("synth.close.periods"),
		TrialBalanceLines: factory.Histogram("synth.close.trial_balance.lines"),

		GuardReduced:   factory.Counter("synth.guard.reduced"),
		GuardMinimal:   factory.Counter("synth.guard.minimal"),
		GuardEmergency: factory.Counter("synth.guard.emergency"),

		SinkFlushLatency:   factory.Histogram("synth.sink.flush.latency_ms"),
		SinkRecordsFlushed: factory.Counter("synth.sink.records.flushed"),

		RunErrors: factory.Counter("synth.run.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ string) error {
	return nil
}

// OnMasterDataBuilt implements plugin.OnMasterDataBuilt.
func (m *MetricsExtension) OnMasterDataBuilt(_ context.Context, reg *registry.Registry) error {
	m.RegistrySize.Add(float64(reg.Len()))
	return nil
}

// OnFlowShardAborted implements plugin.OnFlowShardAborted.
func (m *MetricsExtension) OnFlowShardAborted(_ context.Context, _ int, _ any) error {
	m.ShardsAborted.Inc()
	return nil
}

// OnEntryBatchPosted implements plugin.OnEntryBatchPosted.
func (m *MetricsExtension) OnEntryBatchPosted(_ context.Context, entries []*journal.Entry) error {
	m.EntriesPosted.Add(float64(len(entries)))
	m.EntryBatchSize.Observe(float64(len(entries)))
	return nil
}

// OnTemplateDropped implements plugin.OnTemplateDropped.
func (m *MetricsExtension) OnTemplateDropped(_ context.Context, _, _ string, _ error) error {
	m.TemplatesDropped.Inc()
	return nil
}

// OnAnomalyInjected implements plugin.OnAnomalyInjected.
func (m *MetricsExtension) OnAnomalyInjected(_ context.Context, _ anomaly.Label) error {
	m.AnomaliesInjected.Inc()
	return nil
}

// OnPeriodClosed implements plugin.OnPeriodClosed.
func (m *MetricsExtension) OnPeriodClosed(_ context.Context, _ balance.Period, tb balance.TrialBalance) error {
	m.PeriodsClosed.Inc()
	m.TrialBalanceLines.Observe(float64(len(tb.Lines)))
	return nil
}

// OnGuardStateChanged implements plugin.OnGuardStateChanged.
func (m *MetricsExtension) OnGuardStateChanged(_ context.Context, _, to guard.State) error {
	switch to {
	case guard.Reduced:
		m.GuardReduced.Inc()
	case guard.Minimal:
		m.GuardMinimal.Inc()
	case guard.Emergency:
		m.GuardEmergency.Inc()
	}
	return nil
}

// OnSinkFlushed implements plugin.OnSinkFlushed.
func (m *MetricsExtension) OnSinkFlushed(_ context.Context, _ string, recordCount int, elapsed time.Duration) error {
	m.SinkRecordsFlushed.Add(float64(recordCount))
	m.SinkFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}

// OnRunCompleted implements plugin.OnRunCompleted.
func (m *MetricsExtension) OnRunCompleted(_ context.Context, summary plugin.Summary) error {
	if summary.Err != nil {
		m.RunErrors.Inc()
	}
	return nil
}
