package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/guard"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
)

// Registry manages all registered plugins and provides type-cached
// dispatch: each Register call appends the plugin to every hook-specific
// slice it satisfies, so emission never reflects on the hot path.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	onInit                   []OnInit
	onShutdown               []OnShutdown
	onMasterDataBuilt        []OnMasterDataBuilt
	onFlowShardAborted       []OnFlowShardAborted
	onEntryBatchPosted       []OnEntryBatchPosted
	onTemplateDropped        []OnTemplateDropped
	onAnomalyInjected        []OnAnomalyInjected
	onAnomalyBudgetUnmet     []OnAnomalyBudgetUnmet
	onPeriodClosed           []OnPeriodClosed
	onReconciliationVariance []OnReconciliationVariance
	onGuardStateChanged      []OnGuardStateChanged
	onSinkFlushed            []OnSinkFlushed
	onSinkRetry              []OnSinkRetry
	onRunCompleted           []OnRunCompleted
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{logger: slog.Default()}
}

// WithLogger sets the logger used to report plugin call failures.
func (r *Registry) WithLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds p to the registry and caches it under every hook
// interface it implements.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: %q already registered", p.Name())
		}
	}
	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnMasterDataBuilt); ok {
		r.onMasterDataBuilt = append(r.onMasterDataBuilt, v)
	}
	if v, ok := p.(OnFlowShardAborted); ok {
		r.onFlowShardAborted = append(r.onFlowShardAborted, v)
	}
	if v, ok := p.(OnEntryBatchPosted); ok {
		r.onEntryBatchPosted = append(r.onEntryBatchPosted, v)
	}
	if v, ok := p.(OnTemplateDropped); ok {
		r.onTemplateDropped = append(r.onTemplateDropped, v)
	}
	if v, ok := p.(OnAnomalyInjected); ok {
		r.onAnomalyInjected = append(r.onAnomalyInjected, v)
	}
	if v, ok := p.(OnAnomalyBudgetUnmet); ok {
		r.onAnomalyBudgetUnmet = append(r.onAnomalyBudgetUnmet, v)
	}
	if v, ok := p.(OnPeriodClosed); ok {
		r.onPeriodClosed = append(r.onPeriodClosed, v)
	}
	if v, ok := p.(OnReconciliationVariance); ok {
		r.onReconciliationVariance = append(r.onReconciliationVariance, v)
	}
	if v, ok := p.(OnGuardStateChanged); ok {
		r.onGuardStateChanged = append(r.onGuardStateChanged, v)
	}
	if v, ok := p.(OnSinkFlushed); ok {
		r.onSinkFlushed = append(r.onSinkFlushed, v)
	}
	if v, ok := p.(OnSinkRetry); ok {
		r.onSinkRetry = append(r.onSinkRetry, v)
	}
	if v, ok := p.(OnRunCompleted); ok {
		r.onRunCompleted = append(r.onRunCompleted, v)
	}
	return nil
}

func (r *Registry) warn(hook string, name string, err error) {
	if err != nil {
		r.logger.Warn("plugin hook failed", "hook", hook, "plugin", name, "error", err)
	}
}

// EmitInit calls every OnInit plugin in registration order.
func (r *Registry) EmitInit(ctx context.Context, runID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onInit {
		r.warn("OnInit", p.Name(), p.OnInit(ctx, runID))
	}
}

// EmitShutdown calls every OnShutdown plugin.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onShutdown {
		r.warn("OnShutdown", p.Name(), p.OnShutdown(ctx))
	}
}

// EmitMasterDataBuilt fires once the registry seals.
func (r *Registry) EmitMasterDataBuilt(ctx context.Context, reg *registry.Registry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onMasterDataBuilt {
		r.warn("OnMasterDataBuilt", p.Name(), p.OnMasterDataBuilt(ctx, reg))
	}
}

// EmitFlowShardAborted fires once per aborted shard.
func (r *Registry) EmitFlowShardAborted(ctx context.Context, shardIndex int, recovered any) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onFlowShardAborted {
		r.warn("OnFlowShardAborted", p.Name(), p.OnFlowShardAborted(ctx, shardIndex, recovered))
	}
}

// EmitEntryBatchPosted fires after a batch clears the balance tracker.
func (r *Registry) EmitEntryBatchPosted(ctx context.Context, entries []*journal.Entry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onEntryBatchPosted {
		r.warn("OnEntryBatchPosted", p.Name(), p.OnEntryBatchPosted(ctx, entries))
	}
}

// EmitTemplateDropped fires once per discarded unbalanceable entry.
func (r *Registry) EmitTemplateDropped(ctx context.Context, businessProcess, transition string, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onTemplateDropped {
		r.warn("OnTemplateDropped", p.Name(), p.OnTemplateDropped(ctx, businessProcess, transition, err))
	}
}

// EmitAnomalyInjected fires once per labeled entry.
func (r *Registry) EmitAnomalyInjected(ctx context.Context, label anomaly.Label) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onAnomalyInjected {
		r.warn("OnAnomalyInjected", p.Name(), p.OnAnomalyInjected(ctx, label))
	}
}

// EmitAnomalyBudgetUnmet fires when the realized rate strays >10% from target.
func (r *Registry) EmitAnomalyBudgetUnmet(ctx context.Context, targetRate, realizedRate float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onAnomalyBudgetUnmet {
		r.warn("OnAnomalyBudgetUnmet", p.Name(), p.OnAnomalyBudgetUnmet(ctx, targetRate, realizedRate))
	}
}

// EmitPeriodClosed fires once per closed fiscal period.
func (r *Registry) EmitPeriodClosed(ctx context.Context, period balance.Period, tb balance.TrialBalance) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onPeriodClosed {
		r.warn("OnPeriodClosed", p.Name(), p.OnPeriodClosed(ctx, period, tb))
	}
}

// EmitReconciliationVariance fires when a control account's diff exceeds tolerance.
func (r *Registry) EmitReconciliationVariance(ctx context.Context, controlAccount string, diff any) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onReconciliationVariance {
		r.warn("OnReconciliationVariance", p.Name(), p.OnReconciliationVariance(ctx, controlAccount, diff))
	}
}

// EmitGuardStateChanged passes one guard level transition to the
// OnGuardStateChanged plugins. The orchestrator does not call it.
func (r *Registry) EmitGuardStateChanged(ctx context.Context, from, to guard.State) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onGuardStateChanged {
		r.warn("OnGuardStateChanged", p.Name(), p.OnGuardStateChanged(ctx, from, to))
	}
}

// EmitSinkFlushed fires after a sink flush completes.
func (r *Registry) EmitSinkFlushed(ctx context.Context, sinkName string, recordCount int, elapsed time.Duration) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onSinkFlushed {
		r.warn("OnSinkFlushed", p.Name(), p.OnSinkFlushed(ctx, sinkName, recordCount, elapsed))
	}
}

// EmitSinkRetry fires on each retry of a failed sink write.
func (r *Registry) EmitSinkRetry(ctx context.Context, sinkName string, attempt int, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onSinkRetry {
		r.warn("OnSinkRetry", p.Name(), p.OnSinkRetry(ctx, sinkName, attempt, err))
	}
}

// EmitRunCompleted fires once at the end of the run.
func (r *Registry) EmitRunCompleted(ctx context.Context, summary Summary) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.onRunCompleted {
		r.warn("OnRunCompleted", p.Name(), p.OnRunCompleted(ctx, summary))
	}
}
