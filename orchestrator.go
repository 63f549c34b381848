package synth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	closeengine "github.com/synthledger/core/close"
	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/guard"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/plugin"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/schedule"
	"github.com/synthledger/core/sink"
	"github.com/synthledger/core/types"
)

// Orchestrator drives one generation run end to end: master data, document
// flows, journal synthesis, scheduling, period close, anomaly injection,
// and sink output, wiring every stage through the plugin registry.
type Orchestrator struct {
	cfg     Config
	sinks   []sink.Sink
	plugins *plugin.Registry
	logger  *slog.Logger
	sampler guard.Sampler

	guard *guard.Guard

	mu     sync.Mutex
	closed bool
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithLogger sets the logger used by the orchestrator and its plugin
// registry.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
		o.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin against the orchestrator's registry.
func WithPlugin(p plugin.Plugin) Option {
	return func(o *Orchestrator) {
		_ = o.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithSampler overrides the resource-guard sampler, mainly for tests that
// want deterministic pressure readings instead of real OS signals.
func WithSampler(sampler guard.Sampler) Option {
	return func(o *Orchestrator) { o.sampler = sampler }
}

// New validates cfg and builds an Orchestrator against the given sinks. At
// least one sink is required.
func New(cfg Config, sinks ...sink.Sink) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(sinks) == 0 {
		return nil, ErrNoSinks
	}

	o := &Orchestrator{
		cfg:     cfg,
		sinks:   sinks,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		sampler: guard.NewOSSampler(),
	}
	return o, nil
}

// Run executes one full generation pass: master data, document flows,
// journal entries, period close, and anomaly injection, flushing every
// sink before returning. Run is not safe to call twice on the same
// Orchestrator.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrOrchestratorClosed
	}
	o.mu.Unlock()

	namespace := id.Namespace(o.cfg.Seed)
	root := rng.Root(o.cfg.Seed)

	o.guard = guard.New(o.sampler, guard.WithThresholds(o.cfg.Guard), guard.WithDiskPath(o.cfg.GuardDiskPath))
	guardErrCh := o.guard.Start(ctx)
	defer o.guard.Stop()

	summary := plugin.Summary{}
	var runErr error
	defer func() {
		summary.Err = runErr
		summary.FinalGuardState = o.guard.Snapshot().State
		o.plugins.EmitRunCompleted(ctx, summary)
	}()

	o.plugins.EmitInit(ctx, namespace.String())

	// C4: master data, in fixed dependency order.
	regStream, err := root.Split("registry")
	if err != nil {
		runErr = fmt.Errorf("synth: split registry stream: %w", err)
		return runErr
	}
	reg, err := registry.BuildAll(registry.BuildConfig{
		Accounts:  o.cfg.Accounts,
		Employees: o.cfg.Employees,
		Vendors:   o.cfg.Vendors,
		Customers: o.cfg.Customers,
		Materials: o.cfg.Materials,
		Assets:    o.cfg.Assets,
	}, regStream, namespace)
	if err != nil {
		runErr = fmt.Errorf("synth: build master data: %w", err)
		return runErr
	}
	o.plugins.EmitMasterDataBuilt(ctx, reg)
	if err := o.writeMasterData(ctx, reg); err != nil {
		runErr = err
		return runErr
	}

	tracker := balance.New(reg)
	defer tracker.Close()

	companyCountry := make(map[string]string, len(o.cfg.Companies))
	for _, c := range o.cfg.Companies {
		companyCountry[c.Code] = c.Country
	}
	postLag := distribution.LogNormal{
		Mu: o.cfg.Schedule.PostLagMu, Sigma: o.cfg.Schedule.PostLagSigma,
		Min: types.Zero, Max: types.NewFromInt(14),
	}
	sched := schedule.NewScheduler(o.cfg.Schedule.Seasonality, o.cfg.Schedule.DayOfWeek, o.cfg.Schedule.TimeOfDay, postLag, companyCountry)

	lineCountDist, err := distribution.NewEmpirical(o.cfg.Amount.LineCountWeights)
	if err != nil {
		runErr = fmt.Errorf("synth: build line-count distribution: %w", err)
		return runErr
	}
	amountDist := distribution.LogNormal{
		Mu: o.cfg.Amount.LogNormalMu, Sigma: o.cfg.Amount.LogNormalSigma,
		Min: o.cfg.Amount.Min, Max: o.cfg.Amount.Max,
	}
	approvalLadder := make([]types.Decimal, len(o.cfg.Employees.ApprovalThresholds))
	for i, t := range o.cfg.Employees.ApprovalThresholds {
		approvalLadder[i] = types.NewFromFloat(t)
	}
	synthesizer := journal.NewSynthesizer(o.cfg.Templates, lineCountDist, amountDist, reg.Employees(), approvalLadder, namespace)

	// C6: document flows, sharded and run concurrently.
	flowStream, err := root.Split("flow")
	if err != nil {
		runErr = fmt.Errorf("synth: split flow stream: %w", err)
		return runErr
	}
	windowDays := o.cfg.PeriodMonths * 30
	flowEntries, flowDocs, flowAborts := o.runFlows(reg, synthesizer, sched, flowStream, namespace, windowDays)
	summary.FlowAborts = flowAborts
	summary.ShardsAborted = len(flowAborts)
	for _, abrt := range flowAborts {
		o.plugins.EmitFlowShardAborted(ctx, abrt.ShardIndex, abrt.Recovered)
	}
	if err := o.writeDocuments(ctx, flowDocs); err != nil {
		runErr = err
		return runErr
	}

	// Direct postings fill out non-flow-derived volume.
	directStream, err := root.Split("direct")
	if err != nil {
		runErr = fmt.Errorf("synth: split direct stream: %w", err)
		return runErr
	}
	directEntries := o.runDirect(synthesizer, sched, directStream, namespace)

	allEntries := append(append([]*journal.Entry(nil), flowEntries...), directEntries...)

	if o.cfg.OrderedOutput {
		allEntries = orderEntries(allEntries)
	}

	// C10/C9/C7: per fiscal period, inject anomalies over the window, post
	// the batch, then close the period.
	closeStream, err := root.Split("close")
	if err != nil {
		runErr = fmt.Errorf("synth: split close stream: %w", err)
		return runErr
	}
	anomalyStream, err := root.Split("anomaly")
	if err != nil {
		runErr = fmt.Errorf("synth: split anomaly stream: %w", err)
		return runErr
	}
	closeEngine := closeengine.NewEngine(tracker, reg, namespace)
	injector := anomaly.NewInjector(namespace)

	if err := o.runPeriods(ctx, reg, tracker, closeEngine, injector, allEntries, closeStream, anomalyStream, &summary); err != nil {
		runErr = err
		return runErr
	}

	select {
	case gerr := <-guardErrCh:
		if gerr != nil {
			runErr = fmt.Errorf("synth: %w", gerr)
			return runErr
		}
	default:
	}

	if err := o.flushSinks(ctx); err != nil {
		runErr = err
		return runErr
	}
	if err := o.Close(); err != nil {
		runErr = err
		return runErr
	}
	o.plugins.EmitShutdown(ctx)

	return nil
}

// Close releases every configured sink. Safe to call after Run returns,
// or instead of Run if the orchestrator was never started.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true

	var firstErr error
	for _, s := range o.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
