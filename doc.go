// Package synth generates deterministic, large-scale synthetic
// enterprise financial data: a consistent chart of accounts and business
// partner master data, document flows (procure-to-pay, order-to-cash),
// balanced journal entries, period close, and injected anomalies, all
// written to one or more sinks while a resource guard watches memory,
// disk, and CPU pressure.
//
// # Quick Start
//
// Build a Config, validate it, and run an Orchestrator against a sink:
//
//	cfg := synth.DefaultConfig()
//	cfg.Seed = 42
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	orch, err := synth.New(cfg, memory.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := orch.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Determinism
//
// Every random draw in the module is threaded through rng.Stream, split
// deterministically by a stable label path (entity kind, shard index,
// business process) from a single root seed. The same Config and seed
// produce byte-identical output regardless of how many shards or workers
// the host machine runs.
//
// # Resource guard
//
// A background sampler watches RSS, free disk, and CPU load, publishing
// a four-level Snapshot. The orchestrator records the final level in the
// run summary and fails Run with guard.ErrResourceExhausted when Emergency
// has persisted past the panic timeout; that check is made once, after
// every period has been generated. Generation does not adapt to the
// level: batch size, flush timing, shard parallelism, and anomaly
// clustering stay as configured. See package guard.
package synth
