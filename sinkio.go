package synth

import (
	"context"
	"fmt"
	"time"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/flow"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/sink"
)

// withRetry calls fn against one sink, retrying up to Sink.MaxRetries
// times with exponential backoff off Sink.BackoffBase, per spec §7's
// SinkError policy. It emits OnSinkRetry before each retry and
// OnSinkFlushed once fn finally succeeds.
func (o *Orchestrator) withRetry(ctx context.Context, sinkName string, recordCount int, fn func() error) error {
	backoff := o.cfg.Sink.BackoffBase
	var lastErr error
	for attempt := 0; attempt <= o.cfg.Sink.MaxRetries; attempt++ {
		start := time.Now()
		if err := fn(); err != nil {
			lastErr = err
			if attempt == o.cfg.Sink.MaxRetries {
				break
			}
			o.plugins.EmitSinkRetry(ctx, sinkName, attempt+1, err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
			continue
		}
		o.plugins.EmitSinkFlushed(ctx, sinkName, recordCount, time.Since(start))
		return nil
	}
	return fmt.Errorf("synth: sink %q failed after %d attempts: %w", sinkName, o.cfg.Sink.MaxRetries+1, lastErr)
}

func sinkName(index int, _ sink.Sink) string {
	return fmt.Sprintf("sink[%d]", index)
}

// writeMasterData writes the sealed chart of accounts and every business
// partner roster to every configured sink, once, after the registry
// seals.
func (o *Orchestrator) writeMasterData(ctx context.Context, reg *registry.Registry) error {
	for i, s := range o.sinks {
		name := sinkName(i, s)
		s := s
		if err := o.withRetry(ctx, name, len(reg.Accounts()), func() error { return s.WriteAccounts(ctx, reg.Accounts()) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(reg.Employees()), func() error { return s.WriteEmployees(ctx, reg.Employees()) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(reg.Vendors()), func() error { return s.WriteVendors(ctx, reg.Vendors()) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(reg.Customers()), func() error { return s.WriteCustomers(ctx, reg.Customers()) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(reg.Materials()), func() error { return s.WriteMaterials(ctx, reg.Materials()) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(reg.Assets()), func() error { return s.WriteAssets(ctx, reg.Assets()) }); err != nil {
			return err
		}
	}
	return o.writeControls(ctx, reg)
}

// writeControls derives the segregation-of-duties and internal-controls
// artifacts from the sealed registry and writes them to every sink, once,
// alongside the rest of master data.
func (o *Orchestrator) writeControls(ctx context.Context, reg *registry.Registry) error {
	rules := reg.SoDRules()
	conflicts := reg.SoDConflicts()
	controls := reg.InternalControls()
	mappings := reg.ControlAccountMappings()
	for i, s := range o.sinks {
		name := sinkName(i, s)
		s := s
		if err := o.withRetry(ctx, name, len(rules), func() error { return s.WriteSoDRules(ctx, rules) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(conflicts), func() error { return s.WriteSoDConflicts(ctx, conflicts) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(controls), func() error { return s.WriteInternalControls(ctx, controls) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(mappings), func() error { return s.WriteControlAccountMappings(ctx, mappings) }); err != nil {
			return err
		}
	}
	return nil
}

// writeDocuments partitions the document-flow DAG nodes produced by C6 by
// their id.Prefix and writes each category to every sink, then flattens
// and writes the cross-document reference edges, per spec §6's
// transactions/{...}/document_references outputs. A nil/empty slice is a
// no-op.
func (o *Orchestrator) writeDocuments(ctx context.Context, docs []*flow.Document) error {
	if len(docs) == 0 {
		return nil
	}
	var pos, grs, invs, pays, sos, dels, cinvs, recs []*flow.Document
	for _, d := range docs {
		switch d.ID.Prefix() {
		case id.PrefixPO:
			pos = append(pos, d)
		case id.PrefixGR:
			grs = append(grs, d)
		case id.PrefixVendorInv:
			invs = append(invs, d)
		case id.PrefixPayment:
			pays = append(pays, d)
		case id.PrefixSalesOrder:
			sos = append(sos, d)
		case id.PrefixDelivery:
			dels = append(dels, d)
		case id.PrefixCustomerInv:
			cinvs = append(cinvs, d)
		case id.PrefixReceipt:
			recs = append(recs, d)
		}
	}
	refs := flow.References(docs)

	for i, s := range o.sinks {
		name := sinkName(i, s)
		s := s
		if err := o.withRetry(ctx, name, len(pos), func() error { return s.WritePurchaseOrders(ctx, pos) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(grs), func() error { return s.WriteGoodsReceipts(ctx, grs) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(invs), func() error { return s.WriteVendorInvoices(ctx, invs) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(pays), func() error { return s.WritePayments(ctx, pays) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(sos), func() error { return s.WriteSalesOrders(ctx, sos) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(dels), func() error { return s.WriteDeliveries(ctx, dels) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(cinvs), func() error { return s.WriteCustomerInvoices(ctx, cinvs) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(recs), func() error { return s.WriteReceipts(ctx, recs) }); err != nil {
			return err
		}
		if err := o.withRetry(ctx, name, len(refs), func() error { return s.WriteDocumentReferences(ctx, refs) }); err != nil {
			return err
		}
	}
	return nil
}

// writeEntries flushes entries to every sink in FlushBatchSize chunks (the
// whole slice in one call if unset).
func (o *Orchestrator) writeEntries(ctx context.Context, entries []*journal.Entry) error {
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
		for i, s := range o.sinks {
			name := sinkName(i, s)
			s := s
			if err := o.withRetry(ctx, name, len(chunk), func() error { return s.WriteEntries(ctx, chunk) }); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeTrialBalance writes one period's closing snapshot to every sink.
func (o *Orchestrator) writeTrialBalance(ctx context.Context, tb balance.TrialBalance) error {
	for i, s := range o.sinks {
		name := sinkName(i, s)
		s := s
		if err := o.withRetry(ctx, name, len(tb.Lines), func() error { return s.WriteTrialBalance(ctx, tb) }); err != nil {
			return err
		}
	}
	return nil
}

// writeAnomalyLabels writes one period's injected-anomaly labels to every
// sink. A nil/empty slice is a no-op.
func (o *Orchestrator) writeAnomalyLabels(ctx context.Context, labels []anomaly.Label) error {
	if len(labels) == 0 {
		return nil
	}
	for i, s := range o.sinks {
		name := sinkName(i, s)
		s := s
		if err := o.withRetry(ctx, name, len(labels), func() error { return s.WriteAnomalyLabels(ctx, labels) }); err != nil {
			return err
		}
	}
	return nil
}

// flushSinks forces every sink to flush any buffered writes before the
// run ends.
func (o *Orchestrator) flushSinks(ctx context.Context) error {
	for i, s := range o.sinks {
		name := sinkName(i, s)
		s := s
		if err := o.withRetry(ctx, name, 0, func() error { return s.Flush(ctx) }); err != nil {
			return err
		}
	}
	return nil
}
