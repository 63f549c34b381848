// Package sink defines the output boundary every generated record
// crosses on its way out of the module: master data, journal entries,
// trial balances, and anomaly labels, per spec §C11/§5.
package sink

import (
	"context"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/flow"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
)

// Sink is the unified output interface for a generation run. Methods are
// declared explicitly rather than composed from smaller interfaces, to
// avoid naming conflicts across record kinds.
type Sink interface {
	// WriteAccounts persists the sealed chart of accounts. Called once,
	// after the entity registry seals.
	WriteAccounts(ctx context.Context, accounts []registry.Account) error
	WriteEmployees(ctx context.Context, employees []registry.Employee) error
	WriteVendors(ctx context.Context, vendors []registry.Vendor) error
	WriteCustomers(ctx context.Context, customers []registry.Customer) error
	WriteMaterials(ctx context.Context, materials []registry.Material) error
	WriteAssets(ctx context.Context, assets []registry.FixedAsset) error

	// WritePurchaseOrders, WriteGoodsReceipts, WriteVendorInvoices, and
	// WritePayments persist the P2P flow's document nodes, one call per
	// document kind per flush, per spec §3/§6's
	// transactions/{purchase_orders,goods_receipts,vendor_invoices,payments}
	// outputs.
	WritePurchaseOrders(ctx context.Context, docs []*flow.Document) error
	WriteGoodsReceipts(ctx context.Context, docs []*flow.Document) error
	WriteVendorInvoices(ctx context.Context, docs []*flow.Document) error
	WritePayments(ctx context.Context, docs []*flow.Document) error

	// WriteSalesOrders, WriteDeliveries, WriteCustomerInvoices, and
	// WriteReceipts persist the O2C flow's document nodes, per spec §6's
	// transactions/{sales_orders,deliveries,customer_invoices,receipts}
	// outputs.
	WriteSalesOrders(ctx context.Context, docs []*flow.Document) error
	WriteDeliveries(ctx context.Context, docs []*flow.Document) error
	WriteCustomerInvoices(ctx context.Context, docs []*flow.Document) error
	WriteReceipts(ctx context.Context, docs []*flow.Document) error

	// WriteDocumentReferences persists the flattened document-flow DAG
	// edges, per spec §6's transactions/document_references output —
	// what makes P6 (document chain integrity) checkable downstream.
	WriteDocumentReferences(ctx context.Context, refs []flow.DocumentReference) error

	// WriteEntries persists a batch of journal entries. The orchestrator
	// calls this once per flush boundary (batch-size threshold, or once
	// at run end if FlushBatchSize is 0), never per-entry.
	WriteEntries(ctx context.Context, entries []*journal.Entry) error

	// WriteTrialBalance persists one period's closing snapshot.
	WriteTrialBalance(ctx context.Context, tb balance.TrialBalance) error

	// WriteAnomalyLabels persists the labels the injector produced.
	WriteAnomalyLabels(ctx context.Context, labels []anomaly.Label) error

	// WriteSoDRules and WriteSoDConflicts persist the segregation-of-duties
	// rule set and the employees found to violate it, per the
	// controls/{sod_rules,sod_conflict_pairs} outputs.
	WriteSoDRules(ctx context.Context, rules []registry.SoDRule) error
	WriteSoDConflicts(ctx context.Context, conflicts []registry.SoDConflict) error

	// WriteInternalControls and WriteControlAccountMappings persist the
	// control-account mapping derived from the chart of accounts, per the
	// controls/{internal_controls,control_account_mappings} outputs.
	WriteInternalControls(ctx context.Context, controls []registry.InternalControl) error
	WriteControlAccountMappings(ctx context.Context, mappings []registry.ControlAccountMapping) error

	// Flush forces any buffered writes out. Safe to call multiple times.
	Flush(ctx context.Context) error

	// Close releases any underlying resources. No further writes are
	// valid after Close returns.
	Close() error
}
