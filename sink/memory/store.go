// Package memory implements sink.Sink with in-memory, mutex-guarded
// slices, for tests and small interactive runs.
package memory

import (
	"context"
	"sync"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/flow"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/sink"
)

var _ sink.Sink = (*Store)(nil)

// Store accumulates every record written to it in memory. Flush is a
// no-op: there is nothing buffered that isn't already visible.
type Store struct {
	mu sync.RWMutex

	accounts  []registry.Account
	employees []registry.Employee
	vendors   []registry.Vendor
	customers []registry.Customer
	materials []registry.Material
	assets    []registry.FixedAsset

	entries       []*journal.Entry
	trialBalances []balance.TrialBalance
	anomalyLabels []anomaly.Label

	purchaseOrders   []*flow.Document
	goodsReceipts    []*flow.Document
	vendorInvoices   []*flow.Document
	payments         []*flow.Document
	salesOrders      []*flow.Document
	deliveries       []*flow.Document
	customerInvoices []*flow.Document
	receipts         []*flow.Document
	documentRefs     []flow.DocumentReference

	sodRules               []registry.SoDRule
	sodConflicts           []registry.SoDConflict
	internalControls       []registry.InternalControl
	controlAccountMappings []registry.ControlAccountMapping
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

func (s *Store) WriteAccounts(_ context.Context, accounts []registry.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, accounts...)
	return nil
}

func (s *Store) WriteEmployees(_ context.Context, employees []registry.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append(s.employees, employees...)
	return nil
}

func (s *Store) WriteVendors(_ context.Context, vendors []registry.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendors = append(s.vendors, vendors...)
	return nil
}

func (s *Store) WriteCustomers(_ context.Context, customers []registry.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, customers...)
	return nil
}

func (s *Store) WriteMaterials(_ context.Context, materials []registry.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials = append(s.materials, materials...)
	return nil
}

func (s *Store) WriteAssets(_ context.Context, assets []registry.FixedAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append(s.assets, assets...)
	return nil
}

func (s *Store) WritePurchaseOrders(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchaseOrders = append(s.purchaseOrders, docs...)
	return nil
}

func (s *Store) WriteGoodsReceipts(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goodsReceipts = append(s.goodsReceipts, docs...)
	return nil
}

func (s *Store) WriteVendorInvoices(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendorInvoices = append(s.vendorInvoices, docs...)
	return nil
}

func (s *Store) WritePayments(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, docs...)
	return nil
}

func (s *Store) WriteSalesOrders(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salesOrders = append(s.salesOrders, docs...)
	return nil
}

func (s *Store) WriteDeliveries(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, docs...)
	return nil
}

func (s *Store) WriteCustomerInvoices(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerInvoices = append(s.customerInvoices, docs...)
	return nil
}

func (s *Store) WriteReceipts(_ context.Context, docs []*flow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, docs...)
	return nil
}

func (s *Store) WriteDocumentReferences(_ context.Context, refs []flow.DocumentReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentRefs = append(s.documentRefs, refs...)
	return nil
}

func (s *Store) WriteSoDRules(_ context.Context, rules []registry.SoDRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sodRules = append(s.sodRules, rules...)
	return nil
}

func (s *Store) WriteSoDConflicts(_ context.Context, conflicts []registry.SoDConflict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sodConflicts = append(s.sodConflicts, conflicts...)
	return nil
}

func (s *Store) WriteInternalControls(_ context.Context, controls []registry.InternalControl) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.internalControls = append(s.internalControls, controls...)
	return nil
}

func (s *Store) WriteControlAccountMappings(_ context.Context, mappings []registry.ControlAccountMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlAccountMappings = append(s.controlAccountMappings, mappings...)
	return nil
}

func (s *Store) WriteEntries(_ context.Context, entries []*journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *Store) WriteTrialBalance(_ context.Context, tb balance.TrialBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trialBalances = append(s.trialBalances, tb)
	return nil
}

func (s *Store) WriteAnomalyLabels(_ context.Context, labels []anomaly.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anomalyLabels = append(s.anomalyLabels, labels...)
	return nil
}

// Flush is a no-op: memory writes are already durable within the process.
func (s *Store) Flush(_ context.Context) error { return nil }

// Close is a no-op: there is nothing to release.
func (s *Store) Close() error { return nil }

// Accounts returns every account written so far, for test assertions.
func (s *Store) Accounts() []registry.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]registry.Account(nil), s.accounts...)
}

// Entries returns every journal entry written so far, for test assertions.
func (s *Store) Entries() []*journal.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*journal.Entry(nil), s.entries...)
}

// TrialBalances returns every trial balance snapshot written so far.
func (s *Store) TrialBalances() []balance.TrialBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]balance.TrialBalance(nil), s.trialBalances...)
}

// AnomalyLabels returns every anomaly label written so far.
func (s *Store) AnomalyLabels() []anomaly.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]anomaly.Label(nil), s.anomalyLabels...)
}

// PurchaseOrders returns every purchase-order document written so far.
func (s *Store) PurchaseOrders() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.purchaseOrders...)
}

// GoodsReceipts returns every goods-receipt document written so far.
func (s *Store) GoodsReceipts() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.goodsReceipts...)
}

// VendorInvoices returns every vendor-invoice document written so far.
func (s *Store) VendorInvoices() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.vendorInvoices...)
}

// Payments returns every payment document written so far.
func (s *Store) Payments() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.payments...)
}

// SalesOrders returns every sales-order document written so far.
func (s *Store) SalesOrders() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.salesOrders...)
}

// Deliveries returns every delivery document written so far.
func (s *Store) Deliveries() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.deliveries...)
}

// CustomerInvoices returns every customer-invoice document written so far.
func (s *Store) CustomerInvoices() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.customerInvoices...)
}

// Receipts returns every receipt document written so far.
func (s *Store) Receipts() []*flow.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*flow.Document(nil), s.receipts...)
}

// DocumentReferences returns every document-flow DAG edge written so far.
func (s *Store) DocumentReferences() []flow.DocumentReference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]flow.DocumentReference(nil), s.documentRefs...)
}

// SoDConflicts returns every segregation-of-duties conflict written so far.
func (s *Store) SoDConflicts() []registry.SoDConflict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]registry.SoDConflict(nil), s.sodConflicts...)
}

// InternalControls returns every internal-control record written so far.
func (s *Store) InternalControls() []registry.InternalControl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]registry.InternalControl(nil), s.internalControls...)
}
