package close

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

func testDocID(index int) id.ID {
	return id.New(uuid.Nil, id.PrefixJournalEntry, "close-test", index)
}

func testRegistryWithCloseAccounts(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	accounts := []registry.Account{
		{Code: "5700", Name: "Accrued Expense", Type: registry.Expense},
		{Code: "2190", Name: "Accrued Liabilities", Type: registry.Liability},
		{Code: "5800", Name: "Depreciation Expense", Type: registry.Expense},
		{Code: "1590", Name: "Accumulated Depreciation", Type: registry.Asset},
		{Code: "4000", Name: "Sales Revenue", Type: registry.Revenue},
		{Code: "5000", Name: "COGS", Type: registry.Expense},
		{Code: "3900", Name: "Retained Earnings", Type: registry.Equity},
		{Code: "5950", Name: "Reconciliation Variance", Type: registry.Expense},
	}
	if err := reg.AddAccounts(accounts); err != nil {
		t.Fatalf("AddAccounts: %v", err)
	}
	if err := reg.AddEmployees(nil); err != nil {
		t.Fatalf("AddEmployees: %v", err)
	}
	if err := reg.AddVendors(nil); err != nil {
		t.Fatalf("AddVendors: %v", err)
	}
	if err := reg.AddCustomers(nil); err != nil {
		t.Fatalf("AddCustomers: %v", err)
	}
	if err := reg.AddMaterials(nil); err != nil {
		t.Fatalf("AddMaterials: %v", err)
	}
	if err := reg.AddAssets(nil); err != nil {
		t.Fatalf("AddAssets: %v", err)
	}
	reg.Seal()
	return reg
}

func TestClosePeriodPostsBalancedAccrualsAndDepreciation(t *testing.T) {
	reg := testRegistryWithCloseAccounts(t)
	tracker := balance.New(reg)
	defer tracker.Close()

	engine := NewEngine(tracker, reg, uuid.Nil)
	stream := rng.Root(1).MustSplit("test")
	period := balance.Period{FiscalYear: 2024, FiscalPeriod: 6}
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	assets := []registry.FixedAsset{
		{Name: "Forklift", Class: registry.AssetClassMachinery, DepreciationMethod: registry.StraightLine, AcquisitionCost: types.NewFromInt(12000), SalvageValue: types.Zero, UsefulLifeMonths: 24},
	}

	ctx := context.Background()
	result, err := engine.ClosePeriod(ctx, period, end, []string{"US01"}, assets, 1, nil, false, false, stream)
	if err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("len(result.Entries) = %d, want 2 (accrual + depreciation)", len(result.Entries))
	}
	for _, e := range result.Entries {
		if !e.IsBalanced() {
			t.Fatalf("entry %s not balanced", e.DocID)
		}
	}

	balanced, err := tracker.IsBalanced(ctx)
	if err != nil {
		t.Fatalf("IsBalanced: %v", err)
	}
	if !balanced {
		t.Fatal("tracker not balanced after close")
	}
}

func TestClosePeriodReconciliationPostsVarianceWhenBeyondTolerance(t *testing.T) {
	reg := testRegistryWithCloseAccounts(t)
	tracker := balance.New(reg)
	defer tracker.Close()

	engine := NewEngine(tracker, reg, uuid.Nil)
	stream := rng.Root(2).MustSplit("test")
	period := balance.Period{FiscalYear: 2024, FiscalPeriod: 3}
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	subledgerTotals := map[string]types.Decimal{"4000": types.NewFromInt(500)}
	ctx := context.Background()
	result, err := engine.ClosePeriod(ctx, period, end, []string{"US01"}, nil, 0, subledgerTotals, false, false, stream)
	if err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}
	if len(result.ReconciliationDiffs) != 1 {
		t.Fatalf("len(result.ReconciliationDiffs) = %d, want 1", len(result.ReconciliationDiffs))
	}
	foundVarianceEntry := false
	for _, e := range result.Entries {
		for _, l := range e.Lines {
			if l.Account == "5950" {
				foundVarianceEntry = true
			}
		}
	}
	if !foundVarianceEntry {
		t.Fatal("expected a reconciliation variance entry touching account 5950")
	}
}

func TestClosePeriodAnnualClosingZeroesRevenueAndExpense(t *testing.T) {
	reg := testRegistryWithCloseAccounts(t)
	tracker := balance.New(reg)
	defer tracker.Close()

	period := balance.Period{FiscalYear: 2024, FiscalPeriod: 12}
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	// Seed revenue/expense balances directly via a posted entry.
	seed := journal.Entry{
		DocID:        testDocID(1),
		Company:      "US01",
		FiscalYear:   period.FiscalYear,
		FiscalPeriod: period.FiscalPeriod,
		Lines: []journal.Line{
			{Account: "4000", Credit: types.NewFromInt(10000), AmountLC: types.NewFromInt(10000), AmountTC: types.NewFromInt(10000)},
			{Account: "5000", Debit: types.NewFromInt(6000), AmountLC: types.NewFromInt(6000), AmountTC: types.NewFromInt(6000)},
			{Account: "1590", Debit: types.NewFromInt(4000), AmountLC: types.NewFromInt(4000), AmountTC: types.NewFromInt(4000)},
		},
	}
	if err := tracker.Post(ctx, seed); err != nil {
		t.Fatalf("seed Post: %v", err)
	}

	engine := NewEngine(tracker, reg, uuid.Nil)
	stream := rng.Root(3).MustSplit("test")
	result, err := engine.ClosePeriod(ctx, period, end, []string{"US01"}, nil, 0, nil, false, true, stream)
	if err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}

	found := false
	for _, e := range result.Entries {
		for _, l := range e.Lines {
			if l.Account == "3900" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected an annual closing entry touching retained earnings 3900")
	}

	balanced, err := tracker.IsBalanced(ctx)
	if err != nil {
		t.Fatalf("IsBalanced: %v", err)
	}
	if !balanced {
		t.Fatal("tracker not balanced after annual close")
	}
}
