package balance

import (
	"context"
	"testing"
	"time"

	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/types"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	accounts := []registry.Account{
		{Code: "1000", Type: registry.Asset, NormalBalance: registry.Debit},
		{Code: "4000", Type: registry.Revenue, NormalBalance: registry.Credit},
	}
	if err := reg.AddAccounts(accounts); err != nil {
		t.Fatalf("AddAccounts: %v", err)
	}
	reg.Seal()
	return reg
}

func balancedEntry(debit, credit types.Decimal) journal.Entry {
	return journal.Entry{
		DocID:        id.ID{},
		Company:      "US01",
		FiscalYear:   2024,
		FiscalPeriod: 1,
		PostingDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Lines: []journal.Line{
			{Account: "1000", Debit: debit, Credit: types.Zero},
			{Account: "4000", Debit: types.Zero, Credit: credit},
		},
	}
}

func TestTrackerPostAndSnapshot(t *testing.T) {
	reg := testRegistry(t)
	tr := New(reg)
	defer tr.Close()

	ctx := context.Background()
	amount := types.NewFromInt(100)
	if err := tr.Post(ctx, balancedEntry(amount, amount)); err != nil {
		t.Fatalf("Post: %v", err)
	}

	tb, err := tr.Snapshot(ctx, Period{FiscalYear: 2024, FiscalPeriod: 1})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(tb.Lines) != 2 {
		t.Fatalf("len(tb.Lines) = %d, want 2", len(tb.Lines))
	}
	if !tb.TotalDebits().Equal(tb.TotalCredits()) {
		t.Fatalf("TotalDebits=%s != TotalCredits=%s", tb.TotalDebits(), tb.TotalCredits())
	}
}

func TestTrackerRejectsUnbalancedEntry(t *testing.T) {
	reg := testRegistry(t)
	tr := New(reg)
	defer tr.Close()

	ctx := context.Background()
	bad := balancedEntry(types.NewFromInt(100), types.NewFromInt(50))
	if err := tr.Post(ctx, bad); err == nil {
		t.Fatal("expected error posting unbalanced entry")
	}
}

func TestTrackerIsBalancedAfterMatchedPostings(t *testing.T) {
	reg := testRegistry(t)
	tr := New(reg)
	defer tr.Close()

	ctx := context.Background()
	amount := types.NewFromInt(250)
	if err := tr.Post(ctx, balancedEntry(amount, amount)); err != nil {
		t.Fatalf("Post: %v", err)
	}
	ok, err := tr.IsBalanced(ctx)
	if err != nil {
		t.Fatalf("IsBalanced: %v", err)
	}
	if !ok {
		t.Fatal("IsBalanced() = false, want true after Asset debit == Revenue credit")
	}
}

func TestTrackerCloseRejectsFurtherPosts(t *testing.T) {
	reg := testRegistry(t)
	tr := New(reg)
	tr.Close()

	ctx := context.Background()
	err := tr.Post(ctx, balancedEntry(types.NewFromInt(1), types.NewFromInt(1)))
	if err == nil {
		t.Fatal("expected error posting after Close")
	}
}
