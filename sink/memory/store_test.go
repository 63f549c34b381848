package memory

import (
	"context"
	"testing"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
)

func TestStoreAccumulatesWrites(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.WriteAccounts(ctx, []registry.Account{{Code: "1000", Name: "Cash"}}); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}
	if err := s.WriteAccounts(ctx, []registry.Account{{Code: "2000", Name: "AP"}}); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}
	if err := s.WriteEntries(ctx, []*journal.Entry{{Company: "US01"}}); err != nil {
		t.Fatalf("WriteEntries: %v", err)
	}
	if err := s.WriteTrialBalance(ctx, balance.TrialBalance{}); err != nil {
		t.Fatalf("WriteTrialBalance: %v", err)
	}
	if err := s.WriteAnomalyLabels(ctx, []anomaly.Label{{DocID: "doc-1"}}); err != nil {
		t.Fatalf("WriteAnomalyLabels: %v", err)
	}

	if got := s.Accounts(); len(got) != 2 {
		t.Fatalf("Accounts: got %d, want 2", len(got))
	}
	if got := s.Entries(); len(got) != 1 {
		t.Fatalf("Entries: got %d, want 1", len(got))
	}
	if got := s.TrialBalances(); len(got) != 1 {
		t.Fatalf("TrialBalances: got %d, want 1", len(got))
	}
	if got := s.AnomalyLabels(); len(got) != 1 {
		t.Fatalf("AnomalyLabels: got %d, want 1", len(got))
	}

	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestStoreAccessorsReturnIndependentCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.WriteAccounts(ctx, []registry.Account{{Code: "1000"}}); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}

	got := s.Accounts()
	got[0].Code = "mutated"

	if s.Accounts()[0].Code != "1000" {
		t.Fatal("mutating the returned slice should not affect the store's internal state")
	}
}
