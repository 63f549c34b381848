package synth_test

import (
	"context"
	"testing"
	"time"

	synth "github.com/synthledger/core"
	"github.com/synthledger/core/sink/memory"
)

// TestDocumentationExamples exercises the Quick Start steps from doc.go
// (DefaultConfig, Validate, New with a memory sink, Run) on a smaller
// config, so the package comment never drifts out of sync with the
// actual API.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		cfg := synth.DefaultConfig()
		cfg.Seed = 42
		cfg.PeriodMonths = 1
		cfg.StartDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		cfg.Flow.FlowsPerCompany = 5
		cfg.Flow.ShardCount = 2
		cfg.Accounts.AccountsPerLeg = 2
		cfg.Employees.Count = 5
		cfg.Vendors.Count = 5
		cfg.Customers.Count = 5
		cfg.Materials.Count = 5
		cfg.Assets.Count = 2

		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}

		store := memory.New()
		orch, err := synth.New(cfg, store)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		ctx := context.Background()
		if err := orch.Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if len(store.Accounts()) == 0 {
			t.Error("expected at least one account to be written")
		}
		if len(store.TrialBalances()) != cfg.PeriodMonths {
			t.Errorf("TrialBalances: got %d, want %d", len(store.TrialBalances()), cfg.PeriodMonths)
		}
		if len(store.PurchaseOrders()) == 0 && len(store.SalesOrders()) == 0 {
			t.Error("expected at least one document flow to produce a purchase order or sales order")
		}
		if len(store.InternalControls()) == 0 {
			t.Error("expected at least one control account to produce an internal control")
		}
	})

	t.Run("RunRejectsInvalidConfig", func(t *testing.T) {
		cfg := synth.DefaultConfig()
		cfg.Companies = nil

		if err := cfg.Validate(); err == nil {
			t.Fatal("expected Validate to reject a config with no companies")
		}

		if _, err := synth.New(cfg, memory.New()); err == nil {
			t.Fatal("expected New to reject a config that fails Validate")
		}
	})

	t.Run("NewRequiresAtLeastOneSink", func(t *testing.T) {
		cfg := synth.DefaultConfig()
		if _, err := synth.New(cfg); err != synth.ErrNoSinks {
			t.Fatalf("New with no sinks: got %v, want %v", err, synth.ErrNoSinks)
		}
	})
}
