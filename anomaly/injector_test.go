package anomaly

import (
	"errors"
	"testing"
	"time"

	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

func testWindow(n int) []*journal.Entry {
	namespace := id.Namespace(1)
	window := make([]*journal.Entry, n)
	for i := 0; i < n; i++ {
		amount := types.NewFromInt(int64(100 + i))
		window[i] = &journal.Entry{
			DocID:        id.New(namespace, id.PrefixJournalEntry, "test/window", i),
			Company:      "US01",
			FiscalYear:   2025,
			FiscalPeriod: 1,
			PostingDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Source:       journal.SourceManual,
			Lines: []journal.Line{
				{Account: "1000", Debit: amount},
				{Account: "4000", Credit: amount},
			},
		}
	}
	return window
}

func TestInjectRespectsBudget(t *testing.T) {
	window := testWindow(200)
	budget := Budget{
		TotalRate: 0.1,
		Weights: []TypeWeight{
			{Type: TypeRoundNumberSpike, Weight: 0.5},
			{Type: TypeWeekendPosting, Weight: 0.5},
		},
	}
	stream := rng.Root(7).MustSplit("test/inject")
	inj := NewInjector(id.Namespace(7))

	result, err := inj.Inject(window, budget, stream)
	if err != nil && !errors.Is(err, ErrUnmetBudget) {
		t.Fatalf("Inject: %v", err)
	}
	if len(result.Entries) != len(window) {
		t.Fatalf("Entries: got %d, want %d (window size preserved)", len(result.Entries), len(window))
	}
	for _, lbl := range result.Labels {
		if lbl.AnomalyID == "" {
			t.Error("label missing AnomalyID")
		}
	}
}

func TestInjectExcludesCloseEntries(t *testing.T) {
	window := testWindow(10)
	for _, e := range window {
		e.Source = journal.SourceClose
	}
	budget := Budget{TotalRate: 1.0, Weights: []TypeWeight{{Type: TypeRoundNumberSpike, Weight: 1.0}}}
	stream := rng.Root(1).MustSplit("test/close")
	inj := NewInjector(id.Namespace(1))

	result, _ := inj.Inject(window, budget, stream)
	if len(result.Labels) != 0 {
		t.Fatalf("expected no labels when every entry is a close posting, got %d", len(result.Labels))
	}
}

func TestInjectEveryResultBalances(t *testing.T) {
	window := testWindow(100)
	budget := Budget{
		TotalRate: 0.2,
		Weights: []TypeWeight{
			{Type: TypeTransposedAmount, Weight: 0.5},
			{Type: TypeDuplicatePayment, Weight: 0.5},
		},
	}
	stream := rng.Root(3).MustSplit("test/balance")
	inj := NewInjector(id.Namespace(3))

	result, _ := inj.Inject(window, budget, stream)
	for _, e := range result.Entries {
		if !e.IsBalanced() {
			t.Fatalf("entry %s does not balance: debits=%s credits=%s", e.DocID, e.SumDebits(), e.SumCredits())
		}
	}
}

func TestAllocateByWeightAssignsRemainderToLargest(t *testing.T) {
	weights := []TypeWeight{
		{Type: TypeRoundNumberSpike, Weight: 0.7},
		{Type: TypeWeekendPosting, Weight: 0.3},
	}
	out := allocateByWeight(10, weights)
	if out[TypeRoundNumberSpike]+out[TypeWeekendPosting] != 10 {
		t.Fatalf("allocations don't sum to target: %v", out)
	}
	if out[TypeRoundNumberSpike] < out[TypeWeekendPosting] {
		t.Fatalf("largest weight should get at least as much as the smaller: %v", out)
	}
}
