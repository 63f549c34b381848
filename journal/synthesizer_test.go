package journal

import (
	"testing"
	"time"

	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

func testSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	lineDist, err := distribution.NewEmpirical(map[string]float64{"2": 1.0})
	if err != nil {
		t.Fatalf("NewEmpirical: %v", err)
	}
	amountDist := distribution.LogNormal{Mu: 7, Sigma: 1, Min: types.NewFromInt(10), Max: types.NewFromInt(100000)}
	employees := []registry.Employee{
		{ID: id.New(id.Namespace(1), id.PrefixEmployee, "e0", 0), CanCreate: true, CanApprove: false},
		{ID: id.New(id.Namespace(1), id.PrefixEmployee, "e1", 1), CanCreate: false, CanApprove: true},
	}
	ladder := []types.Decimal{types.NewFromInt(1000), types.NewFromInt(10000)}
	return NewSynthesizer(DefaultTemplates, lineDist, amountDist, employees, ladder, id.Namespace(1))
}

func TestDirectProducesBalancedEntry(t *testing.T) {
	s := testSynthesizer(t)
	stream := rng.Root(1).MustSplit("test")
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	entry, err := s.Direct("Direct", "Manual", "US01", date, date, stream, 0)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}
	if !entry.IsBalanced() {
		t.Fatalf("entry not balanced: debits=%s credits=%s", entry.SumDebits(), entry.SumCredits())
	}
	if len(entry.Lines) < 2 {
		t.Fatalf("len(entry.Lines) = %d, want >= 2", len(entry.Lines))
	}
}

func TestFromTransitionUnknownTemplateErrors(t *testing.T) {
	s := testSynthesizer(t)
	stream := rng.Root(2).MustSplit("test")
	date := time.Now()
	_, err := s.FromTransition("Unknown", "Nope", "US01", id.Nil, date, date, stream, 0)
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestDirectManyEntriesAllBalance(t *testing.T) {
	s := testSynthesizer(t)
	stream := rng.Root(3).MustSplit("test")
	date := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		entry, err := s.Direct("Direct", "Recurring", "US01", date, date, stream, i)
		if err != nil {
			t.Fatalf("Direct(%d): %v", i, err)
		}
		if !entry.IsBalanced() {
			t.Fatalf("entry %d not balanced", i)
		}
	}
}
