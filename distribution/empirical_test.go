package distribution

import (
	"testing"

	"github.com/synthledger/core/rng"
)

func TestEmpiricalSingleBucketAlwaysWins(t *testing.T) {
	e, err := NewEmpirical(map[string]float64{"2": 1.0})
	if err != nil {
		t.Fatalf("NewEmpirical: %v", err)
	}
	s := rng.Root(1).MustSplit("test")
	for i := 0; i < 50; i++ {
		if got := e.Sample(s); got != 2 {
			t.Fatalf("Sample() = %d, want 2", got)
		}
	}
}

func TestEmpiricalRangeBucketStaysInRange(t *testing.T) {
	e, err := NewEmpirical(map[string]float64{"10-99": 1.0})
	if err != nil {
		t.Fatalf("NewEmpirical: %v", err)
	}
	s := rng.Root(2).MustSplit("test")
	for i := 0; i < 200; i++ {
		got := e.Sample(s)
		if got < 10 || got > 99 {
			t.Fatalf("Sample() = %d, out of range [10,99]", got)
		}
	}
}

func TestEmpiricalDistributionShape(t *testing.T) {
	e, err := NewEmpirical(map[string]float64{"2": 0.9, "3": 0.1})
	if err != nil {
		t.Fatalf("NewEmpirical: %v", err)
	}
	s := rng.Root(3).MustSplit("test")
	counts := map[int]int{}
	const n = 5000
	for i := 0; i < n; i++ {
		counts[e.Sample(s)]++
	}
	frac2 := float64(counts[2]) / n
	if frac2 < 0.85 || frac2 > 0.95 {
		t.Fatalf("fraction of 2s = %.3f, want close to 0.9", frac2)
	}
}

func TestEmpiricalZeroWeightBucketsDropped(t *testing.T) {
	e, err := NewEmpirical(map[string]float64{"2": 1.0, "5": 0})
	if err != nil {
		t.Fatalf("NewEmpirical: %v", err)
	}
	s := rng.Root(4).MustSplit("test")
	for i := 0; i < 20; i++ {
		if got := e.Sample(s); got != 2 {
			t.Fatalf("Sample() = %d, want 2 (zero-weight bucket should never be picked)", got)
		}
	}
}

func TestEmpiricalNoPositiveWeightsIsError(t *testing.T) {
	if _, err := NewEmpirical(map[string]float64{"2": 0, "3": -1}); err == nil {
		t.Fatal("expected error for all-non-positive weights")
	}
}

func TestEmpiricalBadKeyIsError(t *testing.T) {
	if _, err := NewEmpirical(map[string]float64{"abc": 1.0}); err == nil {
		t.Fatal("expected error for non-numeric key")
	}
}
