package rng

import (
	"errors"
	"testing"
)

func TestSplitIsDeterministic(t *testing.T) {
	a := Root(42).MustSplit("p2p/shard/0/amounts")
	b := Root(42).MustSplit("p2p/shard/0/amounts")

	for i := 0; i < 100; i++ {
		if got, want := a.Float64(), b.Float64(); got != want {
			t.Fatalf("draw %d diverged: %v != %v", i, got, want)
		}
	}
}

func TestSplitDiffersByLabel(t *testing.T) {
	root := Root(42)
	a := root.MustSplit("shard/0")
	b := root.MustSplit("shard/1")

	same := true
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("distinct labels produced identical streams")
	}
}

func TestSplitDiffersBySeed(t *testing.T) {
	a := Root(1).MustSplit("x")
	b := Root(2).MustSplit("x")
	if a.Float64() == b.Float64() {
		t.Fatal("distinct seeds produced identical first draw (can happen, but vanishingly rarely); rerun if flaky")
	}
}

func TestDuplicateLabelIsConfigError(t *testing.T) {
	root := Root(7)
	if _, err := root.Split("dup"); err != nil {
		t.Fatalf("first split: %v", err)
	}
	_, err := root.Split("dup")
	if !errors.Is(err, ErrLabelCollision) {
		t.Fatalf("expected ErrLabelCollision, got %v", err)
	}
}

func TestSplitIndexed(t *testing.T) {
	root := Root(3)
	streams, err := root.SplitIndexed("shard", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(streams) != 5 {
		t.Fatalf("got %d streams, want 5", len(streams))
	}
	labels := make(map[string]bool)
	for _, s := range streams {
		labels[s.Label()] = true
	}
	if len(labels) != 5 {
		t.Fatalf("expected 5 distinct labels, got %d", len(labels))
	}
}

func TestUniformIntBounds(t *testing.T) {
	s := Root(9).MustSplit("u")
	for i := 0; i < 1000; i++ {
		v := s.UniformInt(2, 7)
		if v < 2 || v > 7 {
			t.Fatalf("UniformInt(2,7) out of range: %d", v)
		}
	}
}
