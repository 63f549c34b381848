package distribution

import (
	"testing"

	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

func TestRoundNumberBiasAlwaysSnapsRound(t *testing.T) {
	b := RoundNumberBias{PRound: 1.0, PNice: 0.0}
	s := rng.Root(1).MustSplit("test")
	amount := types.NewFromInt(9873)
	got := b.Apply(amount, s)
	want := types.NewFromInt(10000)
	if !got.Equal(want) {
		t.Fatalf("Apply() = %s, want %s", got, want)
	}
}

func TestRoundNumberBiasAlwaysSnapsNice(t *testing.T) {
	b := RoundNumberBias{PRound: 0.0, PNice: 1.0}
	s := rng.Root(2).MustSplit("test")
	amount := types.NewFromInt(500)
	got := b.Apply(amount, s)
	str := got.String()
	suffix := str[len(str)-3:]
	if suffix != ".99" && suffix != ".95" {
		t.Fatalf("Apply() = %s, want a .99 or .95 ending", got)
	}
}

func TestRoundNumberBiasPassthrough(t *testing.T) {
	b := RoundNumberBias{PRound: 0.0, PNice: 0.0}
	s := rng.Root(3).MustSplit("test")
	amount := types.NewFromInt(1234)
	got := b.Apply(amount, s)
	if !got.Equal(amount) {
		t.Fatalf("Apply() = %s, want unchanged %s", got, amount)
	}
}

func TestSnapRoundPicksNearestAnchor(t *testing.T) {
	got := snapRound(types.NewFromInt(95))
	want := types.NewFromInt(100)
	if !got.Equal(want) {
		t.Fatalf("snapRound(95) = %s, want %s", got, want)
	}
}
