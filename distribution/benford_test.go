package distribution

import (
	"testing"

	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

func TestSampleBenfordDigitIsInRange(t *testing.T) {
	s := rng.Root(1).MustSplit("test")
	for i := 0; i < 500; i++ {
		d := SampleBenfordDigit(s)
		if d < 1 || d > 9 {
			t.Fatalf("SampleBenfordDigit() = %d, out of [1,9]", d)
		}
	}
}

func TestSampleBenfordDigitMatchesDistribution(t *testing.T) {
	s := rng.Root(2).MustSplit("test")
	const n = 20000
	amounts := make([]types.Decimal, n)
	for i := 0; i < n; i++ {
		d := SampleBenfordDigit(s)
		amounts[i] = types.NewFromInt(int64(d) * 100)
	}
	chi := ChiSquareLeadingDigit(amounts)
	if chi > 15.51 {
		t.Fatalf("chi-square = %v, want < 15.51 (p=0.05, df=8)", chi)
	}
}

func TestApplyBenfordPreservesSign(t *testing.T) {
	s := rng.Root(3).MustSplit("test")
	amount := types.NewFromInt(-5000)
	got := ApplyBenford(amount, s)
	if !got.IsNegative() {
		t.Fatalf("ApplyBenford(-5000) = %s, want negative", got)
	}
}

func TestApplyBenfordZeroUnchanged(t *testing.T) {
	s := rng.Root(4).MustSplit("test")
	if got := ApplyBenford(types.Zero, s); !got.IsZero() {
		t.Fatalf("ApplyBenford(0) = %s, want 0", got)
	}
}

func TestFormatExp(t *testing.T) {
	cases := map[float64]int{
		1:     0,
		9:     0,
		10:    1,
		999:   2,
		1000:  3,
		0.5:   -1,
		12345: 4,
	}
	for value, want := range cases {
		if got := FormatExp(value); got != want {
			t.Fatalf("FormatExp(%v) = %d, want %d", value, got, want)
		}
	}
}
