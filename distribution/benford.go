package distribution

import (
	"math"
	"strings"

	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// benfordWeights holds P(d) = log10(1 + 1/d) for d in 1..9, precomputed
// once since it never changes.
var benfordWeights = func() [10]float64 {
	var w [10]float64
	for d := 1; d <= 9; d++ {
		w[d] = math.Log10(1 + 1/float64(d))
	}
	return w
}()

// SampleBenfordDigit draws a leading digit 1-9 distributed per Benford's
// law via inverse-CDF sampling over the precomputed weights.
func SampleBenfordDigit(s *rng.Stream) int {
	u := s.Float64()
	cum := 0.0
	for d := 1; d <= 9; d++ {
		cum += benfordWeights[d]
		if u < cum {
			return d
		}
	}
	return 9
}

// ApplyBenford resamples the leading digit of amount to match Benford's
// law while preserving magnitude and the remaining sub-digit pattern, per
// spec §4.2.
func ApplyBenford(amount types.Decimal, s *rng.Stream) types.Decimal {
	if amount.IsZero() {
		return amount
	}
	str := amount.Abs().String()
	digits, dotIdx := stripDot(str)
	if len(digits) == 0 {
		return amount
	}

	firstIdx := 0
	for firstIdx < len(digits) && digits[firstIdx] == '0' {
		firstIdx++
	}
	if firstIdx >= len(digits) {
		return amount
	}

	newDigit := byte('0' + SampleBenfordDigit(s))
	digits = digits[:firstIdx] + string(newDigit) + digits[firstIdx+1:]

	rebuilt := reinsertDot(digits, dotIdx)
	result, err := types.ParseDecimal(rebuilt)
	if err != nil {
		return amount
	}
	if amount.IsNegative() {
		result = result.Neg()
	}
	return result
}

func stripDot(s string) (digits string, dotIdx int) {
	dotIdx = strings.IndexByte(s, '.')
	if dotIdx < 0 {
		return s, -1
	}
	return s[:dotIdx] + s[dotIdx+1:], dotIdx
}

func reinsertDot(digits string, dotIdx int) string {
	if dotIdx < 0 {
		return digits
	}
	return digits[:dotIdx] + "." + digits[dotIdx:]
}

// ChiSquareLeadingDigit computes the chi-square statistic for a set of
// sampled amounts' leading digits against the Benford distribution,
// supporting P5 (chi-square < 15.51 at p=0.05, 8 degrees of freedom).
func ChiSquareLeadingDigit(amounts []types.Decimal) float64 {
	var observed [10]float64
	n := 0.0
	for _, a := range amounts {
		d := a.LeadingDigit()
		if d >= 1 && d <= 9 {
			observed[d]++
			n++
		}
	}
	if n == 0 {
		return 0
	}
	chi := 0.0
	for d := 1; d <= 9; d++ {
		expected := benfordWeights[d] * n
		if expected == 0 {
			continue
		}
		diff := observed[d] - expected
		chi += diff * diff / expected
	}
	return chi
}

// FormatExp returns the base-10 exponent of value, used by round-number
// snapping to find the nearest power-of-ten anchor.
func FormatExp(value float64) int {
	if value == 0 {
		return 0
	}
	return int(math.Floor(math.Log10(math.Abs(value))))
}
