package distribution

import (
	"math"

	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// roundSnaps are the nearest-round-number anchors spec §4.2 names.
var roundSnaps = []int64{100, 1000, 5000, 10000}

// niceEndings are the cent endings of the x99.99 / x49.95 patterns;
// snapNice pairs .99 with an integer part ending in 99 and .95 with one
// ending in 49.
var niceEndings = []string{".99", ".95"}

// RoundNumberBias snaps amounts toward human-chosen-looking values, the
// way manually entered journal lines cluster around round numbers.
type RoundNumberBias struct {
	PRound float64 // probability of snapping to the nearest {100,1000,5000,10000}
	PNice  float64 // probability of snapping to an x99.99/x49.95 pattern
}

// Apply probabilistically snaps amount per the configured PRound/PNice.
func (b RoundNumberBias) Apply(amount types.Decimal, s *rng.Stream) types.Decimal {
	u := s.Float64()
	switch {
	case u < b.PRound:
		return snapRound(amount)
	case u < b.PRound+b.PNice:
		return snapNice(amount, s)
	default:
		return amount
	}
}

// snapRound rounds amount to the nearest multiple of the largest anchor
// that does not exceed the amount's power of ten (the smallest anchor for
// amounts below it), e.g. 95 -> 100 and 9873 -> 10000.
func snapRound(amount types.Decimal) types.Decimal {
	value := amount.Float64()
	magnitude := math.Pow(10, float64(FormatExp(value)))
	anchor := roundSnaps[0]
	for _, a := range roundSnaps {
		if float64(a) <= magnitude {
			anchor = a
		}
	}
	return types.NewFromInt(int64(roundToNearest(value/float64(anchor))) * anchor)
}

func snapNice(amount types.Decimal, s *rng.Stream) types.Decimal {
	base := int64(amount.Float64())
	if base <= 0 {
		base = 1
	}
	ending := niceEndings[s.Intn(len(niceEndings))]
	tail := int64(99)
	if ending == ".95" {
		tail = 49
	}
	// nearest integer part ending in tail (x99 or x49)
	base = (base+50-tail)/100*100 + tail
	str := formatInt(base) + ending
	result, err := types.ParseDecimal(str)
	if err != nil {
		return amount
	}
	return result
}

func roundToNearest(x float64) float64 {
	if x < 0 {
		return -roundToNearest(-x)
	}
	whole := float64(int64(x))
	frac := x - whole
	if frac >= 0.5 {
		return whole + 1
	}
	return whole
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func formatInt(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
