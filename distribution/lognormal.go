// Package distribution implements the statistical distributions spec's
// decimal & distribution kernel (C2) needs: log-normal amounts with
// rejection-sampled clipping, Benford-biased leading digits, round-number
// bias, empirical categorical sampling, time-of-day, and seasonality
// multipliers.
package distribution

import (
	"math"

	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

// maxRejectionTries bounds the log-normal rejection loop before falling
// back to a hard clamp, per spec §4.2.
const maxRejectionTries = 16

// LogNormal is a log-normal distribution clipped to [Min, Max] by rejection
// sampling. Bounds are inclusive on Min, exclusive on Max, per spec's
// tie-break policy.
type LogNormal struct {
	Mu, Sigma float64
	Min, Max  types.Decimal
}

// Sample draws one amount. After maxRejectionTries failed draws it clamps
// into range instead of looping forever, preserving the clipped moments as
// closely as a single extra draw can.
func (l LogNormal) Sample(s *rng.Stream) types.Decimal {
	min := l.Min.Float64()
	max := l.Max.Float64()

	var v types.Decimal
	drawn := false
	for i := 0; i < maxRejectionTries; i++ {
		x := math.Exp(l.Mu + l.Sigma*s.NormFloat64())
		if x >= min && x < max {
			v, drawn = types.NewFromFloat(x), true
			break
		}
	}
	if !drawn {
		x := math.Exp(l.Mu + l.Sigma*s.NormFloat64())
		v = types.NewFromFloat(clamp(x, min, max))
	}
	// rounding to 4 fractional digits can land a value just below Max on
	// Max itself; keep the upper bound exclusive.
	if !v.LessThan(l.Max) {
		v = l.Max.Sub(types.NewDecimal(1, -4))
	}
	return v
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x >= hi {
		// exclusive upper bound: clamp just inside it.
		return math.Nextafter(hi, lo)
	}
	return x
}
