package distribution

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/synthledger/core/rng"
)

// Empirical is a categorical distribution over string-keyed buckets, used
// for the line-count distribution (spec §4.2), e.g.
// {"2": 0.61, "3": 0.06, "10-99": 0.06}. A key may be a single integer or
// an inclusive "lo-hi" range; when a range bucket is selected, the final
// value is drawn uniformly from within it.
type Empirical struct {
	weights []weightedKey
	total   float64
}

type weightedKey struct {
	lo, hi int
	weight float64
}

// NewEmpirical builds a categorical sampler from a weight map. Sample scans
// the buckets' cumulative weights; no alias table is built.
// Zero-probability buckets are dropped; weights need not already sum to 1
// (config validation rejects weight maps that do not, but Sample scales its
// draw by the total weight, so the sampler is correct even if called
// directly in a test).
func NewEmpirical(weights map[string]float64) (*Empirical, error) {
	e := &Empirical{}
	for key, w := range weights {
		if w <= 0 {
			continue
		}
		lo, hi, err := parseRangeKey(key)
		if err != nil {
			return nil, err
		}
		e.weights = append(e.weights, weightedKey{lo: lo, hi: hi, weight: w})
		e.total += w
	}
	if len(e.weights) == 0 {
		return nil, fmt.Errorf("distribution: empirical distribution has no positive-weight buckets")
	}
	sort.Slice(e.weights, func(i, j int) bool { return e.weights[i].lo < e.weights[j].lo })
	return e, nil
}

func parseRangeKey(key string) (lo, hi int, err error) {
	if idx := strings.IndexByte(key, '-'); idx > 0 {
		lo, err = strconv.Atoi(strings.TrimSpace(key[:idx]))
		if err != nil {
			return 0, 0, fmt.Errorf("distribution: bad range key %q: %w", key, err)
		}
		hi, err = strconv.Atoi(strings.TrimSpace(key[idx+1:]))
		if err != nil {
			return 0, 0, fmt.Errorf("distribution: bad range key %q: %w", key, err)
		}
		return lo, hi, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, 0, fmt.Errorf("distribution: bad key %q: %w", key, err)
	}
	return v, v, nil
}

// Sample draws one value, resolving a range bucket to a uniform draw
// within [lo, hi].
func (e *Empirical) Sample(s *rng.Stream) int {
	u := s.Float64() * e.total
	cum := 0.0
	for _, wk := range e.weights {
		cum += wk.weight
		if u < cum {
			if wk.lo == wk.hi {
				return wk.lo
			}
			return s.UniformInt(wk.lo, wk.hi)
		}
	}
	last := e.weights[len(e.weights)-1]
	if last.lo == last.hi {
		return last.lo
	}
	return s.UniformInt(last.lo, last.hi)
}
