package anomaly

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/rng"
)

// TypeWeight pairs an anomaly type with its share of the injection budget.
type TypeWeight struct {
	Type   Type
	Weight float64
}

// Budget configures one Inject call, per spec §4.9 step 1.
type Budget struct {
	TotalRate float64 // fraction of the window to target, e.g. 0.02
	Weights   []TypeWeight
	// ClusterSize is how many correlated entries a StrategyCluster type
	// groups under one pattern_id (>= 2).
	ClusterSize int
}

// Result is what one Inject call produced.
type Result struct {
	// Entries is the full output window: unmodified entries plus the
	// replacement set for every transformed entry, in the same relative
	// order the window was given in.
	Entries []*journal.Entry
	Labels  []Label
	// RealizedRate is len(modified)/len(candidates), where candidates are
	// the window's non-close entries.
	RealizedRate float64
}

// Injector selects candidate entries from a window and applies typed
// anomaly transformations to them, per spec §4.9.
type Injector struct {
	Namespace uuid.UUID
	nextIndex int
}

// NewInjector builds an Injector deriving anomaly-document IDs from
// namespace.
func NewInjector(namespace uuid.UUID) *Injector {
	return &Injector{Namespace: namespace}
}

// Inject applies budget to window: it computes how many entries to target
// per type (proportioned by Weights), selects candidates per type's
// configured Strategy, applies the transform, and emits one Label per
// modified entry. Entries with Source == journal.SourceClose are excluded
// from the candidate pool, per spec §9(b) (the window stays the full
// transactional set; close entries are simply never labeled). A
// transform whose result does not balance is discarded and that entry is
// left untouched. An entry may receive at most one anomaly.
//
// Inject returns ErrUnmetBudget (non-fatal, alongside the Result it did
// produce) if the realized rate strays more than 10% from budget.TotalRate.
func (inj *Injector) Inject(window []*journal.Entry, budget Budget, stream *rng.Stream) (Result, error) {
	candidates := make([]int, 0, len(window))
	for i, e := range window {
		if e.Source != journal.SourceClose {
			candidates = append(candidates, i)
		}
	}

	target := int(float64(len(candidates))*budget.TotalRate + 0.5)
	perType := allocateByWeight(target, budget.Weights)

	used := make(map[int]bool, target)
	replacements := make(map[int][]*journal.Entry, target)
	var labels []Label

	for _, tw := range budget.Weights {
		n := perType[tw.Type]
		if n <= 0 {
			continue
		}
		info, ok := typeCatalog[tw.Type]
		if !ok {
			continue
		}
		picks := selectCandidates(candidates, used, n, info.Strategy, window, stream)
		if info.Strategy == StrategyCluster && budget.ClusterSize >= 2 {
			labels = append(labels, inj.applyCluster(window, replacements, picks, tw.Type, budget.ClusterSize, stream)...)
		} else {
			for _, idx := range picks {
				lbl, ok := inj.applyOne(window, replacements, idx, tw.Type, stream)
				if ok {
					labels = append(labels, lbl)
					used[idx] = true
				}
			}
		}
	}

	modified := len(replacements)
	realized := 0.0
	if len(candidates) > 0 {
		realized = float64(modified) / float64(len(candidates))
	}

	entries := make([]*journal.Entry, 0, len(window))
	for i, e := range window {
		if r, ok := replacements[i]; ok {
			entries = append(entries, r...)
			continue
		}
		entries = append(entries, e)
	}

	result := Result{Entries: entries, Labels: labels, RealizedRate: realized}

	if budget.TotalRate > 0 {
		lowBound, highBound := budget.TotalRate*0.9, budget.TotalRate*1.1
		if realized < lowBound || realized > highBound {
			return result, ErrUnmetBudget
		}
	}
	return result, nil
}

// applyOne applies typ's transform to the entry at index idx and records
// the transform's result under idx in replacements (one entry for an
// in-place mutation, more when the transform introduces duplicates or
// structuring splits). It verifies every resulting entry still balances
// before accepting the change, per spec §4.9's preserve-balance constraint.
func (inj *Injector) applyOne(window []*journal.Entry, replacements map[int][]*journal.Entry, idx int, typ Type, stream *rng.Stream) (Label, bool) {
	entry := window[idx]
	if entry.IsAnomaly {
		return Label{}, false
	}
	fn, ok := transforms[typ]
	if !ok {
		return Label{}, false
	}

	anomalyID := inj.newID(fmt.Sprintf("anomaly/%s/%d", typ, idx))
	counter := 0
	result, err := fn(entry, stream, func(suffix string) id.ID {
		counter++
		return inj.newID(fmt.Sprintf("anomaly/%s/%d/%s/%d", typ, idx, suffix, counter))
	})
	if err != nil || len(result) == 0 {
		return Label{}, false
	}
	for _, e := range result {
		if !e.SumDebits().Equal(e.SumCredits()) {
			return Label{}, false // transform would break balance; discard
		}
	}

	info := typeCatalog[typ]
	var relatedDocs []string
	for _, e := range result {
		e.IsAnomaly = true
		e.AnomalyID = anomalyID
		relatedDocs = append(relatedDocs, e.DocID.String())
	}
	replacements[idx] = result

	return Label{
		DocID:       result[0].DocID.String(),
		AnomalyID:   anomalyID.String(),
		Category:    info.Category,
		Type:        typ,
		Severity:    info.Severity,
		RelatedDocs: relatedDocs,
	}, true
}

// applyCluster groups up to len(picks)/clusterSize clusters of clusterSize
// correlated entries under a shared pattern_id, per spec §4.9 step 2's
// Cluster strategy ("seed + k correlated entries via pattern_id").
func (inj *Injector) applyCluster(window []*journal.Entry, replacements map[int][]*journal.Entry, picks []int, typ Type, clusterSize int, stream *rng.Stream) []Label {
	var labels []Label
	for start := 0; start+clusterSize <= len(picks); start += clusterSize {
		group := picks[start : start+clusterSize]
		patternID := inj.newID(fmt.Sprintf("anomaly/%s/pattern/%d", typ, start)).String()
		var relatedDocs []string
		for _, idx := range group {
			relatedDocs = append(relatedDocs, window[idx].DocID.String())
		}
		for _, idx := range group {
			lbl, ok := inj.applyOne(window, replacements, idx, typ, stream)
			if !ok {
				continue
			}
			lbl.PatternID = patternID
			lbl.RelatedDocs = relatedDocs
			labels = append(labels, lbl)
		}
	}
	return labels
}

func (inj *Injector) newID(label string) id.ID {
	inj.nextIndex++
	return id.New(inj.Namespace, id.PrefixAnomaly, label, inj.nextIndex)
}

// allocateByWeight distributes target across weights, normalizing first
// (weights need not already sum to 1), flooring each share and handing any
// remainder to the largest-weight type.
func allocateByWeight(target int, weights []TypeWeight) map[Type]int {
	out := make(map[Type]int, len(weights))
	if target <= 0 || len(weights) == 0 {
		return out
	}
	total := 0.0
	for _, w := range weights {
		total += w.Weight
	}
	if total <= 0 {
		return out
	}
	assigned := 0
	sorted := append([]TypeWeight(nil), weights...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Weight > sorted[j].Weight })
	for _, w := range sorted {
		share := int(float64(target) * w.Weight / total)
		out[w.Type] = share
		assigned += share
	}
	if len(sorted) > 0 {
		out[sorted[0].Type] += target - assigned
	}
	return out
}

// selectCandidates picks up to n indices from candidates (skipping any
// already in used) according to strategy. Random/Entity/Cluster all draw
// uniformly here since the full entity/temporal context lives with the
// caller building window; Amount and Temporal bias toward the
// largest-gross and latest-dated entries respectively, approximating
// "threshold-adjacent" and "near period-end" selection without requiring
// the injector to know configured thresholds.
func selectCandidates(candidates []int, used map[int]bool, n int, strategy Strategy, window []*journal.Entry, stream *rng.Stream) []int {
	available := make([]int, 0, len(candidates))
	for _, idx := range candidates {
		if !used[idx] && !window[idx].IsAnomaly {
			available = append(available, idx)
		}
	}
	if len(available) == 0 || n <= 0 {
		return nil
	}

	switch strategy {
	case StrategyAmount:
		sort.Slice(available, func(i, j int) bool {
			return window[available[i]].SumDebits().GreaterThan(window[available[j]].SumDebits())
		})
	case StrategyTemporal:
		sort.Slice(available, func(i, j int) bool {
			return window[available[i]].PostingDate.After(window[available[j]].PostingDate)
		})
	default:
		stream.Shuffle(len(available), func(i, j int) { available[i], available[j] = available[j], available[i] })
	}

	if n > len(available) {
		n = len(available)
	}
	picks := append([]int(nil), available[:n]...)
	for _, idx := range picks {
		used[idx] = true
	}
	return picks
}
