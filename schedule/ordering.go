package schedule

import (
	"container/heap"

	"github.com/synthledger/core/journal"
)

// EntrySource yields entries in increasing (posting_date, doc_id) order
// from one shard. RunShards callers wrap each shard's output channel (or a
// pre-sorted slice) to satisfy this.
type EntrySource interface {
	// Next returns the next entry in order, or ok=false when exhausted.
	Next() (entry *journal.Entry, ok bool)
}

// SliceSource adapts an already-sorted []*journal.Entry into an
// EntrySource, for shards materialized in memory before the merge.
type SliceSource struct {
	entries []*journal.Entry
	pos     int
}

// NewSliceSource wraps entries, which must already be sorted by
// (posting_date, doc_id).
func NewSliceSource(entries []*journal.Entry) *SliceSource {
	return &SliceSource{entries: entries}
}

func (s *SliceSource) Next() (*journal.Entry, bool) {
	if s.pos >= len(s.entries) {
		return nil, false
	}
	e := s.entries[s.pos]
	s.pos++
	return e, true
}

// less reports whether a sorts before b under the strict (posting_date,
// doc_id) ordering contract, per spec §4.8/§5.
func less(a, b *journal.Entry) bool {
	if !a.PostingDate.Equal(b.PostingDate) {
		return a.PostingDate.Before(b.PostingDate)
	}
	return a.DocID.String() < b.DocID.String()
}

// mergeItem is one heap element: the current head entry of a shard, plus
// which shard it came from so the merge can pull the shard's next entry
// after popping this one.
type mergeItem struct {
	entry    *journal.Entry
	shardIdx int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return less(h[i].entry, h[j].entry) }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(mergeItem)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MergeOrdered performs a k-way merge across shard sources, yielding every
// entry in strict ascending (posting_date, doc_id) order, for
// ordered_output=true generation runs (spec §5).
func MergeOrdered(sources []EntrySource) []*journal.Entry {
	h := make(mergeHeap, 0, len(sources))
	for i, src := range sources {
		if e, ok := src.Next(); ok {
			h = append(h, mergeItem{entry: e, shardIdx: i})
		}
	}
	heap.Init(&h)

	var merged []*journal.Entry
	for h.Len() > 0 {
		top := heap.Pop(&h).(mergeItem)
		merged = append(merged, top.entry)
		if next, ok := sources[top.shardIdx].Next(); ok {
			heap.Push(&h, mergeItem{entry: next, shardIdx: top.shardIdx})
		}
	}
	return merged
}
