package schedule

import (
	"testing"
	"time"

	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
)

func entryAt(t time.Time, label string, index int) *journal.Entry {
	return &journal.Entry{
		DocID:       id.New(id.Namespace(1), id.PrefixJournalEntry, label, index),
		PostingDate: t,
	}
}

func TestMergeOrderedInterleavesShardsByPostingDate(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC) }

	shardA := NewSliceSource([]*journal.Entry{entryAt(day(1), "a", 0), entryAt(day(3), "a", 1), entryAt(day(5), "a", 2)})
	shardB := NewSliceSource([]*journal.Entry{entryAt(day(2), "b", 0), entryAt(day(4), "b", 1)})

	merged := MergeOrdered([]EntrySource{shardA, shardB})
	if len(merged) != 5 {
		t.Fatalf("len(merged) = %d, want 5", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].PostingDate.Before(merged[i-1].PostingDate) {
			t.Fatalf("merged output not sorted at index %d: %v before %v", i, merged[i].PostingDate, merged[i-1].PostingDate)
		}
	}
}

func TestMergeOrderedHandlesEmptyShard(t *testing.T) {
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	shardA := NewSliceSource([]*journal.Entry{entryAt(day, "a", 0)})
	shardB := NewSliceSource(nil)

	merged := MergeOrdered([]EntrySource{shardA, shardB})
	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
}

func TestMergeOrderedTiesBrokenByDocID(t *testing.T) {
	same := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	low := &journal.Entry{DocID: id.New(id.Namespace(1), id.PrefixJournalEntry, "x", 0), PostingDate: same}
	high := &journal.Entry{DocID: id.New(id.Namespace(1), id.PrefixJournalEntry, "x", 1), PostingDate: same}

	var first, second *journal.Entry
	if low.DocID.String() < high.DocID.String() {
		first, second = low, high
	} else {
		first, second = high, low
	}

	shardA := NewSliceSource([]*journal.Entry{second})
	shardB := NewSliceSource([]*journal.Entry{first})
	merged := MergeOrdered([]EntrySource{shardA, shardB})

	if merged[0].DocID.String() != first.DocID.String() {
		t.Fatalf("expected docID tie broken ascending, got %s then %s", merged[0].DocID, merged[1].DocID)
	}
}

func TestMergeOrderedNoSources(t *testing.T) {
	merged := MergeOrdered(nil)
	if len(merged) != 0 {
		t.Fatalf("len(merged) = %d, want 0", len(merged))
	}
}
