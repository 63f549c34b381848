package schedule

import (
	"testing"
	"time"

	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

func testScheduler() *Scheduler {
	return NewScheduler(
		distribution.DefaultSeasonality,
		DefaultDayOfWeekWeights,
		distribution.DefaultTimeOfDay,
		distribution.LogNormal{Mu: 0.7, Sigma: 0.5, Min: types.Zero, Max: types.NewFromInt(30)},
		map[string]string{"US01": "US", "DE01": "DE"},
	)
}

func TestAssignPostDateNeverBeforeDocDate(t *testing.T) {
	s := testScheduler()
	stream := rng.Root(1).MustSplit("test")
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	docDate, postDate := s.Assign("Manual", "US01", monday, stream)
	if postDate.Before(docDate) {
		t.Fatalf("postDate %v before docDate %v", postDate, docDate)
	}
}

func TestAssignPostDateIsBusinessDay(t *testing.T) {
	s := testScheduler()
	stream := rng.Root(2).MustSplit("test")
	cal := NewCalendar("US")
	friday := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

	_, postDate := s.Assign("Manual", "US01", friday, stream)
	if !cal.IsBusinessDay(postDate) {
		t.Fatalf("postDate %v is not a US business day", postDate)
	}
}

func TestAssignDocDateBatchAllowsWeekend(t *testing.T) {
	s := testScheduler()
	stream := rng.Root(3).MustSplit("test")
	saturday := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	docDate, _ := s.Assign("Batch", "US01", saturday, stream)
	if docDate.Weekday() != time.Saturday {
		t.Fatalf("expected Batch docDate to remain on Saturday, got %v", docDate.Weekday())
	}
}

func TestAssignDocDateManualSkipsWeekend(t *testing.T) {
	s := testScheduler()
	stream := rng.Root(4).MustSplit("test")
	saturday := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	docDate, _ := s.Assign("Manual", "US01", saturday, stream)
	if docDate.Weekday() == time.Saturday || docDate.Weekday() == time.Sunday {
		t.Fatalf("expected Manual docDate to skip the weekend, got %v", docDate.Weekday())
	}
}

func TestWeightHigherNearMonthEnd(t *testing.T) {
	s := testScheduler()
	midMonth := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	if s.Weight(monthEnd) <= s.Weight(midMonth)*0.5 {
		// month-end Friday compounds a seasonality ramp on top of a
		// comparable day-of-week weight; this is a loose sanity check,
		// not an exact ratio.
		t.Fatalf("expected month-end weight to be comparable or higher: mid=%f end=%f", s.Weight(midMonth), s.Weight(monthEnd))
	}
}

func TestUnknownCompanyFallsBackToWeekendsOnlyCalendar(t *testing.T) {
	s := testScheduler()
	stream := rng.Root(5).MustSplit("test")
	thursday := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC) // US holiday, unknown company ignores it
	docDate, _ := s.Assign("Manual", "ZZ99", thursday, stream)
	if docDate.Weekday() == time.Saturday || docDate.Weekday() == time.Sunday {
		t.Fatalf("unexpected weekend docDate for unknown company: %v", docDate.Weekday())
	}
}
