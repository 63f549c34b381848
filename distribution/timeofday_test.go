package distribution

import (
	"testing"
	"time"

	"github.com/synthledger/core/rng"
)

func TestTimeOfDayWeekdayInBounds(t *testing.T) {
	s := rng.Root(1).MustSplit("test")
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		d := DefaultTimeOfDay.Sample(s, monday, false)
		if d < 0 || d >= 24*time.Hour {
			t.Fatalf("Sample() = %v, out of [0,24h)", d)
		}
	}
}

func TestTimeOfDayWeekendZeroUnlessAllowed(t *testing.T) {
	s := rng.Root(2).MustSplit("test")
	saturday := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	if d := DefaultTimeOfDay.Sample(s, saturday, false); d != 0 {
		t.Fatalf("Sample() on weekend without allowWeekend = %v, want 0", d)
	}
	d := DefaultTimeOfDay.Sample(s, saturday, true)
	if d < 0 || d >= 24*time.Hour {
		t.Fatalf("Sample() with allowWeekend = %v, out of [0,24h)", d)
	}
}
