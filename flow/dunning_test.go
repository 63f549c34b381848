package flow

import (
	"testing"

	"github.com/synthledger/core/rng"
)

func TestLevelForDaysOverdue(t *testing.T) {
	s := DefaultDunningSchedule
	cases := map[int]DunningLevel{
		0:   DunningNone,
		10:  DunningNone,
		15:  DunningReminder,
		29:  DunningReminder,
		30:  DunningFirstNotice,
		75:  DunningFinalNotice,
		200: DunningCollections,
	}
	for days, want := range cases {
		if got := s.LevelForDaysOverdue(days); got != want {
			t.Fatalf("LevelForDaysOverdue(%d) = %v, want %v", days, got, want)
		}
	}
}

func TestSamplePaymentNoneNeverPays(t *testing.T) {
	s := DefaultDunningSchedule
	stream := rng.Root(1).MustSplit("test")
	for i := 0; i < 50; i++ {
		if s.SamplePayment(DunningNone, stream) {
			t.Fatal("DunningNone should never pay")
		}
	}
}
