package flow

import "github.com/synthledger/core/rng"

// DunningLevel is a dunning escalation step, crossed as an open invoice's
// days-overdue passes each configured threshold.
type DunningLevel int

const (
	DunningNone DunningLevel = iota
	DunningReminder
	DunningFirstNotice
	DunningFinalNotice
	DunningCollections
)

// DunningSchedule maps days-overdue thresholds to escalation levels and
// the probability a debtor pays once dunned at that level, per spec §4.6
// ("computing payment-after-dunning probabilities").
type DunningSchedule struct {
	Thresholds   []int // ascending days-overdue, same length as PayProbability
	PayProbability []float64
}

// DefaultDunningSchedule is the spec's named default escalation ladder.
var DefaultDunningSchedule = DunningSchedule{
	Thresholds:     []int{15, 30, 60, 90},
	PayProbability: []float64{0.3, 0.5, 0.65, 0.8},
}

// LevelForDaysOverdue returns the dunning level daysOverdue has crossed
// into.
func (s DunningSchedule) LevelForDaysOverdue(daysOverdue int) DunningLevel {
	level := DunningNone
	for i, threshold := range s.Thresholds {
		if daysOverdue >= threshold {
			level = DunningLevel(i + 1)
		}
	}
	return level
}

// SamplePayment reports whether the debtor pays once dunned at level,
// given its configured probability. DunningNone never pays via dunning.
func (s DunningSchedule) SamplePayment(level DunningLevel, stream *rng.Stream) bool {
	if level == DunningNone || int(level) > len(s.PayProbability) {
		return false
	}
	return stream.Bool(s.PayProbability[level-1])
}
