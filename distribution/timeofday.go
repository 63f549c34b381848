package distribution

import (
	"time"

	"github.com/synthledger/core/rng"
)

// TimeOfDay models intra-day posting-time clustering: a normal distribution
// around Center (an offset since midnight), truncated to [0, 24h), so that
// most postings land near business-hours center-of-mass rather than
// uniformly across the day, per spec §4.2.
type TimeOfDay struct {
	Center time.Duration // e.g. 10*time.Hour + 30*time.Minute
	Sigma  time.Duration
}

// DefaultTimeOfDay is the spec's named default: centered at 10:30, sigma 2h.
var DefaultTimeOfDay = TimeOfDay{
	Center: 10*time.Hour + 30*time.Minute,
	Sigma:  2 * time.Hour,
}

// Sample draws a time-of-day offset for date. Weekend dates return the
// zero duration unless allowWeekend is set, reflecting that most
// transactional systems post weekday business hours only.
func (t TimeOfDay) Sample(s *rng.Stream, date time.Time, allowWeekend bool) time.Duration {
	if !allowWeekend && isWeekend(date) {
		return 0
	}
	const dayNanos = float64(24 * time.Hour)
	for i := 0; i < maxRejectionTries; i++ {
		offset := float64(t.Center) + float64(t.Sigma)*s.NormFloat64()
		if offset >= 0 && offset < dayNanos {
			return time.Duration(offset)
		}
	}
	return t.Center
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
