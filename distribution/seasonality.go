package distribution

import "time"

// Seasonality models the period-end transaction-volume spikes spec §4.2
// names: extra multipliers applying to the last few days of a month,
// quarter, and year, composed multiplicatively so a year-end day gets the
// product of all three that apply.
type Seasonality struct {
	MonthEnd   Multiplier
	QuarterEnd Multiplier
	YearEnd    Multiplier
}

// Multiplier describes a ramp applying to the last Days days of a period:
// the boost reaches Factor exactly on the last day and falls off linearly.
type Multiplier struct {
	Days   int
	Factor float64
}

// DefaultSeasonality is the spec's named default profile.
var DefaultSeasonality = Seasonality{
	MonthEnd:   Multiplier{Days: 3, Factor: 2.0},
	QuarterEnd: Multiplier{Days: 5, Factor: 3.0},
	YearEnd:    Multiplier{Days: 7, Factor: 4.0},
}

// Multiplier returns the composed volume multiplier for date.
func (s Seasonality) Multiplier(date time.Time) float64 {
	m := 1.0
	last := lastDayOfMonth(date)
	daysToEnd := last.Day() - date.Day()

	m *= s.MonthEnd.apply(daysToEnd)

	if isQuarterEndMonth(date.Month()) {
		m *= s.QuarterEnd.apply(daysToEnd)
	}
	if date.Month() == time.December {
		m *= s.YearEnd.apply(daysToEnd)
	}
	return m
}

// apply returns the ramped factor for a day that is daysToEnd days before
// the period's last day (0 == last day itself), or 1.0 outside the window.
func (m Multiplier) apply(daysToEnd int) float64 {
	if m.Days <= 0 || daysToEnd < 0 || daysToEnd >= m.Days {
		return 1.0
	}
	// linear ramp: each day closer to the end adds (Factor-1)/Days,
	// reaching Factor on the last day.
	progress := float64(m.Days-daysToEnd) / float64(m.Days)
	return 1.0 + (m.Factor-1.0)*progress
}

func lastDayOfMonth(date time.Time) time.Time {
	firstOfNext := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

func isQuarterEndMonth(m time.Month) bool {
	switch m {
	case time.March, time.June, time.September, time.December:
		return true
	default:
		return false
	}
}
