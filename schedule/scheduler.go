package schedule

import (
	"time"

	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/rng"
)

// DayOfWeekWeights gives each weekday a relative activity weight; Weight
// multiplies it by the seasonality multiplier. Assign does not consult it.
type DayOfWeekWeights [7]float64

// DefaultDayOfWeekWeights models a typical five-day office week: weekdays
// near parity, weekends suppressed (Saturday/Sunday still get a small
// residual for automated interface traffic).
var DefaultDayOfWeekWeights = DayOfWeekWeights{
	time.Sunday:    0.05,
	time.Monday:    1.1,
	time.Tuesday:   1.0,
	time.Wednesday: 1.0,
	time.Thursday:  1.0,
	time.Friday:    0.9,
	time.Saturday:  0.05,
}

// Scheduler assigns document_date and posting_date to a generated
// transaction. Weight composes seasonality and day-of-week shape into a
// day's relative activity; Assign applies time-of-day and a posting lag,
// then clips to the business calendar of the company's country, per spec
// §4.8.
type Scheduler struct {
	Seasonality    distribution.Seasonality
	DayOfWeek      DayOfWeekWeights
	TimeOfDay      distribution.TimeOfDay
	PostLagDays    distribution.LogNormal
	CompanyCountry map[string]string // company code -> ISO country
	calendars      map[string]Calendar
}

// NewScheduler builds a Scheduler with calendars for every country
// referenced by companyCountry, built once at construction per spec §4.8.
func NewScheduler(seasonality distribution.Seasonality, dow DayOfWeekWeights, tod distribution.TimeOfDay, postLag distribution.LogNormal, companyCountry map[string]string) *Scheduler {
	calendars := make(map[string]Calendar)
	for _, country := range companyCountry {
		if _, ok := calendars[country]; !ok {
			calendars[country] = NewCalendar(country)
		}
	}
	return &Scheduler{
		Seasonality:    seasonality,
		DayOfWeek:      dow,
		TimeOfDay:      tod,
		PostLagDays:    postLag,
		CompanyCountry: companyCountry,
		calendars:      calendars,
	}
}

// calendarFor returns the business calendar for company, defaulting to a
// calendar that closes only weekends and New Year's Day when the
// company's country is unknown.
func (s *Scheduler) calendarFor(company string) Calendar {
	country := s.CompanyCountry[company]
	if cal, ok := s.calendars[country]; ok {
		return cal
	}
	return NewCalendar(country)
}

// Weight returns the relative activity weight for candidateDay: day-of-week
// shape multiplied by the seasonality multiplier for that calendar date.
// The orchestrator does not call it: flow start days are drawn uniformly
// across the window, so generated volume per day is not scaled by it.
func (s *Scheduler) Weight(candidateDay time.Time) float64 {
	dow := s.DayOfWeek[candidateDay.Weekday()]
	return dow * s.Seasonality.Multiplier(candidateDay)
}

// Assign produces the (document_date, posting_date) pair for one
// transaction of sourceKind originating at company on candidateDay.
// document_date carries a sampled time-of-day; posting_date adds a
// sampled lag, drawn from the same distribution for every source kind, and
// is clipped forward to the company's next business day.
func (s *Scheduler) Assign(sourceKind, company string, candidateDay time.Time, stream *rng.Stream) (docDate, postDate time.Time) {
	cal := s.calendarFor(company)
	allowWeekend := sourceKind == "Batch" || sourceKind == "Interface"

	docDay := candidateDay
	if !allowWeekend {
		docDay = cal.NextBusinessDay(docDay)
	}
	offset := s.TimeOfDay.Sample(stream, docDay, allowWeekend)
	docDate = time.Date(docDay.Year(), docDay.Month(), docDay.Day(), 0, 0, 0, 0, docDay.Location()).Add(offset)

	lagDays := 0.0
	if s.PostLagDays.Sigma > 0 || s.PostLagDays.Mu != 0 {
		lagDays = s.PostLagDays.Sample(stream).Float64()
	}
	postDay := docDate.AddDate(0, 0, int(lagDays+0.5))
	postDay = cal.NextBusinessDay(postDay)
	postDate = time.Date(postDay.Year(), postDay.Month(), postDay.Day(), 23, 59, 59, 0, postDay.Location())

	return docDate, postDate
}
