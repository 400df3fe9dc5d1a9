// Package resolve grounds latent entities (a bare weekday, day of month, day
// of year, time of day, time interval or part of day) to the next matching
// calendar date strictly after a reference instant.
//
// Every comparison is strict: a candidate equal to the reference instant is
// already past and rolls forward one full period. Candidates keep the
// reference's clock for the fields the entity leaves unset, so "Thursday" on
// a Thursday is next week's Thursday, and "10:00" at exactly 10:00 is
// tomorrow.
package resolve

import (
	"time"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
)

// Rule ids recorded in a derivation when grounding happens.
const (
	RuleLatentDOM          = "ruleLatentDOM"
	RuleLatentDOW          = "ruleLatentDOW"
	RuleLatentDOY          = "ruleLatentDOY"
	RuleLatentTOD          = "ruleLatentTOD"
	RuleLatentTimeInterval = "ruleLatentTimeInterval"
	RuleLatentPOD          = "ruleLatentPOD"
)

// search horizons; any valid day/month/weekday combination recurs within them
const (
	maxMonthsAhead = 48
	maxYearsAhead  = 8
	maxDOWDOMAhead = 12 * 28
)

// Resolver grounds latent values for the chart engine's final pass.
type Resolver struct{}

// New returns a Resolver.
func New() *Resolver { return &Resolver{} }

// IsLatent reports whether v still needs grounding.
func IsLatent(v entity.Value) bool {
	switch v.Kind() {
	case entity.KindTime:
		t := v.Time()
		return t.IsDOM() || (t.HasDOW() && !t.HasDate()) || t.IsDOY() || t.IsTOD() || t.IsPOD()
	case entity.KindInterval:
		return v.Interval().IsTimeInterval()
	}
	return false
}

// Ground returns the grounded form of a latent value together with the id of
// the grounding rule. ok is false for values that are not latent or cannot
// be grounded (e.g. day 31 that never occurs, an unknown POD tag).
func (*Resolver) Ground(ref time.Time, v entity.Value) (grounded entity.Value, ruleID string, ok bool) {
	if v.Kind() == entity.KindInterval {
		if !v.Interval().IsTimeInterval() {
			return v, "", false
		}
		return entity.IntervalValue(TimeInterval(ref, v.Interval())), RuleLatentTimeInterval, true
	}

	t := v.Time()
	switch {
	case t.IsDOM():
		g, ok := DOM(ref, t)
		return entity.TimeValue(g), RuleLatentDOM, ok
	case t.HasDOW() && !t.HasDate():
		return entity.TimeValue(DOW(ref, t)), RuleLatentDOW, true
	case t.IsDOY():
		g, ok := DOY(ref, t)
		return entity.TimeValue(g), RuleLatentDOY, ok
	case t.IsTOD():
		return entity.TimeValue(TOD(ref, t)), RuleLatentTOD, true
	case t.IsPOD():
		g, ok := POD(ref, t)
		return entity.TimeValue(g), RuleLatentPOD, ok
	}
	return v, "", false
}

func at(ref time.Time, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOf(t time.Time) entity.Time { return entity.Date(t.Year(), int(t.Month()), t.Day()) }

func dateTimeOf(t time.Time) entity.Time {
	return entity.DateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

// DOM grounds a bare day of month to the first month, starting with the
// reference month, that has the day and places it after ref.
func DOM(ref time.Time, t entity.Time) (entity.Time, bool) {
	d := t.Day()
	if d < 1 || d > 31 {
		return t, false
	}
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	for k := 0; k < maxMonthsAhead; k++ {
		mo := first.AddDate(0, k, 0)
		if d > daysIn(mo.Year(), mo.Month()) {
			continue
		}
		if c := at(ref, mo.Year(), mo.Month(), d); c.After(ref) {
			return dateOf(c), true
		}
	}
	return t, false
}

// NextWeekday returns the first date strictly after ref falling on dow
// (0 = Monday), keeping ref's clock.
func NextWeekday(ref time.Time, dow int) time.Time {
	target := time.Weekday((dow + 1) % 7)
	days := (int(target) - int(ref.Weekday()) + 7) % 7
	c := ref.AddDate(0, 0, days)
	if !c.After(ref) {
		c = c.AddDate(0, 0, 7)
	}
	return c
}

// DOW grounds a weekday. The weekday itself is dropped from the result;
// any other field it carried (e.g. a part of day) is kept.
func DOW(ref time.Time, t entity.Time) entity.Time {
	return entity.Intersect(dateOf(NextWeekday(ref, t.DOW())), t, entity.FieldDOW)
}

// DOY grounds month+day to the first year, starting with ref's, in which
// the date exists and lies after ref.
func DOY(ref time.Time, t entity.Time) (entity.Time, bool) {
	m, d := time.Month(t.Month()), t.Day()
	if m < time.January || m > time.December || d < 1 || d > 31 {
		return t, false
	}
	for y := ref.Year(); y <= ref.Year()+maxYearsAhead; y++ {
		if d > daysIn(y, m) {
			continue
		}
		if c := at(ref, y, m, d); c.After(ref) {
			return dateOf(c), true
		}
	}
	return t, false
}

func clock(ref time.Time, t entity.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

// TOD grounds a time of day to today, or tomorrow if it is not after ref.
func TOD(ref time.Time, t entity.Time) entity.Time {
	c := clock(ref, t)
	if !c.After(ref) {
		c = c.AddDate(0, 0, 1)
	}
	return dateTimeOf(c)
}

// TimeInterval grounds both ends of a time-of-day interval on the same day,
// chosen by the start: today, or tomorrow if the start is not after ref.
func TimeInterval(ref time.Time, i entity.Interval) entity.Interval {
	from, to := clock(ref, *i.From), clock(ref, *i.To)
	if !from.After(ref) {
		from, to = from.AddDate(0, 0, 1), to.AddDate(0, 0, 1)
	}
	f, e := dateTimeOf(from), dateTimeOf(to)
	return entity.NewInterval(&f, &e)
}

// POD grounds a part of day to the first day whose range start is after ref.
// The part-of-day tag is kept on the grounded date.
func POD(ref time.Time, t entity.Time) (entity.Time, bool) {
	h, _, ok := entity.PODRange(t.POD())
	if !ok {
		return t, false
	}
	c := time.Date(ref.Year(), ref.Month(), ref.Day(), h, ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
	if !c.After(ref) {
		c = c.AddDate(0, 0, 1)
	}
	return entity.NewTime(entity.Year(c.Year()), entity.Month(int(c.Month())), entity.Day(c.Day()), entity.POD(t.POD())), true
}

// DOWDOM finds the first date at or after ref's day whose day of month is
// day and whose weekday is dow ("Monday the 5th").
func DOWDOM(ref time.Time, dow, day int) (entity.Time, bool) {
	if day < 1 || day > 31 || dow < 0 || dow > 6 {
		return entity.Time{}, false
	}
	target := time.Weekday((dow + 1) % 7)
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	for k := 0; k < maxDOWDOMAhead; k++ {
		mo := first.AddDate(0, k, 0)
		if day > daysIn(mo.Year(), mo.Month()) {
			continue
		}
		c := time.Date(mo.Year(), mo.Month(), day, 0, 0, 0, 0, ref.Location())
		if c.Before(today) || c.Weekday() != target {
			continue
		}
		return dateOf(c), true
	}
	return entity.Time{}, false
}
