package grammar

import (
	"strings"
	"time"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
	"github.com/hrygo/ctparse/plugin/ctparse/resolve"
	"github.com/hrygo/ctparse/plugin/ctparse/rule"
)

// maximum days per month in any year
var monthDays = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func validDOY(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= monthDays[month]
}

func validDate(year, month, day int) bool {
	if !validDOY(month, day) {
		return false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Day() == day
}

func validTOD(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

func normalizeYear(y int) int {
	if y < 100 {
		return y + 2000
	}
	return y
}

func timeValue(t entity.Time) (entity.Value, bool) { return entity.TimeValue(t), true }

func intervalValue(from, to *entity.Time) (entity.Value, bool) {
	return entity.IntervalValue(entity.NewInterval(from, to)), true
}

func dateOf(t time.Time) entity.Time { return entity.Date(t.Year(), int(t.Month()), t.Day()) }

// podFromMatch maps a matched part-of-day word and its optional early/late
// modifier onto a tag of the fixed vocabulary. It returns "" when pod is
// empty or unrecognized.
func podFromMatch(pod, mod string) string {
	pod = strings.ToLower(strings.TrimSpace(pod))
	if pod == "" {
		return ""
	}
	var base string
	switch {
	case strings.HasPrefix(pod, "mor"), strings.Contains(pod, "früh"), strings.HasPrefix(pod, "early"):
		base = entity.PODMorning
	case pod == "night", strings.HasPrefix(pod, "nacht"):
		base = entity.PODNight
	case strings.HasPrefix(pod, "after"), strings.HasPrefix(pod, "nach"):
		base = entity.PODAfternoon
	case strings.HasPrefix(pod, "vor"):
		base = entity.PODBeforeNoon
	case pod == "noon", strings.HasPrefix(pod, "mittag"):
		base = entity.PODNoon
	case pod == "evening", strings.HasPrefix(pod, "abend"), strings.HasPrefix(pod, "spät"), strings.HasPrefix(pod, "late"):
		base = entity.PODEvening
	default:
		return ""
	}

	mod = strings.ToLower(strings.TrimSpace(mod))
	switch {
	case strings.HasPrefix(mod, "früh"), strings.HasPrefix(mod, "early"):
		base = "early" + base
	case strings.HasPrefix(mod, "spät"), strings.HasPrefix(mod, "late"):
		base = "late" + base
	}
	if !entity.IsPODTag(base) {
		return ""
	}
	return base
}

func absorbTime(_ time.Time, a rule.Args) (entity.Value, bool)     { return a.Value(1), true }
func absorbInterval(_ time.Time, a rule.Args) (entity.Value, bool) { return a.Value(1), true }
func absorbDOWComma(_ time.Time, a rule.Args) (entity.Value, bool) { return a.Value(0), true }

func buildDOW(dow int) rule.Builder {
	return func(_ time.Time, a rule.Args) (entity.Value, bool) {
		return timeValue(entity.NewTime(entity.DOW(dow), entity.POD(podFromMatch(a.Group(0, "pod"), ""))))
	}
}

func buildMonth(month int) rule.Builder {
	return func(time.Time, rule.Args) (entity.Value, bool) {
		return timeValue(entity.NewTime(entity.Month(month)))
	}
}

func buildDDMonth(month int) rule.Builder {
	return func(_ time.Time, a rule.Args) (entity.Value, bool) {
		d, ok := a.Int(0, "day")
		if !ok || !validDOY(month, d) {
			return entity.Value{}, false
		}
		return timeValue(entity.NewTime(entity.Month(month), entity.Day(d)))
	}
}

func buildPOD(_ time.Time, a rule.Args) (entity.Value, bool) {
	pod := podFromMatch(a.Group(0, "pod"), a.Group(0, "mod"))
	if pod == "" {
		return entity.Value{}, false
	}
	return timeValue(entity.NewTime(entity.POD(pod)))
}

func buildDOM(_ time.Time, a rule.Args) (entity.Value, bool) {
	d, ok := a.Int(0, "day")
	if !ok || d < 1 || d > 31 {
		return entity.Value{}, false
	}
	return timeValue(entity.NewTime(entity.Day(d)))
}

func buildMonthOrdinal(_ time.Time, a rule.Args) (entity.Value, bool) {
	m, ok := a.Int(0, "month")
	if !ok || m < 1 || m > 12 {
		return entity.Value{}, false
	}
	return timeValue(entity.NewTime(entity.Month(m)))
}

func buildYear(_ time.Time, a rule.Args) (entity.Value, bool) {
	y, ok := a.Int(0, "year")
	if !ok {
		return entity.Value{}, false
	}
	return timeValue(entity.NewTime(entity.Year(normalizeYear(y))))
}

func buildToday(ref time.Time, _ rule.Args) (entity.Value, bool) { return timeValue(dateOf(ref)) }

func buildNow(ref time.Time, _ rule.Args) (entity.Value, bool) {
	return timeValue(entity.DateTime(ref.Year(), int(ref.Month()), ref.Day(), ref.Hour(), ref.Minute()))
}

func buildTomorrow(ref time.Time, _ rule.Args) (entity.Value, bool) {
	return timeValue(dateOf(ref.AddDate(0, 0, 1)))
}

func buildYesterday(ref time.Time, _ rule.Args) (entity.Value, bool) {
	return timeValue(dateOf(ref.AddDate(0, 0, -1)))
}

func buildEOM(ref time.Time, _ rule.Args) (entity.Value, bool) {
	return timeValue(dateOf(time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location())))
}

func buildEOY(ref time.Time, _ rule.Args) (entity.Value, bool) {
	return timeValue(entity.Date(ref.Year(), 12, 31))
}

func buildDOMMonth(_ time.Time, a rule.Args) (entity.Value, bool) {
	return doy(a.Time(len(a)-1).Month(), a.Time(0).Day())
}

func buildMonthDOM(_ time.Time, a rule.Args) (entity.Value, bool) {
	return doy(a.Time(0).Month(), a.Time(1).Day())
}

func doy(month, day int) (entity.Value, bool) {
	if !validDOY(month, day) {
		return entity.Value{}, false
	}
	return timeValue(entity.NewTime(entity.Month(month), entity.Day(day)))
}

// buildNextDOW resolves "on Monday" and "next Monday" alike to the first such
// weekday strictly after the reference date.
func buildNextDOW(ref time.Time, a rule.Args) (entity.Value, bool) {
	t := a.Time(1)
	if t.HasDate() {
		return entity.Value{}, false
	}
	return timeValue(resolve.DOW(ref, t))
}

func buildDOYYear(_ time.Time, a rule.Args) (entity.Value, bool) {
	d, y := a.Time(0), a.Time(1).Year()
	if !validDate(y, d.Month(), d.Day()) {
		return entity.Value{}, false
	}
	return timeValue(entity.Date(y, d.Month(), d.Day()))
}

func buildDOWDOM(ref time.Time, a rule.Args) (entity.Value, bool) {
	dow := a.Time(0)
	if dow.HasDate() {
		return entity.Value{}, false
	}
	date, ok := resolve.DOWDOM(ref, dow.DOW(), a.Time(1).Day())
	if !ok {
		return entity.Value{}, false
	}
	return timeValue(entity.Intersect(date, dow, entity.FieldDOW))
}

// buildDOWDate rejects a weekday that contradicts the date.
func buildDOWDate(_ time.Time, a rule.Args) (entity.Value, bool) {
	dow, date := a.Time(0), a.Time(1)
	if dow.HasDate() {
		return entity.Value{}, false
	}
	wd := time.Date(date.Year(), time.Month(date.Month()), date.Day(), 0, 0, 0, 0, time.UTC).Weekday()
	if (int(wd)+6)%7 != dow.DOW() {
		return entity.Value{}, false
	}
	return timeValue(entity.Intersect(date, dow, entity.FieldDOW))
}

func latentDOM(ref time.Time, a rule.Args) (entity.Value, bool) {
	g, ok := resolve.DOM(ref, a.Time(0))
	if !ok {
		return entity.Value{}, false
	}
	return timeValue(g)
}

func latentDOW(ref time.Time, a rule.Args) (entity.Value, bool) {
	t := a.Time(0)
	if t.HasDate() {
		return entity.Value{}, false
	}
	return timeValue(resolve.DOW(ref, t))
}

func latentDOY(ref time.Time, a rule.Args) (entity.Value, bool) {
	g, ok := resolve.DOY(ref, a.Time(0))
	if !ok {
		return entity.Value{}, false
	}
	return timeValue(g)
}

func latentTOD(ref time.Time, a rule.Args) (entity.Value, bool) {
	return timeValue(resolve.TOD(ref, a.Time(0)))
}

func latentTimeInterval(ref time.Time, a rule.Args) (entity.Value, bool) {
	return entity.IntervalValue(resolve.TimeInterval(ref, a.Interval(0))), true
}

func latentPOD(ref time.Time, a rule.Args) (entity.Value, bool) {
	g, ok := resolve.POD(ref, a.Time(0))
	if !ok {
		return entity.Value{}, false
	}
	return timeValue(g)
}

func buildDDMM(_ time.Time, a rule.Args) (entity.Value, bool) {
	d, ok1 := a.Int(0, "day")
	m, ok2 := a.Int(0, "month")
	if !ok1 || !ok2 {
		return entity.Value{}, false
	}
	return doy(m, d)
}

func buildDDMMYYYY(_ time.Time, a rule.Args) (entity.Value, bool) {
	return fullDate(a)
}

func buildYYYYMMDD(_ time.Time, a rule.Args) (entity.Value, bool) {
	return fullDate(a)
}

func fullDate(a rule.Args) (entity.Value, bool) {
	d, ok1 := a.Int(0, "day")
	m, ok2 := a.Int(0, "month")
	y, ok3 := a.Int(0, "year")
	if !ok1 || !ok2 || !ok3 {
		return entity.Value{}, false
	}
	y = normalizeYear(y)
	if !validDate(y, m, d) {
		return entity.Value{}, false
	}
	return timeValue(entity.Date(y, m, d))
}

func buildHHMM(_ time.Time, a rule.Args) (entity.Value, bool) {
	h, ok := a.Int(0, "hour")
	if !ok {
		return entity.Value{}, false
	}
	m, hasMinute := a.Int(0, "minute")

	ampm := strings.ToLower(strings.TrimSpace(a.Group(0, "ampm")))
	switch {
	case strings.HasPrefix(ampm, "a"):
		// "13:30am": the marker is contradictory, so the hour stands alone.
		if h == 12 {
			h = 0
		}
	case strings.HasPrefix(ampm, "p"):
		if h < 12 {
			h += 12
		}
	}
	if !validTOD(h, m) {
		return entity.Value{}, false
	}
	opts := []entity.Option{entity.Hour(h)}
	if hasMinute {
		opts = append(opts, entity.Minute(m))
	}
	return timeValue(entity.NewTime(opts...))
}

func buildHHOClock(_ time.Time, a rule.Args) (entity.Value, bool) {
	h, ok := a.Int(0, "hour")
	if !ok || !validTOD(h, 0) {
		return entity.Value{}, false
	}
	return timeValue(entity.NewTime(entity.Hour(h)))
}

func buildTODPOD(_ time.Time, a rule.Args) (entity.Value, bool) {
	return todWithPOD(a.Time(0), a.Time(1).POD())
}

func buildPODTOD(_ time.Time, a rule.Args) (entity.Value, bool) {
	return todWithPOD(a.Time(1), a.Time(0).POD())
}

// todWithPOD shifts a 12-hour clock reading into the afternoon when the part
// of day says so, and rejects readings that contradict it.
func todWithPOD(tod entity.Time, pod string) (entity.Value, bool) {
	h := tod.Hour()
	pm := strings.HasSuffix(pod, entity.PODAfternoon) || strings.HasSuffix(pod, entity.PODEvening) || strings.HasSuffix(pod, entity.PODNight)
	am := strings.HasSuffix(pod, entity.PODMorning) || strings.HasSuffix(pod, entity.PODBeforeNoon)
	switch {
	case pm && h < 12:
		h += 12
	case am && h > 12:
		return entity.Value{}, false
	}
	opts := []entity.Option{entity.Hour(h)}
	if tod.Has(entity.FieldMinute) {
		opts = append(opts, entity.Minute(tod.Minute()))
	}
	return timeValue(entity.NewTime(opts...))
}

func buildDateTOD(_ time.Time, a rule.Args) (entity.Value, bool) {
	return timeValue(entity.Intersect(a.Time(0), a.Time(1)))
}

func buildTODDate(_ time.Time, a rule.Args) (entity.Value, bool) {
	return timeValue(entity.Intersect(a.Time(1), a.Time(0)))
}

func buildDatePOD(_ time.Time, a rule.Args) (entity.Value, bool) {
	return timeValue(entity.Intersect(a.Time(0), a.Time(1)))
}

func buildBeforeTime(_ time.Time, a rule.Args) (entity.Value, bool) {
	t := a.Time(1)
	return intervalValue(nil, &t)
}

func buildAfterTime(_ time.Time, a rule.Args) (entity.Value, bool) {
	t := a.Time(1)
	return intervalValue(&t, nil)
}

func before(a, b entity.Time) bool {
	for _, f := range []entity.Field{entity.FieldYear, entity.FieldMonth, entity.FieldDay, entity.FieldHour, entity.FieldMinute} {
		x, _ := a.Get(f)
		y, _ := b.Get(f)
		if x != y {
			return x < y
		}
	}
	return false
}

func buildDateDate(_ time.Time, a rule.Args) (entity.Value, bool) {
	from, to := a.Time(0), a.Time(2)
	if !before(from, to) {
		return entity.Value{}, false
	}
	return intervalValue(&from, &to)
}

func buildDOMDate(_ time.Time, a rule.Args) (entity.Value, bool) {
	dom, to := a.Time(0), a.Time(2)
	if dom.Day() >= to.Day() {
		return entity.Value{}, false
	}
	from := entity.Date(to.Year(), to.Month(), dom.Day())
	return intervalValue(&from, &to)
}

func buildDateTimeDateTime(_ time.Time, a rule.Args) (entity.Value, bool) {
	return buildDateDate(time.Time{}, a)
}

// buildTODTOD only accepts increasing ranges on the same day: "6 - 5",
// "18:00 - 9:00" and "6:30 - 6:30" are rejected. A missing minute counts as
// zero, so "6 - 6:30" passes and "6:30 - 6" does not.
func buildTODTOD(_ time.Time, a rule.Args) (entity.Value, bool) {
	from, to := a.Time(0), a.Time(2)
	if from.Hour()*60+from.Minute() >= to.Hour()*60+to.Minute() {
		return entity.Value{}, false
	}
	return intervalValue(&from, &to)
}

func buildDateInterval(_ time.Time, a rule.Args) (entity.Value, bool) {
	date, iv := a.Time(0), a.Interval(1)
	from, ok1 := onDate(date, iv.From)
	to, ok2 := onDate(date, iv.To)
	if !ok1 || !ok2 || (from == nil && to == nil) {
		return entity.Value{}, false
	}
	return intervalValue(from, to)
}

// onDate places an open or time-of-day endpoint on date.
func onDate(date entity.Time, end *entity.Time) (*entity.Time, bool) {
	if end == nil {
		return nil, true
	}
	if !end.IsTOD() {
		return nil, false
	}
	t := entity.Intersect(date, *end)
	return &t, true
}
