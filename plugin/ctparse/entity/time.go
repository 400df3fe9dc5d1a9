// Package entity holds the values produced by the time grammar: partially
// specified calendar points (Time), ranges between them (Interval), and the
// tagged Value that carries either through the chart.
//
// Values are immutable. Every constructor and merge returns a new value.
package entity

import (
	"fmt"
	"strings"
	"time"
)

// Field names one independently optional component of a Time.
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldDOW
	FieldPOD

	numFields
)

var fieldNames = [...]string{
	FieldYear:   "year",
	FieldMonth:  "month",
	FieldDay:    "day",
	FieldHour:   "hour",
	FieldMinute: "minute",
	FieldDOW:    "DOW",
	FieldPOD:    "POD",
}

// String returns the field name.
func (f Field) String() string {
	if f >= 0 && f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

func (f Field) bit() uint8 { return 1 << uint(f) }

const (
	maskDate = 1<<FieldYear | 1<<FieldMonth | 1<<FieldDay
	maskTOD  = 1 << FieldHour
)

// Time is a partially specified calendar/clock point. Any subset of its
// fields may be set. Out-of-range values are stored as given; normalizing
// them is the job of whoever builds the Time.
type Time struct {
	vals [FieldPOD]int
	pod  string
	set  uint8
}

// Option sets one field of a Time under construction.
type Option func(*Time)

func setter(f Field) func(int) Option {
	return func(v int) Option {
		return func(t *Time) {
			t.vals[f] = v
			t.set |= f.bit()
		}
	}
}

var (
	Year   = setter(FieldYear)
	Month  = setter(FieldMonth)
	Day    = setter(FieldDay)
	Hour   = setter(FieldHour)
	Minute = setter(FieldMinute)
	// DOW sets the day of week, 0 = Monday .. 6 = Sunday.
	DOW = setter(FieldDOW)
)

// POD sets the part of day. An empty tag leaves the field unset.
func POD(pod string) Option {
	return func(t *Time) {
		if pod == "" {
			return
		}
		t.pod = pod
		t.set |= FieldPOD.bit()
	}
}

// NewTime builds a Time from options. Construction never fails.
func NewTime(opts ...Option) Time {
	var t Time
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Date returns a Time with year, month and day set.
func Date(year, month, day int) Time {
	return NewTime(Year(year), Month(month), Day(day))
}

// DateTime returns a Time with all date and clock fields set.
func DateTime(year, month, day, hour, minute int) Time {
	return NewTime(Year(year), Month(month), Day(day), Hour(hour), Minute(minute))
}

// Has reports whether field f is set.
func (t Time) Has(f Field) bool { return t.set&f.bit() != 0 }

// Get returns the value of an integer field and whether it is set.
func (t Time) Get(f Field) (int, bool) {
	if f < 0 || f >= FieldPOD || !t.Has(f) {
		return 0, false
	}
	return t.vals[f], true
}

func (t Time) Year() int   { return t.vals[FieldYear] }
func (t Time) Month() int  { return t.vals[FieldMonth] }
func (t Time) Day() int    { return t.vals[FieldDay] }
func (t Time) Hour() int   { return t.vals[FieldHour] }
func (t Time) Minute() int { return t.vals[FieldMinute] }
func (t Time) DOW() int    { return t.vals[FieldDOW] }
func (t Time) POD() string { return t.pod }

// IsZero reports whether no field is set.
func (t Time) IsZero() bool { return t.set == 0 }

// Without returns a copy of t with the given fields unset.
func (t Time) Without(fields ...Field) Time {
	for _, f := range fields {
		t.set &^= f.bit()
		if f == FieldPOD {
			t.pod = ""
		} else if f >= 0 && f < FieldPOD {
			t.vals[f] = 0
		}
	}
	return t
}

func (t Time) hasOnly(mask uint8) bool { return t.set == mask }

// IsDOM: only the day of month is set ("the 5th").
func (t Time) IsDOM() bool { return t.hasOnly(FieldDay.bit()) }

// IsDOY: day and month without a year ("5th of March").
func (t Time) IsDOY() bool { return t.hasOnly(FieldMonth.bit() | FieldDay.bit()) }

func (t Time) IsMonth() bool { return t.hasOnly(FieldMonth.bit()) }
func (t Time) IsYear() bool  { return t.hasOnly(FieldYear.bit()) }

// IsDate: year, month and day and nothing else.
func (t Time) IsDate() bool { return t.hasOnly(maskDate) }

// IsDateTime: a full date plus an hour, the minute being optional.
func (t Time) IsDateTime() bool {
	return t.hasOnly(maskDate|maskTOD) || t.hasOnly(maskDate|maskTOD|FieldMinute.bit())
}

// IsTOD: a time of day without any date field.
func (t Time) IsTOD() bool {
	return t.hasOnly(maskTOD) || t.hasOnly(maskTOD|FieldMinute.bit())
}

func (t Time) IsPOD() bool  { return t.hasOnly(FieldPOD.bit()) }
func (t Time) HasDOW() bool { return t.Has(FieldDOW) }
func (t Time) HasPOD() bool { return t.Has(FieldPOD) }

// HasDate reports whether year, month and day are all set, whatever else is.
func (t Time) HasDate() bool { return t.set&maskDate == maskDate }

// Intersect merges two fragments field by field. A field set on a wins;
// otherwise b's value is used. Excluded fields are always taken from a,
// even when a leaves them unset.
func Intersect(a, b Time, exclude ...Field) Time {
	r := a
	for f := Field(0); f < numFields; f++ {
		if a.Has(f) || excluded(f, exclude) || !b.Has(f) {
			continue
		}
		if f == FieldPOD {
			r.pod = b.pod
		} else {
			r.vals[f] = b.vals[f]
		}
		r.set |= f.bit()
	}
	return r
}

func excluded(f Field, exclude []Field) bool {
	for _, e := range exclude {
		if e == f {
			return true
		}
	}
	return false
}

// Equal reports whether both Times set the same fields to the same values.
func (t Time) Equal(o Time) bool {
	if t.set != o.set || t.pod != o.pod {
		return false
	}
	for f := Field(0); f < FieldPOD; f++ {
		if t.Has(f) && t.vals[f] != o.vals[f] {
			return false
		}
	}
	return true
}

// String renders "YYYY-MM-DD HH:MM (DOW/POD)", with X for unset fields.
func (t Time) String() string {
	var b strings.Builder
	b.WriteString(t.format(FieldYear, "%04d"))
	b.WriteByte('-')
	b.WriteString(t.format(FieldMonth, "%02d"))
	b.WriteByte('-')
	b.WriteString(t.format(FieldDay, "%02d"))
	b.WriteByte(' ')
	b.WriteString(t.format(FieldHour, "%02d"))
	b.WriteByte(':')
	b.WriteString(t.format(FieldMinute, "%02d"))
	b.WriteString(" (")
	b.WriteString(t.format(FieldDOW, "%d"))
	b.WriteByte('/')
	if t.HasPOD() {
		b.WriteString(t.pod)
	} else {
		b.WriteByte('X')
	}
	b.WriteByte(')')
	return b.String()
}

func (t Time) format(f Field, layout string) string {
	v, ok := t.Get(f)
	if !ok {
		return "X"
	}
	return fmt.Sprintf(layout, v)
}

// Start returns the first instant covered by a Time that has a full date.
// A missing hour falls back to the start of the part of day, then midnight.
func (t Time) Start(loc *time.Location) (time.Time, bool) {
	if !t.HasDate() {
		return time.Time{}, false
	}
	hour := 0
	if t.Has(FieldHour) {
		hour = t.Hour()
	} else if from, _, ok := PODRange(t.pod); ok {
		hour = from
	}
	return time.Date(t.Year(), time.Month(t.Month()), t.Day(), hour, t.Minute(), 0, 0, loc), true
}

// End returns the last minute covered by a Time that has a full date.
func (t Time) End(loc *time.Location) (time.Time, bool) {
	if !t.HasDate() {
		return time.Time{}, false
	}
	hour, minute := 23, 59
	switch {
	case t.Has(FieldHour):
		hour = t.Hour()
		if t.Has(FieldMinute) {
			minute = t.Minute()
		}
	case t.HasPOD():
		if _, to, ok := PODRange(t.pod); ok {
			hour, minute = to, 0
		}
	}
	return time.Date(t.Year(), time.Month(t.Month()), t.Day(), hour, minute, 0, 0, loc), true
}
