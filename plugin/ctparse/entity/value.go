package entity

import "fmt"

// Kind tags the dimension a Value lives in.
type Kind int

const (
	KindNone Kind = iota
	KindTime
	KindInterval
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "Time"
	case KindInterval:
		return "Interval"
	default:
		return "None"
	}
}

// Value is the single tagged entity type flowing through the chart: either a
// Time or an Interval.
type Value struct {
	kind     Kind
	time     Time
	interval Interval
}

// TimeValue wraps a Time.
func TimeValue(t Time) Value { return Value{kind: KindTime, time: t} }

// IntervalValue wraps an Interval.
func IntervalValue(i Interval) Value { return Value{kind: KindInterval, interval: i} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsZero() bool { return v.kind == KindNone }

// Time returns the wrapped Time. It is the zero Time for other kinds.
func (v Value) Time() Time { return v.time }

// Interval returns the wrapped Interval. It is the zero Interval for other kinds.
func (v Value) Interval() Interval { return v.interval }

// Satisfies evaluates a named predicate. Predicates of the other dimension
// are false.
func (v Value) Satisfies(p Predicate) bool {
	switch v.kind {
	case KindTime:
		return p.onTime(v.time)
	case KindInterval:
		return p == IsTimeInterval && v.interval.IsTimeInterval()
	}
	return false
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindTime:
		return v.time.Equal(o.time)
	case KindInterval:
		return v.interval.Equal(o.interval)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindTime:
		return v.time.String()
	case KindInterval:
		return v.interval.String()
	}
	return fmt.Sprintf("<%s>", v.kind)
}
