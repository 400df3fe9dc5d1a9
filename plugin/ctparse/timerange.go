package ctparse

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
)

// ErrNotGrounded is returned when a reading has no calendar date, such as a
// bare month.
var ErrNotGrounded = errors.New("value has no calendar date")

// TimeRange represents a time range. A zero Start or End marks an open side.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// OpenStart reports whether the range has no lower bound.
func (r TimeRange) OpenStart() bool { return r.Start.IsZero() }

// OpenEnd reports whether the range has no upper bound.
func (r TimeRange) OpenEnd() bool { return r.End.IsZero() }

// RangeOf converts a parsed value into a concrete range in loc.
//
// A date covers the whole day, a part of day covers its hours and a clock
// time covers one hour. An interval runs from the start of its first side to
// the end of its second; a clock time on the second side is taken exactly.
func RangeOf(v entity.Value, loc *time.Location) (TimeRange, error) {
	switch v.Kind() {
	case entity.KindTime:
		t := v.Time()
		start, ok := t.Start(loc)
		if !ok {
			return TimeRange{}, errors.Wrap(ErrNotGrounded, t.String())
		}
		return TimeRange{Start: start, End: endOf(t, start, loc)}, nil

	case entity.KindInterval:
		var r TimeRange
		iv := v.Interval()
		if iv.From != nil {
			start, ok := iv.From.Start(loc)
			if !ok {
				return TimeRange{}, errors.Wrap(ErrNotGrounded, iv.From.String())
			}
			r.Start = start
		}
		if iv.To != nil {
			start, ok := iv.To.Start(loc)
			if !ok {
				return TimeRange{}, errors.Wrap(ErrNotGrounded, iv.To.String())
			}
			r.End = start
			if !iv.To.Has(entity.FieldHour) {
				r.End = endOf(*iv.To, start, loc)
			}
		}
		return r, nil
	}
	return TimeRange{}, errors.Errorf("unsupported value kind %s", v.Kind())
}

func endOf(t entity.Time, start time.Time, loc *time.Location) time.Time {
	switch {
	case t.Has(entity.FieldHour):
		return start.Add(time.Hour)
	case t.HasPOD():
		if _, to, ok := entity.PODRange(t.POD()); ok {
			return time.Date(start.Year(), start.Month(), start.Day(), to, 0, 0, 0, loc)
		}
	}
	return start.AddDate(0, 0, 1)
}
