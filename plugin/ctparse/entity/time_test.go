package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_Predicates(t *testing.T) {
	tests := []struct {
		name string
		t    Time
		want []Predicate
	}{
		{"dom", NewTime(Day(5)), []Predicate{IsDOM}},
		{"doy", NewTime(Month(3), Day(5)), []Predicate{IsDOY}},
		{"month", NewTime(Month(3)), []Predicate{IsMonth}},
		{"year", NewTime(Year(2022)), []Predicate{IsYear}},
		{"date", Date(2022, 3, 10), []Predicate{IsDate}},
		{"datetime", DateTime(2022, 3, 10, 17, 0), []Predicate{IsDateTime}},
		{"datetime hour only", NewTime(Year(2022), Month(3), Day(10), Hour(17)), []Predicate{IsDateTime}},
		{"tod", NewTime(Hour(17), Minute(30)), []Predicate{IsTOD}},
		{"tod hour only", NewTime(Hour(17)), []Predicate{IsTOD}},
		{"pod", NewTime(POD(PODMorning)), []Predicate{IsPOD}},
		{"dow", NewTime(DOW(0)), []Predicate{HasDOW}},
		{"dow with pod", NewTime(DOW(0), POD(PODEvening)), []Predicate{HasDOW}},
		{"date with dow", Intersect(Date(2022, 3, 14), NewTime(DOW(0))), []Predicate{HasDOW}},
	}
	all := []Predicate{HasDOW, IsDOM, IsMonth, IsYear, IsDate, IsDOY, IsTOD, IsPOD, IsDateTime, IsTimeInterval}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := TimeValue(tt.t)
			for _, p := range all {
				assert.Equal(t, contains(tt.want, p), v.Satisfies(p), "predicate %s", p)
			}
		})
	}
}

func contains(ps []Predicate, p Predicate) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}

func TestIntersect_ExcludeAlwaysFromA(t *testing.T) {
	a := Date(2022, 3, 14)
	b := NewTime(DOW(0), POD(PODMorning), Day(1))

	got := Intersect(a, b, FieldDOW)
	assert.False(t, got.HasDOW(), "excluded field unset on a must stay unset")
	assert.Equal(t, 14, got.Day(), "a wins when both are set")
	assert.Equal(t, PODMorning, got.POD(), "b fills fields a leaves unset")

	withDOW := NewTime(DOW(3))
	got = Intersect(withDOW, NewTime(DOW(5), Hour(9)), FieldDOW)
	assert.Equal(t, 3, got.DOW())
	assert.Equal(t, 9, got.Hour())
}

func TestIntersect_NoExclude(t *testing.T) {
	got := Intersect(NewTime(Hour(9)), NewTime(Hour(11), Minute(15), Year(2022)))
	assert.True(t, got.Equal(NewTime(Hour(9), Minute(15), Year(2022))))
}

func TestTime_String(t *testing.T) {
	assert.Equal(t, "2022-03-11 X:X (X/X)", Date(2022, 3, 11).String())
	assert.Equal(t, "X-X-X 17:05 (X/X)", NewTime(Hour(17), Minute(5)).String())
	assert.Equal(t, "X-X-X X:X (0/morning)", NewTime(DOW(0), POD(PODMorning)).String())

	from, to := NewTime(Hour(5)), NewTime(Hour(18))
	assert.Equal(t, "X-X-X 05:X (X/X) - X-X-X 18:X (X/X)", NewInterval(&from, &to).String())
	assert.Equal(t, "None - X-X-X 18:X (X/X)", NewInterval(nil, &to).String())
}

func TestTime_StartEnd(t *testing.T) {
	loc := time.UTC

	start, ok := Date(2022, 3, 11).Start(loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, 3, 11, 0, 0, 0, 0, loc), start)
	end, ok := Date(2022, 3, 11).End(loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, 3, 11, 23, 59, 0, 0, loc), end)

	evening := NewTime(Year(2022), Month(3), Day(11), POD(PODEvening))
	start, _ = evening.Start(loc)
	end, _ = evening.End(loc)
	assert.Equal(t, 17, start.Hour())
	assert.Equal(t, 19, end.Hour())

	_, ok = NewTime(Hour(5)).Start(loc)
	assert.False(t, ok)
}

func TestValue_Equal(t *testing.T) {
	a, b := NewTime(Hour(5)), NewTime(Hour(18))
	c, d := NewTime(Hour(5)), NewTime(Hour(18))

	assert.True(t, IntervalValue(NewInterval(&a, &b)).Equal(IntervalValue(NewInterval(&c, &d))))
	assert.False(t, IntervalValue(NewInterval(&a, nil)).Equal(IntervalValue(NewInterval(&a, &b))))
	assert.False(t, TimeValue(a).Equal(IntervalValue(NewInterval(&a, nil))))
	assert.True(t, IntervalValue(NewInterval(&a, &b)).Satisfies(IsTimeInterval))
}

func TestWithout(t *testing.T) {
	got := NewTime(DOW(2), POD(PODNight), Day(4)).Without(FieldDOW, FieldPOD)
	assert.True(t, got.IsDOM())
	assert.Empty(t, got.POD())
}
