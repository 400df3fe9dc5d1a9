package grammar

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
	"github.com/hrygo/ctparse/plugin/ctparse/rule"
)

var ref = time.Date(2022, 3, 10, 10, 0, 0, 0, time.UTC)

func TestNew_Languages(t *testing.T) {
	sizes := map[string]int{}
	for _, lang := range Languages() {
		reg, err := New(lang)
		require.NoError(t, err, lang)
		sizes[lang] = reg.Len()

		seen := map[string]bool{}
		for _, r := range reg.Rules() {
			assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
			seen[r.ID] = true
		}
	}
	assert.Greater(t, sizes[LangEnglish], sizes[LangGerman], "German has no 'of' connector")
	assert.Equal(t, sizes[LangEnglish], sizes[LangMulti])

	_, err := New("fr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLanguage))
}

func TestMerge_DedupesAlternatives(t *testing.T) {
	m := Merge(English, German)
	assert.Equal(t, `-|–|to(?: the)?|(?:un)?til|no later than|at latest(?: at)?|bis(?: zum)?|zum|auf(?: den)?|und|spätestens?`, m.Join)
	assert.Equal(t, "of", m.Of)
}

// fire scans text and runs the named single-symbol text rule on the match
// covering the whole text.
func fire(t *testing.T, reg *rule.Registry, id, text string) (entity.Value, bool) {
	t.Helper()
	var target *rule.Rule
	for _, r := range reg.Rules() {
		if r.ID == id {
			target = r
		}
	}
	require.NotNil(t, target, "rule %s", id)

	for _, m := range reg.Scan(text) {
		if m.Start == 0 && m.End == len(text) && target.Symbols[0].Accepts(m, entity.Value{}) {
			return target.Build(ref, rule.Args{{Match: m}})
		}
	}
	t.Fatalf("rule %s does not match %q", id, text)
	return entity.Value{}, false
}

func TestTextRules(t *testing.T) {
	reg, err := New(LangMulti)
	require.NoError(t, err)

	tests := []struct {
		id, text string
		want     string
		ok       bool
	}{
		{"ruleHHMM", "5pm", "X-X-X 17:X (X/X)", true},
		{"ruleHHMM", "10:30 p.m.", "X-X-X 22:30 (X/X)", true},
		{"ruleHHMM", "12 am", "X-X-X 00:X (X/X)", true},
		{"ruleHHMM", "17 am", "X-X-X 17:X (X/X)", true},
		{"ruleHHMM", "13:30am", "X-X-X 13:30 (X/X)", true},
		{"ruleHHMM", "17.45 Uhr", "X-X-X 17:45 (X/X)", true},
		{"ruleHHOClock", "8 o'clock", "X-X-X 08:X (X/X)", true},
		{"ruleDDMMYYYY", "10.03.22", "2022-03-10 X:X (X/X)", true},
		{"ruleDDMMYYYY", "31.02.2022", "", false},
		{"ruleYYYYMMDD", "2024-02-29", "2024-02-29 X:X (X/X)", true},
		{"ruleDDMM", "31/04", "", false},
		{"ruleDDMM", "5.3.", "X-03-05 X:X (X/X)", true},
		{"ruleYear", "23", "2023-X-X X:X (X/X)", true},
		{"ruleDOM2", "23rd", "X-X-23 X:X (X/X)", true},
		{"ruleDDMonthMarch", "5.März", "X-03-05 X:X (X/X)", true},
		{"ruleDOWMonday", "Montagabend", "X-X-X X:X (0/evening)", true},
		{"ruleDOWFriday", "Fri.", "X-X-X X:X (4/X)", true},
		{"rulePOD", "late afternoon", "X-X-X X:X (X/lateafternoon)", true},
		{"rulePOD", "früher Morgen", "X-X-X X:X (X/earlymorning)", true},
		{"ruleTomorrow", "tomorrow", "2022-03-11 X:X (X/X)", true},
		{"ruleYesterday", "gestern", "2022-03-09 X:X (X/X)", true},
		{"ruleNow", "right now", "2022-03-10 10:00 (X/X)", true},
		{"ruleEOM", "end of the month", "2022-03-31 X:X (X/X)", true},
		{"ruleEOY", "Jahresende", "2022-12-31 X:X (X/X)", true},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.text, func(t *testing.T) {
			v, ok := fire(t, reg, tt.id, tt.text)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, v.String())
			}
		})
	}
}

func TestPODFromMatch(t *testing.T) {
	tests := []struct {
		pod, mod, want string
	}{
		{"Morning", "", entity.PODMorning},
		{"in der Frühe", "", entity.PODMorning},
		{"after noon", "", entity.PODAfternoon},
		{"nachmittags", "", entity.PODAfternoon},
		{"vormittag", "", entity.PODBeforeNoon},
		{"mittags", "", entity.PODNoon},
		{"abends", "", entity.PODEvening},
		{"late", "", entity.PODEvening},
		{"nachts", "", entity.PODNight},
		{"night", "early", "earlynight"},
		{"evening", "später", "lateevening"},
		{"", "", ""},
		{"teatime", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.pod+"/"+tt.mod, func(t *testing.T) {
			assert.Equal(t, tt.want, podFromMatch(tt.pod, tt.mod))
		})
	}
}

func values(vs ...entity.Value) rule.Args {
	args := make(rule.Args, len(vs))
	for i, v := range vs {
		args[i] = rule.Arg{Value: v}
	}
	return args
}

func tv(opts ...entity.Option) entity.Value { return entity.TimeValue(entity.NewTime(opts...)) }

func TestTODWithPOD(t *testing.T) {
	v, ok := buildTODPOD(ref, values(tv(entity.Hour(5)), tv(entity.POD(entity.PODEvening))))
	require.True(t, ok)
	assert.Equal(t, "X-X-X 17:X (X/X)", v.String())

	v, ok = buildPODTOD(ref, values(tv(entity.POD("latenight")), tv(entity.Hour(11), entity.Minute(30))))
	require.True(t, ok)
	assert.Equal(t, "X-X-X 23:30 (X/X)", v.String())

	v, ok = buildTODPOD(ref, values(tv(entity.Hour(12)), tv(entity.POD(entity.PODAfternoon))))
	require.True(t, ok)
	assert.Equal(t, 12, v.Time().Hour())

	_, ok = buildTODPOD(ref, values(tv(entity.Hour(14)), tv(entity.POD(entity.PODMorning))))
	assert.False(t, ok)
}

func TestCombinationBuilders(t *testing.T) {
	date := entity.TimeValue(entity.Date(2022, 3, 11))
	join := rule.Arg{}

	v, ok := buildDateTOD(ref, values(date, tv(entity.Hour(17))))
	require.True(t, ok)
	assert.True(t, v.Satisfies(entity.IsDateTime))

	v, ok = buildDOMMonth(ref, values(tv(entity.Day(23)), tv(entity.Month(3))))
	require.True(t, ok)
	assert.True(t, v.Satisfies(entity.IsDOY))
	_, ok = buildMonthDOM(ref, values(tv(entity.Month(2)), tv(entity.Day(30))))
	assert.False(t, ok)

	v, ok = buildDOWDOM(ref, values(tv(entity.DOW(0)), tv(entity.Day(5))))
	require.True(t, ok)
	assert.Equal(t, "2022-09-05 X:X (X/X)", v.String())

	v, ok = buildDOWDate(ref, values(tv(entity.DOW(0), entity.POD(entity.PODMorning)), entity.TimeValue(entity.Date(2022, 3, 14))))
	require.True(t, ok)
	assert.Equal(t, "2022-03-14 X:X (X/morning)", v.String())
	_, ok = buildDOWDate(ref, values(tv(entity.DOW(0)), entity.TimeValue(entity.Date(2022, 3, 15))))
	assert.False(t, ok, "weekday contradicts the date")

	v, ok = buildNextDOW(ref, rule.Args{join, {Value: tv(entity.DOW(0))}})
	require.True(t, ok)
	assert.Equal(t, "2022-03-14 X:X (X/X)", v.String())

	v, ok = buildDOMDate(ref, rule.Args{{Value: tv(entity.Day(5))}, join, {Value: date}})
	require.True(t, ok)
	assert.Equal(t, "2022-03-05 X:X (X/X) - 2022-03-11 X:X (X/X)", v.String())
	_, ok = buildDOMDate(ref, rule.Args{{Value: tv(entity.Day(12))}, join, {Value: date}})
	assert.False(t, ok)

	_, ok = buildDateDate(ref, rule.Args{{Value: date}, join, {Value: date}})
	assert.False(t, ok, "empty range")

	from, to := entity.NewTime(entity.Hour(9)), entity.NewTime(entity.Hour(12))
	v, ok = buildDateInterval(ref, values(date, entity.IntervalValue(entity.NewInterval(&from, &to))))
	require.True(t, ok)
	assert.Equal(t, "2022-03-11 09:X (X/X) - 2022-03-11 12:X (X/X)", v.String())

	pod := entity.NewTime(entity.POD(entity.PODEvening))
	_, ok = buildDateInterval(ref, values(date, entity.IntervalValue(entity.NewInterval(&from, &pod))))
	assert.False(t, ok, "only times of day are placed on the date")

	v, ok = buildBeforeTime(ref, rule.Args{join, {Value: date}})
	require.True(t, ok)
	assert.Nil(t, v.Interval().From)
	assert.Equal(t, 11, v.Interval().To.Day())
}

func TestBuildTODTOD(t *testing.T) {
	join := rule.Arg{}
	tod := func(h int, m ...int) rule.Arg {
		opts := []entity.Option{entity.Hour(h)}
		if len(m) > 0 {
			opts = append(opts, entity.Minute(m[0]))
		}
		return rule.Arg{Value: tv(opts...)}
	}

	tests := []struct {
		name     string
		from, to rule.Arg
		want     string
	}{
		{"increasing", tod(5), tod(18), "X-X-X 05:X (X/X) - X-X-X 18:X (X/X)"},
		{"same hour, later minute", tod(6), tod(6, 30), "X-X-X 06:X (X/X) - X-X-X 06:30 (X/X)"},
		{"minutes increasing", tod(6, 15), tod(6, 30), "X-X-X 06:15 (X/X) - X-X-X 06:30 (X/X)"},
		{"6 - 5", tod(6), tod(5), ""},
		{"18:00 - 9:00", tod(18, 0), tod(9, 0), ""},
		{"6:30 - 6:30", tod(6, 30), tod(6, 30), ""},
		{"6:30 - 6", tod(6, 30), tod(6), ""},
		{"6 - 6", tod(6), tod(6), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := buildTODTOD(ref, rule.Args{tt.from, join, tt.to})
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, v.String())
		})
	}
}
