// Package grammar is the static rule catalog for dates, times and intervals.
// Rules are data: a symbol sequence per rule id plus a builder, registered
// in a fixed order so that parses are reproducible.
package grammar

import (
	"github.com/pkg/errors"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
	"github.com/hrygo/ctparse/plugin/ctparse/resolve"
	"github.com/hrygo/ctparse/plugin/ctparse/rule"
)

// Supported languages.
const (
	LangEnglish = "en"
	LangGerman  = "de"
	LangMulti   = "multi"
)

// ErrUnknownLanguage is returned for a language without a lexicon.
var ErrUnknownLanguage = errors.New("unknown language")

// Shared numeric sub-patterns.
const (
	reDay    = `0?[1-9]|[12][0-9]|3[01]`
	reMonth  = `0?[1-9]|1[0-2]`
	reYear   = `(?:19|20)?[0-9]{2}`
	reHour   = `[01]?[0-9]|2[0-3]`
	reMinute = `[0-5][0-9]`
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Languages lists the accepted language codes.
func Languages() []string { return []string{LangEnglish, LangGerman, LangMulti} }

// LexiconFor returns the lexicon of a language code.
func LexiconFor(lang string) (Lexicon, error) {
	switch lang {
	case LangEnglish:
		return English, nil
	case LangGerman:
		return German, nil
	case LangMulti, "":
		return Merge(English, German), nil
	}
	return Lexicon{}, errors.Wrapf(ErrUnknownLanguage, "%q", lang)
}

// New builds the rule registry for a language.
func New(lang string) (*rule.Registry, error) {
	lex, err := LexiconFor(lang)
	if err != nil {
		return nil, err
	}
	return Build(lex)
}

// table collects registrations and remembers the first error.
type table struct {
	r   *rule.Registry
	err error
}

// add registers a rule unless the lexicon has no words for one of its text
// symbols.
func (t *table) add(id string, build rule.Builder, symbols ...rule.Symbol) {
	if t.err != nil {
		return
	}
	for _, s := range symbols {
		if s.IsText() && s.Pattern == "" {
			return
		}
	}
	t.err = t.r.Add(id, build, symbols...)
}

// group wraps a non-empty alternation in a non-capturing group.
func group(alt string) string {
	if alt == "" {
		return ""
	}
	return "(?:" + alt + ")"
}

func named(name, alt string) string { return "(?P<" + name + ">" + alt + ")" }

// Build registers the full catalog for a lexicon.
func Build(lex Lexicon) (*rule.Registry, error) {
	t := &table{r: rule.NewRegistry()}
	var (
		pred = rule.Pred
		re   = rule.Regex
	)

	t.add("ruleAbsorbOnTime", absorbTime, re(group(lex.AbsorbTime)), rule.Dim(entity.KindTime))
	t.add("ruleAbsorbFromInterval", absorbInterval, re(group(lex.AbsorbInterval)), rule.Dim(entity.KindInterval))
	t.add("ruleAbsorbDOWComma", absorbDOWComma, pred(entity.HasDOW), re(group(lex.DOWComma)))

	for i, ex := range lex.Weekdays {
		pattern := group(ex)
		if lex.WeekdayPOD != "" {
			pattern += named("pod", lex.WeekdayPOD) + "?"
		}
		t.add("ruleDOW"+weekdayNames[i], buildDOW(i), re(pattern))
	}
	for i, ex := range lex.Months {
		t.add("ruleMonth"+monthNames[i], buildMonth(i+1), re(group(ex)))
	}
	for i, ex := range lex.Months {
		t.add("ruleDDMonth"+monthNames[i], buildDDMonth(i+1), re(named("day", reDay)+`\.?`+group(ex)))
	}

	podPattern := named("pod", lex.POD)
	if lex.PODModifier != "" {
		podPattern = "(?:" + named("mod", lex.PODModifier) + `\s*)?` + podPattern
	}
	t.add("rulePOD", buildPOD, re(podPattern))

	t.add("ruleDOM1", buildDOM, re(named("day", reDay)+`\.?`))
	t.add("ruleMonthOrdinal", buildMonthOrdinal, re(named("month", reMonth)+`\.`))
	if lex.Ordinal != "" {
		t.add("ruleDOM2", buildDOM, re(named("day", reDay)+`\s*`+group(lex.Ordinal)))
	}
	t.add("ruleYear", buildYear, re(named("year", reYear)))

	t.add("ruleToday", buildToday, re(group(lex.Today)))
	t.add("ruleNow", buildNow, re(group(lex.Now)))
	t.add("ruleTomorrow", buildTomorrow, re(group(lex.Tomorrow)))
	t.add("ruleYesterday", buildYesterday, re(group(lex.Yesterday)))
	t.add("ruleEOM", buildEOM, re(group(lex.EOM)))
	t.add("ruleEOY", buildEOY, re(group(lex.EOY)))

	t.add("ruleDOMMonth", buildDOMMonth, pred(entity.IsDOM), pred(entity.IsMonth))
	t.add("ruleDOMMonth2", buildDOMMonth, pred(entity.IsDOM), re(group(lex.Of)), pred(entity.IsMonth))
	t.add("ruleMonthDOM", buildMonthDOM, pred(entity.IsMonth), pred(entity.IsDOM))
	t.add("ruleAtDOW", buildNextDOW, re(group(lex.AtDOW)), pred(entity.HasDOW))
	t.add("ruleNextDOW", buildNextDOW, re(group(lex.NextDOW)), pred(entity.HasDOW))
	t.add("ruleDOYYear", buildDOYYear, pred(entity.IsDOY), pred(entity.IsYear))
	t.add("ruleDOWDOM", buildDOWDOM, pred(entity.HasDOW), pred(entity.IsDOM))
	t.add("ruleDOWDate", buildDOWDate, pred(entity.HasDOW), pred(entity.IsDate))

	t.add(resolve.RuleLatentDOM, latentDOM, pred(entity.IsDOM))
	t.add(resolve.RuleLatentDOW, latentDOW, pred(entity.HasDOW))
	t.add(resolve.RuleLatentDOY, latentDOY, pred(entity.IsDOY))
	t.add(resolve.RuleLatentTOD, latentTOD, pred(entity.IsTOD))
	t.add(resolve.RuleLatentTimeInterval, latentTimeInterval, pred(entity.IsTimeInterval))
	t.add(resolve.RuleLatentPOD, latentPOD, pred(entity.IsPOD))

	t.add("ruleDDMM", buildDDMM, re(named("day", reDay)+`[./-]`+named("month", reMonth)+`\.?`))
	t.add("ruleDDMMYYYY", buildDDMMYYYY, re(named("day", reDay)+`[./-]`+named("month", reMonth)+`[./-]`+named("year", reYear)))
	t.add("ruleYYYYMMDD", buildYYYYMMDD, re(named("year", `(?:19|20)[0-9]{2}`)+`-`+named("month", `0[1-9]|1[0-2]`)+`-`+named("day", `0[1-9]|[12][0-9]|3[01]`)))

	hhmm := named("hour", reHour) + `(?:[:.h]?` + named("minute", reMinute) + `)?`
	if lex.TODSuffix != "" {
		hhmm += `(?:\s*` + group(lex.TODSuffix) + `)?`
	}
	if lex.AMPM != "" {
		hhmm += named("ampm", `\s*`+group(lex.AMPM)) + "?"
	}
	t.add("ruleHHMM", buildHHMM, re(hhmm))
	if lex.OClock != "" {
		t.add("ruleHHOClock", buildHHOClock, re(named("hour", reHour)+`\s*`+group(lex.OClock)))
	}

	t.add("ruleTODPOD", buildTODPOD, pred(entity.IsTOD), pred(entity.IsPOD))
	t.add("rulePODTOD", buildPODTOD, pred(entity.IsPOD), pred(entity.IsTOD))
	t.add("ruleDateTOD", buildDateTOD, pred(entity.IsDate), pred(entity.IsTOD))
	t.add("ruleTODDate", buildTODDate, pred(entity.IsTOD), pred(entity.IsDate))
	t.add("ruleDatePOD", buildDatePOD, pred(entity.IsDate), pred(entity.IsPOD))

	t.add("ruleBeforeTime", buildBeforeTime, re(group(lex.Before)), rule.Dim(entity.KindTime))
	t.add("ruleAfterTime", buildAfterTime, re(group(lex.After)), rule.Dim(entity.KindTime))

	join := rule.Join(group(lex.Join))
	t.add("ruleDateDate", buildDateDate, pred(entity.IsDate), join, pred(entity.IsDate))
	t.add("ruleDOMDate", buildDOMDate, pred(entity.IsDOM), join, pred(entity.IsDate))
	t.add("ruleDateTimeDateTime", buildDateTimeDateTime, pred(entity.IsDateTime), join, pred(entity.IsDateTime))
	t.add("ruleTODTOD", buildTODTOD, pred(entity.IsTOD), join, pred(entity.IsTOD))
	t.add("ruleDateInterval", buildDateInterval, pred(entity.IsDate), rule.Dim(entity.KindInterval))

	if t.err != nil {
		return nil, errors.Wrap(t.err, "build grammar")
	}
	return t.r, nil
}
