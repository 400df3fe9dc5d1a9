package grammar

import "strings"

// Lexicon holds the language-specific word patterns the rule table is built
// from. Each field is a regular-expression alternation without anchors or
// capture groups. An empty field disables the rules that need it.
type Lexicon struct {
	Weekdays    [7]string  // Monday first
	Months      [12]string // January first
	WeekdayPOD  string     // part of day glued to a weekday ("montagabend")
	POD         string
	PODModifier string
	Ordinal     string
	OClock      string
	TODSuffix   string
	AMPM        string

	AbsorbTime     string
	AbsorbInterval string
	DOWComma       string
	Of             string

	Today     string
	Now       string
	Tomorrow  string
	Yesterday string
	EOM       string
	EOY       string

	AtDOW   string
	NextDOW string
	Before  string
	After   string
	Join    string
}

// English is the English lexicon.
var English = Lexicon{
	Weekdays: [7]string{
		`mondays?|mon?\.?`,
		`tuesdays?|tue?\.?`,
		`wednesdays?|wed\.?`,
		`thursdays?|thur?\.?`,
		`fridays?|fri?\.?`,
		`saturdays?|sat?\.?`,
		`sundays?|sun?\.?`,
	},
	Months: [12]string{
		`january|jan\.?`,
		`february|feb\.?`,
		`march|mar\.?`,
		`april|apr\.?`,
		`may`,
		`june|jun\.?`,
		`july|jul\.?`,
		`august|aug\.?`,
		`september|sept?\.?`,
		`october|oct\.?`,
		`november|nov\.?`,
		`december|dec\.?`,
	},
	WeekdayPOD:  `morning|(?:after\s*)?noon|evening|night`,
	POD:         `morning|early|late|(?:after\s*)?noon|evening|night`,
	PODModifier: `early|late`,
	Ordinal:     `st|nd|rd|th`,
	OClock:      `o'?clock`,
	AMPM:        `[ap]\.?m\.?`,

	AbsorbTime:     `at|on|the|ca\.?|approx\.?|about|in(?: the)?`,
	AbsorbInterval: `from`,
	DOWComma:       `,`,
	Of:             `of`,

	Today:     `todays?|at this time`,
	Now:       `(?:(?:just|right)\s*)?now|immediately`,
	Tomorrow:  `tmrw?|tomm?or?rows?`,
	Yesterday: `yesterdays?`,
	EOM:       `(?:the )?(?:eom|end of (?:the )?month)`,
	EOY:       `(?:the )?(?:eoy|end of (?:the )?year)`,

	AtDOW:   `at|on|this`,
	NextDOW: `(?:on |at )?(?:the )?(?:next|following)`,
	Before:  `before|latest`,
	After:   `after|earliest`,
	Join:    `-|–|to(?: the)?|(?:un)?til|no later than|at latest(?: at)?`,
}

// German is the German lexicon.
var German = Lexicon{
	Weekdays: [7]string{
		`montags?|mo\.?`,
		`die?nstags?|die?\.?`,
		`mittwochs?|mi\.?`,
		`donn?erstags?|don?\.?`,
		`freitags?|fr\.?`,
		`samstags?|sonnabends?|sa\.?`,
		`sonntags?|so\.?`,
	},
	Months: [12]string{
		`januar|jan\.?`,
		`februar|feb\.?`,
		`märz|mär\.?`,
		`april|apr\.?`,
		`mai`,
		`juni|jun\.?`,
		`juli|jul\.?`,
		`august|aug\.?`,
		`september|sept?\.?`,
		`oktober|okt\.?`,
		`november|nov\.?`,
		`dezember|dez\.?`,
	},
	WeekdayPOD:  `morgend?s?|früh|(?:vor\s?|nach\s?)?mittags?|abends?|nachts?`,
	POD:         `morgend?s?|(?:in der )?frühe?|spät|(?:vor\s?|nach\s?)?mittags?|abends?|nachts?`,
	PODModifier: `früh(?:er)?|spät(?:er)?`,
	Ordinal:     `ten|ter`,
	OClock:      `uhr|h`,
	TODSuffix:   `uhr|h`,

	AbsorbTime:     `am|um|gegen|den|der|ca\.?`,
	AbsorbInterval: `von|vom`,
	DOWComma:       `,(?: de[nmr])?`,

	Today:     `heute|um diese zeit|zu dieser zeit|um diesen zeitpunkt|zu diesem zeitpunkt`,
	Now:       `(?:genau )?jetzt|diesen moment|in diesem moment|gerade eben`,
	Tomorrow:  `morgen`,
	Yesterday: `gestern`,
	EOM:       `(?:das )?ende (?:des|dieses) monats?`,
	EOY:       `(?:das )?(?:eoy|jahr(?:es)? ?ende|ende (?:des )?jahr(?:es)?)`,

	AtDOW:   `am|diese[nm]`,
	NextDOW: `(?:am )?(?:dem |den )?(?:kommenden|nächsten)`,
	Before:  `vor|spätestens`,
	After:   `nach|ab|frühe?stens`,
	Join:    `-|–|bis(?: zum)?|zum|auf(?: den)?|und|spätestens?`,
}

// Merge combines lexicons field by field into one alternation per field,
// skipping empty and repeated alternatives.
func Merge(lexicons ...Lexicon) Lexicon {
	var out Lexicon
	for i := range out.Weekdays {
		out.Weekdays[i] = alt(lexicons, func(l Lexicon) string { return l.Weekdays[i] })
	}
	for i := range out.Months {
		out.Months[i] = alt(lexicons, func(l Lexicon) string { return l.Months[i] })
	}
	fields := []func(*Lexicon) *string{
		func(l *Lexicon) *string { return &l.WeekdayPOD },
		func(l *Lexicon) *string { return &l.POD },
		func(l *Lexicon) *string { return &l.PODModifier },
		func(l *Lexicon) *string { return &l.Ordinal },
		func(l *Lexicon) *string { return &l.OClock },
		func(l *Lexicon) *string { return &l.TODSuffix },
		func(l *Lexicon) *string { return &l.AMPM },
		func(l *Lexicon) *string { return &l.AbsorbTime },
		func(l *Lexicon) *string { return &l.AbsorbInterval },
		func(l *Lexicon) *string { return &l.DOWComma },
		func(l *Lexicon) *string { return &l.Of },
		func(l *Lexicon) *string { return &l.Today },
		func(l *Lexicon) *string { return &l.Now },
		func(l *Lexicon) *string { return &l.Tomorrow },
		func(l *Lexicon) *string { return &l.Yesterday },
		func(l *Lexicon) *string { return &l.EOM },
		func(l *Lexicon) *string { return &l.EOY },
		func(l *Lexicon) *string { return &l.AtDOW },
		func(l *Lexicon) *string { return &l.NextDOW },
		func(l *Lexicon) *string { return &l.Before },
		func(l *Lexicon) *string { return &l.After },
		func(l *Lexicon) *string { return &l.Join },
	}
	for _, field := range fields {
		*field(&out) = alt(lexicons, func(l Lexicon) string { return *field(&l) })
	}
	return out
}

func alt(lexicons []Lexicon, get func(Lexicon) string) string {
	var parts []string
	seen := make(map[string]bool)
	for _, l := range lexicons {
		for _, p := range splitAlternation(get(l)) {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "|")
}

// splitAlternation splits a pattern at its top-level "|" only.
func splitAlternation(p string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			i++
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, p[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, p[start:])
}
