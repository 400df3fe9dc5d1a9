package rule

import (
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
)

// MaxSymbols is the longest right-hand side a rule may have.
const MaxSymbols = 3

// Builder turns the values matched by a rule's symbols into a new entity.
// Returning false rejects this particular combination. Builders must be pure
// functions of their arguments.
type Builder func(ref time.Time, args Args) (entity.Value, bool)

// Rule pairs a symbol sequence with its builder.
type Rule struct {
	ID      string
	Symbols []Symbol
	Build   Builder
}

type pattern struct {
	src   string
	re    *regexp.Regexp
	names []string
}

// Registry is the rule table handed to the chart engine. It is built once,
// then only read, so one Registry may serve concurrent parses.
type Registry struct {
	rules     []*Rule
	ids       map[string]struct{}
	patterns  []*pattern
	byPattern map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ids:       make(map[string]struct{}),
		byPattern: make(map[string]int),
	}
}

// Add registers a rule. Text symbols are compiled case-insensitively and
// anchored at token boundaries; identical patterns share one compiled form.
func (r *Registry) Add(id string, build Builder, symbols ...Symbol) error {
	if id == "" {
		return errors.New("rule id is empty")
	}
	if _, dup := r.ids[id]; dup {
		return errors.Errorf("rule %q already registered", id)
	}
	if build == nil {
		return errors.Errorf("rule %q has no builder", id)
	}
	if len(symbols) == 0 || len(symbols) > MaxSymbols {
		return errors.Errorf("rule %q has %d symbols, want 1..%d", id, len(symbols), MaxSymbols)
	}

	syms := make([]Symbol, len(symbols))
	for i, s := range symbols {
		switch s.Kind {
		case SymbolRegex, SymbolJoin:
			pid, err := r.compile(s.Pattern)
			if err != nil {
				return errors.Wrapf(err, "rule %q symbol %d", id, i)
			}
			s.pid = pid
		case SymbolPredicate:
			if !s.Predicate.Valid() {
				return errors.Errorf("rule %q: unknown predicate %q", id, s.Predicate)
			}
		case SymbolDimension:
			if s.Dimension != entity.KindTime && s.Dimension != entity.KindInterval {
				return errors.Errorf("rule %q: invalid dimension %s", id, s.Dimension)
			}
		default:
			return errors.Errorf("rule %q: invalid symbol kind %s", id, s.Kind)
		}
		syms[i] = s
	}

	r.ids[id] = struct{}{}
	r.rules = append(r.rules, &Rule{ID: id, Symbols: syms, Build: build})
	return nil
}

// MustAdd is Add for static tables; it panics on error.
func (r *Registry) MustAdd(id string, build Builder, symbols ...Symbol) {
	if err := r.Add(id, build, symbols...); err != nil {
		panic(err)
	}
}

func (r *Registry) compile(src string) (int, error) {
	if pid, ok := r.byPattern[src]; ok {
		return pid, nil
	}
	if src == "" {
		return 0, errors.New("empty pattern")
	}
	re, err := regexp.Compile(`(?i)^(?:` + src + `)`)
	if err != nil {
		return 0, errors.Wrapf(err, "compile %q", src)
	}
	re.Longest()
	pid := len(r.patterns)
	r.patterns = append(r.patterns, &pattern{src: src, re: re, names: re.SubexpNames()})
	r.byPattern[src] = pid
	return pid, nil
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []*Rule { return r.rules }

// Len returns the number of rules.
func (r *Registry) Len() int { return len(r.rules) }

// Patterns returns the number of distinct compiled patterns.
func (r *Registry) Patterns() int { return len(r.patterns) }

// Scan finds every pattern hit that starts and ends on a token boundary. Each
// pattern contributes at most one (the longest) match per start offset.
func (r *Registry) Scan(text string) []*Match {
	var out []*Match
	for i := 0; i < len(text); {
		c, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(c) && boundaryAt(text, i) {
			out = r.scanAt(text, i, out)
		}
		i += size
	}
	return out
}

func (r *Registry) scanAt(text string, start int, out []*Match) []*Match {
	rest := text[start:]
	for pid, p := range r.patterns {
		loc := p.re.FindStringSubmatchIndex(rest)
		if loc == nil || loc[1] == 0 {
			continue
		}
		end := start + loc[1]
		if !boundaryAt(text, end) {
			continue
		}
		m := &Match{
			Span:    Span{Start: start, End: end},
			Pattern: pid,
			Text:    text[start:end],
		}
		for gi, name := range p.names {
			if name == "" || loc[2*gi] < 0 {
				continue
			}
			if m.groups == nil {
				m.groups = make(map[string]string)
			}
			m.groups[name] = rest[loc[2*gi]:loc[2*gi+1]]
		}
		out = append(out, m)
	}
	return out
}
