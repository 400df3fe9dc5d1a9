// Package rule is the declarative grammar mechanism: rules of one to three
// symbols (text patterns, joins, predicates over entities, entity
// dimensions), each with a builder, collected into a Registry that also
// performs the boundary-anchored scan of raw text.
package rule

import (
	"fmt"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
)

// SymbolKind distinguishes what a rule symbol matches in the chart.
type SymbolKind int

const (
	// SymbolRegex matches raw text through a pattern.
	SymbolRegex SymbolKind = iota
	// SymbolJoin is a regex used as the connector between two entities.
	SymbolJoin
	// SymbolPredicate matches an entity satisfying a named predicate.
	SymbolPredicate
	// SymbolDimension matches any entity of a given kind.
	SymbolDimension
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolRegex:
		return "regex"
	case SymbolJoin:
		return "join"
	case SymbolPredicate:
		return "predicate"
	case SymbolDimension:
		return "dimension"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is one position of a rule's right-hand side.
type Symbol struct {
	Kind      SymbolKind
	Pattern   string
	Predicate entity.Predicate
	Dimension entity.Kind

	// pattern index, set when the owning rule is registered
	pid int
}

// Regex matches text against pattern. Boundary anchoring is applied by the
// registry; patterns must not anchor themselves.
func Regex(pattern string) Symbol { return Symbol{Kind: SymbolRegex, Pattern: pattern} }

// Join is a connector pattern such as "-" or "until".
func Join(pattern string) Symbol { return Symbol{Kind: SymbolJoin, Pattern: pattern} }

// Pred matches an entity satisfying p.
func Pred(p entity.Predicate) Symbol { return Symbol{Kind: SymbolPredicate, Predicate: p} }

// Dim matches any entity of kind k.
func Dim(k entity.Kind) Symbol { return Symbol{Kind: SymbolDimension, Dimension: k} }

// IsText reports whether the symbol consumes raw text rather than an entity.
func (s Symbol) IsText() bool { return s.Kind == SymbolRegex || s.Kind == SymbolJoin }

// Accepts reports whether a chart item fits this symbol. Text symbols accept
// only matches of their own pattern; entity symbols accept only entities.
func (s Symbol) Accepts(m *Match, v entity.Value) bool {
	switch s.Kind {
	case SymbolRegex, SymbolJoin:
		return m != nil && m.Pattern == s.pid
	case SymbolPredicate:
		return m == nil && v.Satisfies(s.Predicate)
	case SymbolDimension:
		return m == nil && v.Kind() == s.Dimension
	}
	return false
}

func (s Symbol) String() string {
	switch s.Kind {
	case SymbolPredicate:
		return "pred(" + string(s.Predicate) + ")"
	case SymbolDimension:
		return "dim(" + s.Dimension.String() + ")"
	}
	return s.Kind.String() + "(" + s.Pattern + ")"
}
