// Package chart implements the bottom-up chart search over a rule registry.
//
// Every registry pattern hit becomes a round-0 item. Each following round
// applies every rule to every sequence of adjacent items that involves at
// least one item from the previous round, until a round adds nothing or the
// round bound is reached. Each span keeps a beam of its best-scoring
// entities. Remaining latent entities are then grounded and the candidates
// ranked by their final score.
package chart

import (
	"slices"
	"time"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
	"github.com/hrygo/ctparse/plugin/ctparse/rule"
)

// PartialParse is one chart item: a raw pattern match (Match set, Value
// zero) or an entity derived by rules over the span.
type PartialParse struct {
	Span  rule.Span
	Value entity.Value
	Match *rule.Match
	// Rules is the derivation history: the children's histories in text
	// order, then the id of the rule that built this item.
	Rules []string
	Score float64

	round int
}

// IsText reports whether the item is a raw match rather than an entity.
func (p *PartialParse) IsText() bool { return p.Match != nil }

// Production is the final entity of a derivation and the span it covers.
type Production struct {
	rule.Span
	Value entity.Value
}

// Scorer ranks derivations. Score is used for beam pruning during the
// search; ScoreFinal ranks the output candidates. Implementations must be
// safe for concurrent use.
type Scorer interface {
	Score(text string, ref time.Time, pp *PartialParse) float64
	ScoreFinal(text string, ref time.Time, pp *PartialParse, final Production) float64
}

// Resolver grounds a latent value, returning the grounding rule id. ok is
// false when v needs no grounding.
type Resolver interface {
	Ground(ref time.Time, v entity.Value) (grounded entity.Value, ruleID string, ok bool)
}

// Result is one ranked output candidate.
type Result struct {
	Value entity.Value
	Span  rule.Span
	Text  string
	Rules []string
	Score float64
}

// Outcome is the ranked candidate list plus search statistics.
type Outcome struct {
	Results []Result
	Rounds  int
	Items   int
	Pruned  int
	// BoundHit is set when the search stopped at MaxRounds while still
	// producing items.
	BoundHit bool
	// Partial is set when the context ended the search early; Results then
	// hold the best candidates found so far.
	Partial bool
}

// Best returns the top candidate.
func (o Outcome) Best() (Result, bool) {
	if len(o.Results) == 0 {
		return Result{}, false
	}
	return o.Results[0], true
}

// Options tunes the search.
type Options struct {
	BeamSize  int
	MaxRounds int
}

// DefaultOptions returns the default beam width and round bound.
func DefaultOptions() Options {
	return Options{BeamSize: 20, MaxRounds: 16}
}

// compareRules orders histories: fewer rules first, then lexically by id.
func compareRules(a, b []string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return slices.Compare(a, b)
}

// better is the in-cell beam order.
func better(a, b *PartialParse) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return compareRules(a.Rules, b.Rules) < 0
}

// compareResults is the output order: coverage, final score, rule count,
// rule ids, start offset. A reading that covers more of the text always
// outranks a fragment, whatever the model thinks of the fragment's rules.
func compareResults(text string, a, b Result) int {
	if la, lb := a.Span.RuneLen(text), b.Span.RuneLen(text); la != lb {
		return lb - la
	}
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	if c := compareRules(a.Rules, b.Rules); c != 0 {
		return c
	}
	return a.Span.Start - b.Span.Start
}
