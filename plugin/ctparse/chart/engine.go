package chart

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
	"github.com/hrygo/ctparse/plugin/ctparse/rule"
)

// Engine runs the chart search. It holds no per-parse state, so one Engine
// may serve concurrent parses as long as its scorer is read-only.
type Engine struct {
	registry *rule.Registry
	scorer   Scorer
	resolver Resolver
	opts     Options
}

// New creates an Engine. Zero option fields take their defaults.
func New(registry *rule.Registry, scorer Scorer, resolver Resolver, opts Options) *Engine {
	def := DefaultOptions()
	if opts.BeamSize <= 0 {
		opts.BeamSize = def.BeamSize
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = def.MaxRounds
	}
	return &Engine{registry: registry, scorer: scorer, resolver: resolver, opts: opts}
}

// Options returns the effective search options.
func (e *Engine) Options() Options { return e.opts }

// table is the per-parse chart.
type table struct {
	text  string
	ref   time.Time
	terms []*PartialParse
	cells map[rule.Span][]*PartialParse
	spans []rule.Span
	next  []int

	items  int
	pruned int
}

func newTable(text string, ref time.Time) *table {
	t := &table{
		text:  text,
		ref:   ref,
		cells: make(map[rule.Span][]*PartialParse),
		next:  make([]int, len(text)+1),
	}
	// next[i] is the first non-space offset at or after i
	t.next[len(text)] = len(text)
	for i := len(text) - 1; i >= 0; i-- {
		if !utf8.RuneStart(text[i]) {
			t.next[i] = t.next[i+1]
			continue
		}
		r, _ := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			t.next[i] = t.next[i+1]
		} else {
			t.next[i] = i
		}
	}
	return t
}

// index groups every current item by start offset, in a stable order.
func (t *table) index() map[int][]*PartialParse {
	idx := make(map[int][]*PartialParse)
	for _, pp := range t.terms {
		idx[pp.Span.Start] = append(idx[pp.Span.Start], pp)
	}
	slices.SortFunc(t.spans, func(a, b rule.Span) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	for _, s := range t.spans {
		idx[s.Start] = append(idx[s.Start], t.cells[s]...)
	}
	return idx
}

// insert adds pp to its span's beam. It reports whether pp was kept.
func (t *table) insert(pp *PartialParse, beam int) bool {
	cell, exists := t.cells[pp.Span]
	for i, old := range cell {
		if !old.Value.Equal(pp.Value) {
			continue
		}
		if !better(pp, old) {
			return false
		}
		cell[i] = pp
		slices.SortStableFunc(cell, byBeam)
		return true
	}

	cell = append(cell, pp)
	slices.SortStableFunc(cell, byBeam)
	kept := true
	if len(cell) > beam {
		for _, dropped := range cell[beam:] {
			if dropped == pp {
				kept = false
			}
		}
		t.pruned += len(cell) - beam
		cell = cell[:beam]
	}
	if !exists {
		t.spans = append(t.spans, pp.Span)
	}
	t.cells[pp.Span] = cell
	return kept
}

func byBeam(a, b *PartialParse) int {
	if better(a, b) {
		return -1
	}
	if better(b, a) {
		return 1
	}
	return 0
}

// Parse runs the search over text with ref as "now". The context bounds the
// search: once it is done, no further round starts and the candidates found
// so far are returned with Partial set. The first round always runs.
func (e *Engine) Parse(ctx context.Context, text string, ref time.Time) Outcome {
	t := newTable(text, ref)
	for _, m := range e.registry.Scan(text) {
		t.terms = append(t.terms, &PartialParse{Span: m.Span, Match: m})
	}

	var out Outcome
	for round := 1; round <= e.opts.MaxRounds && len(t.terms) > 0; round++ {
		if round > 1 && ctx.Err() != nil {
			out.Partial = true
			break
		}
		out.Rounds = round

		idx := t.index()
		var fresh []*PartialParse
		for _, r := range e.registry.Rules() {
			for _, start := range sortedKeys(idx) {
				e.match(t, idx, r, nil, start, round, &fresh)
			}
		}

		added := 0
		for _, pp := range fresh {
			if t.insert(pp, e.opts.BeamSize) {
				added++
			}
		}
		t.items += added
		if added == 0 {
			break
		}
		if round == e.opts.MaxRounds {
			out.BoundHit = true
		}
	}

	out.Results = e.finalize(t)
	out.Items = t.items
	out.Pruned = t.pruned
	slog.Debug("chart parse finished",
		slog.Int("rounds", out.Rounds),
		slog.Int("items", out.Items),
		slog.Int("pruned", out.Pruned),
		slog.Int("candidates", len(out.Results)),
		slog.Bool("bound_hit", out.BoundHit),
		slog.Bool("partial", out.Partial),
	)
	return out
}

func sortedKeys(idx map[int][]*PartialParse) []int {
	keys := make([]int, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// match extends seq with every item at pos accepted by the next symbol of r.
// A complete sequence fires only if one of its items comes from the
// previous round; older sequences were tried before.
func (e *Engine) match(t *table, idx map[int][]*PartialParse, r *rule.Rule, seq []*PartialParse, pos, round int, fresh *[]*PartialParse) {
	k := len(seq)
	if k == len(r.Symbols) {
		for _, pp := range seq {
			if pp.round == round-1 {
				e.fire(t, r, seq, round, fresh)
				return
			}
		}
		return
	}
	if pos >= len(t.text) {
		return
	}
	for _, pp := range idx[pos] {
		if !r.Symbols[k].Accepts(pp.Match, pp.Value) {
			continue
		}
		e.match(t, idx, r, append(seq[:k:k], pp), t.next[pp.Span.End], round, fresh)
	}
}

func (e *Engine) fire(t *table, r *rule.Rule, seq []*PartialParse, round int, fresh *[]*PartialParse) {
	args := make(rule.Args, len(seq))
	var rules []string
	for i, pp := range seq {
		if i > 0 && pp.Span.Start != t.next[seq[i-1].Span.End] {
			panic(fmt.Sprintf("chart: rule %s fired across non-adjacent spans %v and %v", r.ID, seq[i-1].Span, pp.Span))
		}
		args[i] = rule.Arg{Match: pp.Match, Value: pp.Value}
		rules = append(rules, pp.Rules...)
	}

	v, ok := r.Build(t.ref, args)
	if !ok {
		return
	}
	if v.Kind() == entity.KindNone {
		panic(fmt.Sprintf("chart: rule %s built a value without kind", r.ID))
	}

	pp := &PartialParse{
		Span:  seq[0].Span.Cover(seq[len(seq)-1].Span),
		Value: v,
		Rules: append(rules, r.ID),
		round: round,
	}
	pp.Score = e.scorer.Score(t.text, t.ref, pp)
	*fresh = append(*fresh, pp)
}

// finalize grounds every remaining latent entity, scores all candidates with
// ScoreFinal, keeps the best derivation per value and ranks them.
func (e *Engine) finalize(t *table) []Result {
	var results []Result
	for _, s := range t.spans {
		for _, pp := range t.cells[s] {
			final := pp
			if v, id, ok := e.resolver.Ground(t.ref, pp.Value); ok {
				final = &PartialParse{
					Span:  pp.Span,
					Value: v,
					Rules: append(slices.Clone(pp.Rules), id),
					round: pp.round,
				}
			}
			score := e.scorer.ScoreFinal(t.text, t.ref, final, Production{Span: final.Span, Value: final.Value})
			results = append(results, Result{
				Value: final.Value,
				Span:  final.Span,
				Text:  t.text[final.Span.Start:final.Span.End],
				Rules: final.Rules,
				Score: score,
			})
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int { return compareResults(t.text, a, b) })

	// keep the first, i.e. best, result per value
	out := results[:0]
	for _, r := range results {
		dup := false
		for _, kept := range out {
			if kept.Value.Equal(r.Value) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}
