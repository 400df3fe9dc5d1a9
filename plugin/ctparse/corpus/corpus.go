// Package corpus turns labelled time expressions into scorer training data
// and measures parser accuracy against them.
package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/ctparse/plugin/ctparse"
	"github.com/hrygo/ctparse/plugin/ctparse/chart"
	"github.com/hrygo/ctparse/plugin/ctparse/scorer"
)

// Entry is one labelled example. Expected is the string form of the correct
// reading, e.g. "2022-03-11 17:00 (X/X)".
type Entry struct {
	Text      string    `json:"text"`
	Reference time.Time `json:"reference"`
	Expected  string    `json:"expected"`
	Lang      string    `json:"lang,omitempty"`
}

// Parser is the part of the parsing service the corpus needs.
type Parser interface {
	ParseAll(ctx context.Context, text string, ref time.Time, lang string) (ctparse.Outcome, error)
}

// parseAll runs p over entries with at most concurrency parses in flight.
// Outcomes are in entry order.
func parseAll(ctx context.Context, p Parser, entries []Entry, concurrency int) ([]ctparse.Outcome, error) {
	out := make([]ctparse.Outcome, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			o, err := p.ParseAll(gctx, e.Text, e.Reference, e.Lang)
			if err != nil {
				return errors.Wrapf(err, "entry %d %q", i, e.Text)
			}
			out[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Dataset parses every entry and labels every prefix of every candidate's
// rule sequence: Correct when the candidate's string form equals Expected,
// Incorrect otherwise.
func Dataset(ctx context.Context, p Parser, entries []Entry, concurrency int) (X [][]string, y []int, err error) {
	outcomes, err := parseAll(ctx, p, entries, concurrency)
	if err != nil {
		return nil, nil, err
	}
	for i, o := range outcomes {
		for _, r := range o.Results {
			label := scorer.Incorrect
			if r.Value.String() == entries[i].Expected {
				label = scorer.Correct
			}
			for n := 1; n <= len(r.Rules); n++ {
				X = append(X, r.Rules[:n:n])
				y = append(y, label)
			}
		}
	}
	return X, y, nil
}

// Miss is an entry whose best reading was wrong or missing.
type Miss struct {
	Entry Entry
	Got   string
}

// Report summarises an evaluation run.
type Report struct {
	Total   int
	Correct int
	NoParse int
	// Covered counts entries whose expected reading is among the candidates
	// at any rank.
	Covered int
	Misses  []Miss
}

// Accuracy is the top-1 exact-match rate.
func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Evaluate compares the best reading of every entry with its Expected form.
func Evaluate(ctx context.Context, p Parser, entries []Entry, concurrency int) (Report, error) {
	outcomes, err := parseAll(ctx, p, entries, concurrency)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Total: len(entries)}
	for i, o := range outcomes {
		e := entries[i]
		if len(o.Results) == 0 {
			rep.NoParse++
			rep.Misses = append(rep.Misses, Miss{Entry: e})
			continue
		}
		if contains(o.Results, e.Expected) {
			rep.Covered++
		}
		got := o.Results[0].Value.String()
		if got == e.Expected {
			rep.Correct++
			continue
		}
		rep.Misses = append(rep.Misses, Miss{Entry: e, Got: got})
	}
	return rep, nil
}

func contains(results []chart.Result, expected string) bool {
	for _, r := range results {
		if r.Value.String() == expected {
			return true
		}
	}
	return false
}

// ReadJSONL reads one Entry per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if e.Text == "" || e.Expected == "" {
			return nil, errors.Errorf("line %d: text and expected are required", line)
		}
		if e.Reference.IsZero() {
			return nil, errors.Errorf("line %d: reference is required", line)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read corpus")
	}
	return entries, nil
}
