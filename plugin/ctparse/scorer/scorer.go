// Package scorer provides chart.Scorer implementations: a multinomial naive
// Bayes model over rule-id n-grams, and a coverage-only scorer.
package scorer

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/hrygo/ctparse/plugin/ctparse/chart"
	"github.com/hrygo/ctparse/plugin/ctparse/rule"
)

var (
	_ chart.Scorer = Length{}
	_ chart.Scorer = (*NaiveBayes)(nil)
)

// coverage is log(covered characters / text characters). It is 0 for a
// parse covering the whole text and negative otherwise.
func coverage(text string, span rule.Span) float64 {
	total := utf8.RuneCountInString(text)
	covered := span.RuneLen(text)
	if total == 0 || covered == 0 {
		return math.Inf(-1)
	}
	return math.Log(float64(covered) / float64(total))
}

// Length ranks parses by coverage alone.
type Length struct{}

func (Length) Score(text string, _ time.Time, pp *chart.PartialParse) float64 {
	return coverage(text, pp.Span)
}

func (Length) ScoreFinal(text string, _ time.Time, _ *chart.PartialParse, final chart.Production) float64 {
	return coverage(text, final.Span)
}
