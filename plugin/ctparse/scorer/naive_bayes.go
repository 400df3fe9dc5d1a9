package scorer

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/ctparse/plugin/ctparse/chart"
)

// Class labels.
const (
	Incorrect = -1
	Correct   = 1
)

// MaxNGram is the longest rule-id n-gram used as a feature.
const MaxNGram = 3

// DefaultAlpha is the Laplace smoothing constant.
const DefaultAlpha = 1.0

// NaiveBayes is a two-class multinomial naive Bayes model over the 1- to
// 3-grams of a derivation's rule ids. It is read-only after Train or Load.
type NaiveBayes struct {
	Alpha float64 `json:"alpha"`
	// LogPrior holds log P(incorrect), log P(correct).
	LogPrior [2]float64 `json:"log_prior"`
	// LogProb maps a feature to log P(feature|incorrect), log P(feature|correct).
	LogProb map[string][2]float64 `json:"log_prob"`
}

// Features returns the n-gram bag of a rule sequence. N-grams are the rule
// ids joined by a single space.
func Features(rules []string) map[string]int {
	bag := make(map[string]int)
	for n := 1; n <= MaxNGram; n++ {
		for i := 0; i+n <= len(rules); i++ {
			bag[strings.Join(rules[i:i+n], " ")]++
		}
	}
	return bag
}

func classIndex(label int) (int, bool) {
	switch label {
	case Incorrect:
		return 0, true
	case Correct:
		return 1, true
	}
	return 0, false
}

// Train fits the model on rule sequences X labelled with y. Both classes
// must be present.
func Train(X [][]string, y []int, alpha float64) (*NaiveBayes, error) {
	if len(X) != len(y) {
		return nil, errors.Errorf("training set has %d samples but %d labels", len(X), len(y))
	}
	if alpha <= 0 {
		return nil, errors.Errorf("alpha must be positive, got %v", alpha)
	}

	var (
		docs   [2]int
		totals [2]float64
		counts = make(map[string]*[2]float64)
	)
	for i, rules := range X {
		c, ok := classIndex(y[i])
		if !ok {
			return nil, errors.Errorf("sample %d: label %d is not -1 or 1", i, y[i])
		}
		docs[c]++
		for f, n := range Features(rules) {
			cnt, ok := counts[f]
			if !ok {
				cnt = new([2]float64)
				counts[f] = cnt
			}
			cnt[c] += float64(n)
			totals[c] += float64(n)
		}
	}
	if docs[0] == 0 || docs[1] == 0 {
		return nil, errors.Errorf("training set needs both classes, got %d incorrect and %d correct", docs[0], docs[1])
	}

	n := float64(docs[0] + docs[1])
	vocab := float64(len(counts))
	m := &NaiveBayes{
		Alpha:    alpha,
		LogPrior: [2]float64{math.Log(float64(docs[0]) / n), math.Log(float64(docs[1]) / n)},
		LogProb:  make(map[string][2]float64, len(counts)),
	}
	for f, cnt := range counts {
		var lp [2]float64
		for c := range lp {
			lp[c] = math.Log((cnt[c] + alpha) / (totals[c] + alpha*vocab))
		}
		m.LogProb[f] = lp
	}
	return m, nil
}

// LogOdds returns log P(correct|rules) - log P(incorrect|rules). Features
// not seen in training are ignored.
func (m *NaiveBayes) LogOdds(rules []string) float64 {
	odds := m.LogPrior[1] - m.LogPrior[0]
	for f, n := range Features(rules) {
		if lp, ok := m.LogProb[f]; ok {
			odds += float64(n) * (lp[1] - lp[0])
		}
	}
	return odds
}

func (m *NaiveBayes) Score(text string, _ time.Time, pp *chart.PartialParse) float64 {
	return m.LogOdds(pp.Rules) + coverage(text, pp.Span)
}

func (m *NaiveBayes) ScoreFinal(text string, _ time.Time, pp *chart.PartialParse, final chart.Production) float64 {
	return m.LogOdds(pp.Rules) + coverage(text, final.Span)
}

// Vocabulary returns the sorted feature set.
func (m *NaiveBayes) Vocabulary() []string {
	out := make([]string, 0, len(m.LogProb))
	for f := range m.LogProb {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Save writes the model as gzip-compressed JSON.
func Save(w io.Writer, m *NaiveBayes) error {
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(m); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return errors.Wrap(zw.Close(), "flush model")
}

// Load reads a model written by Save.
func Load(r io.Reader) (*NaiveBayes, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open model")
	}
	defer zr.Close()

	var m NaiveBayes
	if err := json.NewDecoder(zr).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	if m.Alpha <= 0 || len(m.LogProb) == 0 {
		return nil, errors.New("model is empty")
	}
	return &m, nil
}

// SaveFile writes the model to path.
func SaveFile(path string, m *NaiveBayes) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := Save(f, m); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// LoadFile reads a model from path.
func LoadFile(path string) (*NaiveBayes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return m, nil
}
