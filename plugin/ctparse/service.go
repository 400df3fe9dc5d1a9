// Package ctparse is the time-expression parsing service: it owns one chart
// engine per language, caches ranked results and bridges the best reading to
// a concrete time range.
package ctparse

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/ctparse/plugin/cache"
	"github.com/hrygo/ctparse/plugin/ctparse/chart"
	"github.com/hrygo/ctparse/plugin/ctparse/grammar"
	"github.com/hrygo/ctparse/plugin/ctparse/resolve"
)

var (
	// ErrNoParse is returned when no candidate was found. It is not a fault.
	ErrNoParse = errors.New("no parse found")
	// ErrUnknownLanguage is returned for a language without a grammar.
	ErrUnknownLanguage = grammar.ErrUnknownLanguage
)

// TimeService defines the time parsing service interface.
// Consumers: the HTTP API, the CLI and corpus tooling.
type TimeService interface {
	// ParseAll returns every ranked candidate. An empty list is not an error.
	ParseAll(ctx context.Context, text string, ref time.Time, lang string) (Outcome, error)

	// Parse returns the best candidate, or ErrNoParse.
	Parse(ctx context.Context, text string, ref time.Time, lang string) (chart.Result, error)

	// ParseNaturalTime parses a time expression into a concrete range.
	// reference: reference time point (usually current time)
	ParseNaturalTime(ctx context.Context, text string, reference time.Time) (TimeRange, error)
}

// Outcome is the ranked candidate list of one parse.
type Outcome struct {
	Results []chart.Result
	// Partial is set when the deadline cut the search short.
	Partial bool
	Cached  bool
}

// Config configures the service.
type Config struct {
	Lang    string        // default language (default: multi)
	Search  chart.Options // beam width and round bound
	Timeout time.Duration // per-parse deadline, 0 for none
	Cache   cache.ServiceConfig
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		Lang:    grammar.LangMulti,
		Search:  chart.DefaultOptions(),
		Timeout: 500 * time.Millisecond,
		Cache:   cache.DefaultServiceConfig(),
	}
}

// Service implements TimeService on top of the chart engine.
type Service struct {
	engines map[string]*chart.Engine
	lang    string
	timeout time.Duration
	cache   *cache.Service[Outcome]
	metrics *Metrics
}

// NewService builds one engine per language sharing the given scorer.
func NewService(cfg Config, scorer chart.Scorer, metrics *Metrics) (*Service, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if cfg.Lang == "" {
		cfg.Lang = grammar.LangMulti
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	s := &Service{
		engines: make(map[string]*chart.Engine),
		lang:    cfg.Lang,
		timeout: cfg.Timeout,
		cache:   cache.NewService[Outcome](cfg.Cache),
		metrics: metrics,
	}
	resolver := resolve.New()
	for _, lang := range grammar.Languages() {
		reg, err := grammar.New(lang)
		if err != nil {
			return nil, errors.Wrapf(err, "build %s grammar", lang)
		}
		s.engines[lang] = chart.New(reg, scorer, resolver, cfg.Search)
	}
	if _, ok := s.engines[s.lang]; !ok {
		return nil, errors.Wrapf(ErrUnknownLanguage, "default language %q", s.lang)
	}
	return s, nil
}

// Languages returns the supported language codes.
func (s *Service) Languages() []string { return grammar.Languages() }

func cacheKey(lang, text string, ref time.Time) string {
	return lang + "|" + ref.Format(time.RFC3339Nano) + "|" + text
}

// ParseAll runs the chart search for text. An empty lang selects the
// default language.
func (s *Service) ParseAll(ctx context.Context, text string, ref time.Time, lang string) (Outcome, error) {
	if lang == "" {
		lang = s.lang
	}
	engine, ok := s.engines[lang]
	if !ok {
		return Outcome{}, errors.Wrapf(ErrUnknownLanguage, "%q", lang)
	}

	key := cacheKey(lang, text, ref)
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.metrics.CacheHitsTotal.Inc()
		cached.Cached = true
		return cached, nil
	}
	s.metrics.CacheMissTotal.Inc()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res := engine.Parse(ctx, text, ref)
	elapsed := time.Since(start)

	out := Outcome{Results: res.Results, Partial: res.Partial}
	if out.Results == nil {
		out.Results = []chart.Result{}
	}

	status := StatusOK
	switch {
	case res.Partial:
		status = StatusPartial
		s.metrics.TimeoutsTotal.Inc()
		slog.Warn("parse cut short by deadline",
			slog.String("lang", lang),
			slog.Int("text_len", len(text)),
			slog.Int("rounds", res.Rounds),
			slog.Duration("elapsed", elapsed),
		)
	case len(out.Results) == 0:
		status = StatusNoParse
	}
	s.metrics.ParsesTotal.WithLabelValues(lang, status).Inc()
	s.metrics.ParseDuration.WithLabelValues(lang).Observe(elapsed.Seconds())
	s.metrics.Candidates.Observe(float64(len(out.Results)))
	s.metrics.Rounds.Observe(float64(res.Rounds))
	s.metrics.ItemsPruned.Add(float64(res.Pruned))

	if !out.Partial {
		_ = s.cache.Set(ctx, key, out)
		s.metrics.CacheEntries.Set(float64(s.cache.Size()))
	}
	return out, nil
}

// Parse returns the best candidate for text.
func (s *Service) Parse(ctx context.Context, text string, ref time.Time, lang string) (chart.Result, error) {
	out, err := s.ParseAll(ctx, text, ref, lang)
	if err != nil {
		return chart.Result{}, err
	}
	if len(out.Results) == 0 {
		return chart.Result{}, ErrNoParse
	}
	return out.Results[0], nil
}

// ParseNaturalTime parses text in the default language and converts the
// best reading into a range in the reference's location.
func (s *Service) ParseNaturalTime(ctx context.Context, text string, reference time.Time) (TimeRange, error) {
	best, err := s.Parse(ctx, text, reference, "")
	if err != nil {
		return TimeRange{}, err
	}
	return RangeOf(best.Value, reference.Location())
}

// ParseBatch parses texts concurrently, at most limit at a time. Results are
// in input order.
func (s *Service) ParseBatch(ctx context.Context, texts []string, ref time.Time, lang string, limit int) ([]Outcome, error) {
	out := make([]Outcome, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			o, err := s.ParseAll(gctx, text, ref, lang)
			if err != nil {
				return errors.Wrapf(err, "text %d", i)
			}
			out[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.metrics.BatchSizeTotals.Add(float64(len(texts)))
	return out, nil
}

// Ensure Service implements TimeService
var _ TimeService = (*Service)(nil)
