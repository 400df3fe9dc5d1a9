package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/ctparse/plugin/ctparse/corpus"
	"github.com/hrygo/ctparse/plugin/ctparse/scorer"
)

func (a *app) trainCmd() *cobra.Command {
	var (
		out         string
		alpha       float64
		concurrency int
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the naive Bayes scorer on the corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.loadEntries(cmd.Context())
			if err != nil {
				return err
			}
			// Candidates are generated with the configured scorer, so a
			// model can be refined by training again with it loaded.
			s, err := a.loadScorer()
			if err != nil {
				return err
			}
			svc, err := a.newService(s, nil)
			if err != nil {
				return err
			}

			X, y, err := corpus.Dataset(cmd.Context(), svc, entries, concurrency)
			if err != nil {
				return errors.Wrap(err, "build dataset")
			}
			model, err := scorer.Train(X, y, alpha)
			if err != nil {
				return errors.Wrap(err, "train")
			}
			if err := scorer.SaveFile(out, model); err != nil {
				return err
			}

			slog.Info("model trained",
				slog.Int("entries", len(entries)),
				slog.Int("samples", len(X)),
				slog.Int("features", len(model.LogProb)),
			)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Wrote %s (%d samples, %d features)\n", out, len(X), len(model.LogProb))
			if verbose {
				// Positive log-odds favour a correct parse.
				for _, f := range model.Vocabulary() {
					lp := model.LogProb[f]
					fmt.Fprintf(w, "  %+.3f  %s\n", lp[1]-lp[0], f)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "model.gz", "output model file")
	cmd.Flags().Float64Var(&alpha, "alpha", scorer.DefaultAlpha, "Laplace smoothing")
	cmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "parallel parses")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list the learned features")
	return cmd
}

func (a *app) evalCmd() *cobra.Command {
	var (
		concurrency int
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure top-1 accuracy on the corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.loadEntries(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.loadScorer()
			if err != nil {
				return err
			}
			svc, err := a.newService(s, nil)
			if err != nil {
				return err
			}

			rep, err := corpus.Evaluate(cmd.Context(), svc, entries, concurrency)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "accuracy %.3f (%d/%d), no parse %d, expected among candidates %d\n",
				rep.Accuracy(), rep.Correct, rep.Total, rep.NoParse, rep.Covered)
			if verbose {
				for _, m := range rep.Misses {
					fmt.Fprintf(w, "  %q: want %s, got %s\n", m.Entry.Text, m.Entry.Expected, m.Got)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "parallel parses")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list misses")
	return cmd
}
