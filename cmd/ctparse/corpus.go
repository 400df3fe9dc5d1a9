package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/ctparse/plugin/ctparse/corpus"
	"github.com/hrygo/ctparse/store"
)

func (a *app) corpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the labelled corpus",
	}
	cmd.AddCommand(a.corpusAddCmd(), a.corpusListCmd(), a.corpusImportCmd(), a.corpusDeleteCmd())
	return cmd
}

func (a *app) corpusAddCmd() *cobra.Command {
	var (
		ref      string
		expected string
		lang     string
	)

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a labelled entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := parseRef(ref, "")
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := s.CreateCorpusEntry(cmd.Context(), &store.CorpusEntry{
				Text:      strings.Join(args, " "),
				Reference: reference,
				Expected:  expected,
				Lang:      lang,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry: %s\n", entry.UID)
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "reference time, RFC 3339 (default now)")
	cmd.Flags().StringVar(&expected, "expected", "", `expected reading, e.g. "2022-03-11 17:00 (X/X)"`)
	cmd.Flags().StringVar(&lang, "entry-lang", "", "language of the entry (default: service language)")
	_ = cmd.MarkFlagRequired("expected")
	return cmd
}

func (a *app) corpusListCmd() *cobra.Command {
	var (
		lang  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List corpus entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			find := &store.FindCorpusEntry{Limit: limit}
			if lang != "" {
				find.Lang = &lang
			}
			list, err := s.ListCorpusEntries(cmd.Context(), find)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range list {
				fmt.Fprintf(tw, "%s\t%q\t%s\t%s\t%s\n", e.UID, e.Text, e.Reference.Format(time.RFC3339), e.Expected, e.Lang)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&lang, "entry-lang", "", "only entries of this language")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries")
	return cmd
}

func (a *app) corpusImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.jsonl]",
		Short: "Import entries from a JSON lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()

			entries, err := corpus.ReadJSONL(f)
			if err != nil {
				return errors.Wrapf(err, "read %s", args[0])
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			for i, e := range entries {
				if _, err := s.CreateCorpusEntry(cmd.Context(), &store.CorpusEntry{
					Text:      e.Text,
					Reference: e.Reference,
					Expected:  e.Expected,
					Lang:      e.Lang,
				}); err != nil {
					return errors.Wrapf(err, "entry %d", i+1)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", len(entries))
			return nil
		},
	}
}

func (a *app) corpusDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [uid]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return s.DeleteCorpusEntry(cmd.Context(), &store.DeleteCorpusEntry{UID: &args[0]})
		},
	}
}

// loadEntries reads the whole corpus as parser input.
func (a *app) loadEntries(ctx context.Context) ([]corpus.Entry, error) {
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	list, err := s.ListCorpusEntries(ctx, &store.FindCorpusEntry{})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New("corpus is empty")
	}
	return toCorpusEntries(list), nil
}

func toCorpusEntries(list []*store.CorpusEntry) []corpus.Entry {
	entries := make([]corpus.Entry, 0, len(list))
	for _, e := range list {
		entries = append(entries, corpus.Entry{
			Text:      e.Text,
			Reference: e.Reference,
			Expected:  e.Expected,
			Lang:      e.Lang,
		})
	}
	return entries
}
