package main

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/ctparse/plugin/ctparse"
	"github.com/hrygo/ctparse/server/timezone"
)

// parseRef reads an RFC 3339 reference, defaulting to now, optionally
// moved into the IANA zone tz.
func parseRef(ref, tz string) (time.Time, error) {
	t, err := timezone.Reference(ref, tz, time.Now())
	if err != nil {
		return time.Time{}, errors.Wrap(err, "invalid reference")
	}
	return t, nil
}

func (a *app) parseCmd() *cobra.Command {
	var (
		ref string
		tz  string
		all   bool
		stdin bool
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Parse a time expression",
		Args: func(cmd *cobra.Command, args []string) error {
			if stdin {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			reference, err := parseRef(ref, tz)
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

			if stdin {
				return parseLines(cmd, svc, reference, a.profile.Lang, jobs)
			}

			out, err := svc.ParseAll(cmd.Context(), text, reference, a.profile.Lang)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Results) == 0 {
				fmt.Fprintln(w, "no parse")
				return nil
			}
			results := out.Results
			if !all {
				results = results[:1]
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, r := range results {
				span := fmt.Sprintf("%q", r.Text)
				rng := ""
				if tr, err := ctparse.RangeOf(r.Value, reference.Location()); err == nil {
					rng = formatRange(tr)
				}
				fmt.Fprintf(tw, "%s\t%.3f\t%s\t%s\t%s\n", r.Value, r.Score, span, rng, strings.Join(r.Rules, " "))
			}
			if out.Partial {
				fmt.Fprintln(tw, "(partial: deadline reached)")
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "reference time, RFC 3339 (default now)")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone of the reference")
	cmd.Flags().BoolVar(&all, "all", false, "print every ranked candidate")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "parse each line of standard input")
	cmd.Flags().IntVar(&jobs, "concurrency", runtime.NumCPU(), "parallel parses with --stdin")
	return cmd
}

// parseLines prints the best reading of every non-blank input line, one
// tab-separated row per line in input order.
func parseLines(cmd *cobra.Command, svc *ctparse.Service, reference time.Time, lang string, jobs int) error {
	texts, err := readLines(cmd.InOrStdin())
	if err != nil {
		return err
	}
	outs, err := svc.ParseBatch(cmd.Context(), texts, reference, lang, jobs)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, out := range outs {
		if len(out.Results) == 0 {
			fmt.Fprintf(tw, "%q\tno parse\n", texts[i])
			continue
		}
		best := out.Results[0]
		fmt.Fprintf(tw, "%q\t%s\t%.3f\t%q\n", texts[i], best.Value, best.Score, best.Text)
	}
	return tw.Flush()
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return lines, nil
}

func formatRange(tr ctparse.TimeRange) string {
	const layout = "2006-01-02 15:04"
	start, end := "..", ".."
	if !tr.OpenStart() {
		start = tr.Start.Format(layout)
	}
	if !tr.OpenEnd() {
		end = tr.End.Format(layout)
	}
	return "[" + start + ", " + end + ")"
}
