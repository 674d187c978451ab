package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/plagiscan/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <report-dir> [doc-a doc-b]",
	Short: "Print a saved scan report",
	Long: `Print the settings and flagged pairs of a report written by 'plagiscan scan --out'.

With two document ids, print only that pair's recorded similarity, or note
that it stayed below the threshold.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected <report-dir> or <report-dir> <doc-a> <doc-b>, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	r, err := report.Load(args[0])
	if err != nil {
		return err
	}
	if len(args) == 3 {
		return showPair(r, args[1], args[2])
	}

	m := r.Manifest
	printSection("Report")
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Run\t%s\n", m.RunID)
	fmt.Fprintf(w, "  Created\t%s\n", m.CreatedAt)
	fmt.Fprintf(w, "  Corpus\t%s\n", m.Corpus)
	fmt.Fprintf(w, "  Documents\t%d\n", len(r.Documents))
	fmt.Fprintf(w, "  Shingles\t%d\n", m.VocabularySize)
	fmt.Fprintf(w, "  Shingle length\t%d\n", m.ShingleLen)
	fmt.Fprintf(w, "  Permutations\t%d\n", m.NumPermutations)
	fmt.Fprintf(w, "  Seed\t%d\n", m.Seed)
	fmt.Fprintf(w, "  Threshold\t%s\n", strconv.FormatFloat(m.Threshold, 'f', -1, 64))
	fmt.Fprintf(w, "  Pairs compared\t%d\n", m.PairsCompared)
	if err := w.Flush(); err != nil {
		return err
	}

	printSection("Flagged pairs")
	if len(r.Pairs) == 0 {
		printSkip("", "no pairs reached the threshold")
		return nil
	}
	w = tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  SIMILARITY\tDOCUMENT A\tDOCUMENT B")
	for _, p := range r.Pairs {
		fmt.Fprintf(w, "  %s %%\t%s\t%s\n", formatPercent(p.Similarity), p.DocA, p.DocB)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nSummary: %d files with plagiarism.\n", len(r.Pairs))
	return nil
}

func showPair(r *report.Report, a, b string) error {
	for _, id := range []string{a, b} {
		if r.IndexOf(id) < 0 {
			return fmt.Errorf("document %q is not in the report", id)
		}
	}
	if p, ok := r.Pair(a, b); ok {
		printInfo("", fmt.Sprintf("%s / %s: %s %% (flagged)", p.DocA, p.DocB, formatPercent(p.Similarity)))
		return nil
	}
	printInfo("", fmt.Sprintf("%s / %s: below threshold %s", a, b, strconv.FormatFloat(r.Manifest.Threshold, 'f', -1, 64)))
	return nil
}
