package cmd

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/plagiscan/internal/config"
	"github.com/kamusis/plagiscan/internal/corpus"
	"github.com/kamusis/plagiscan/internal/detect"
	"github.com/kamusis/plagiscan/internal/report"
)

// scanOptions holds flag values for the `plagiscan scan` command.
type scanOptions struct {
	shingleLen     int
	permutations   int
	threshold      float64
	seed           uint64
	lowercase      bool
	foldDiacritics bool
	unicodePunct   bool
	lineBreakSpace bool
	workers        int
	ext            []string
	exclude        []string
	encoding       string
	recursive      bool
	out            string
	noReport       bool
}

var scanCmd = newScanCmd(&scanOptions{})

func init() {
	rootCmd.AddCommand(scanCmd)
}

func newScanCmd(o *scanOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "scan <corpus-dir>",
		Short: "Find near-duplicate document pairs in a directory",
		Long: `Scan every matching file in <corpus-dir>, print each pair whose estimated
similarity reaches the threshold, and finish with a summary.

Settings are resolved in order: built-in defaults, ~/.plagiscan/plagiscan.yaml,
PLAGISCAN_* variables (environment, then ~/.plagiscan/.env), then flags.
A seed of 0 picks a random seed, which is printed so the run can be repeated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, o)
		},
	}

	f := c.Flags()
	f.IntVarP(&o.shingleLen, "shingle-len", "k", detect.DefaultShingleLen, "Words per shingle")
	f.IntVarP(&o.permutations, "permutations", "p", detect.DefaultNumPermutations, "Number of MinHash permutations")
	f.Float64VarP(&o.threshold, "threshold", "t", detect.DefaultSimilarityThreshold, "Minimum estimated similarity to flag a pair, in [0, 1]")
	f.Uint64Var(&o.seed, "seed", 0, "Permutation seed (0 = random)")
	f.BoolVar(&o.lowercase, "lowercase", false, "Fold case before tokenizing")
	f.BoolVar(&o.foldDiacritics, "fold-diacritics", false, "Strip accents before tokenizing")
	f.BoolVar(&o.unicodePunct, "unicode-punct", false, "Remove Unicode punctuation, not only ASCII")
	f.BoolVar(&o.lineBreakSpace, "line-breaks-as-space", false, "Treat newlines as word separators instead of deleting them")
	f.IntVarP(&o.workers, "workers", "j", 0, "Parallel workers (0 = number of CPUs)")
	f.StringSliceVar(&o.ext, "ext", nil, "File extensions to read, e.g. --ext .txt,.md (empty = config)")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Glob patterns to skip")
	f.StringVar(&o.encoding, "encoding", "", "Corpus encoding: auto, detect, utf-8 or latin-1")
	f.BoolVarP(&o.recursive, "recursive", "r", false, "Descend into subdirectories")
	f.StringVarP(&o.out, "out", "o", "", "Write a report directory here (overrides report_dir)")
	f.BoolVar(&o.noReport, "no-report", false, "Do not write a report even if report_dir is configured")
	return c
}

// resolveScanConfig layers config file, environment and explicitly set flags.
func resolveScanConfig(cmd *cobra.Command, o *scanOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	d := &cfg.Detection
	if f.Changed("shingle-len") {
		d.ShingleLen = o.shingleLen
	}
	if f.Changed("permutations") {
		d.NumPermutations = o.permutations
	}
	if f.Changed("threshold") {
		d.SimilarityThreshold = o.threshold
	}
	if f.Changed("seed") {
		d.Seed = o.seed
	}
	if f.Changed("lowercase") {
		d.Lowercase = o.lowercase
	}
	if f.Changed("fold-diacritics") {
		d.FoldDiacritics = o.foldDiacritics
	}
	if f.Changed("unicode-punct") {
		d.UnicodePunctuation = o.unicodePunct
	}
	if f.Changed("line-breaks-as-space") {
		d.LineBreaksAsSpace = o.lineBreakSpace
	}
	if f.Changed("workers") {
		d.Workers = o.workers
	}
	if f.Changed("ext") {
		cfg.Corpus.Extensions = o.ext
	}
	if f.Changed("exclude") {
		cfg.Corpus.Excludes = o.exclude
	}
	if f.Changed("encoding") {
		cfg.Corpus.Encoding = o.encoding
	}
	if f.Changed("recursive") {
		cfg.Corpus.Recursive = o.recursive
	}
	switch {
	case o.noReport:
		cfg.ReportDir = ""
	case o.out != "":
		cfg.ReportDir = o.out
	}
	if cfg.ReportDir != "" {
		if cfg.ReportDir, err = config.ExpandPath(cfg.ReportDir); err != nil {
			return nil, err
		}
	}

	for d.Seed == 0 {
		d.Seed = rand.Uint64()
	}
	if d.Workers <= 0 {
		d.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, args []string, o *scanOptions) error {
	start := time.Now()
	dir := args[0]

	cfg, err := resolveScanConfig(cmd, o)
	if err != nil {
		return err
	}
	dcfg := cfg.DetectConfig()
	if err := dcfg.Validate(); err != nil {
		return err
	}

	docs, err := corpus.Discover(dir, cfg.CorpusOptions())
	if err != nil {
		return err
	}
	digests := make(map[string]string, len(docs))
	for _, d := range docs {
		digests[d.ID] = d.Digest
	}

	printSection("Scan")
	printInfo("", fmt.Sprintf("%d documents in %s", len(docs), dir))
	printInfo("", fmt.Sprintf("shingle_len=%d permutations=%d threshold=%s seed=%d",
		dcfg.ShingleLen, dcfg.NumPermutations, strconv.FormatFloat(dcfg.SimilarityThreshold, 'f', -1, 64), dcfg.Seed))
	fmt.Fprintln(stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sink := detect.SinkFunc(func(f detect.Flagged, _ int) error {
		fmt.Fprintf(stdout, "Files %s and %s are plagiarism on: %s\n",
			f.DocA, f.DocB, hitStyle.Render(formatPercent(f.Similarity)+" %"))
		return nil
	})
	res, err := detect.Run(ctx, corpus.Texts(docs), dcfg,
		detect.WithLogger(newLogger()), detect.WithSink(sink))
	if errors.Is(err, detect.ErrEmptyCorpus) {
		return fmt.Errorf("no documents found under %s (extensions: %s)", dir, strings.Join(cfg.Corpus.Extensions, ","))
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Summary: %d files with plagiarism.\n", len(res.Flagged))
	if n := len(res.Warnings); n > 0 {
		printWarn("", fmt.Sprintf("%d document(s) had fewer than %d words and were compared as empty", n, dcfg.ShingleLen))
	}

	elapsed := time.Since(start)
	if cfg.ReportDir != "" {
		dest, err := filepath.Abs(cfg.ReportDir)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		c := report.FromResult(res, dcfg, abs, digests, elapsed)
		if err := c.Install(dest); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("report written: %s", dest))
	}
	fmt.Fprintln(stdout, dimStyle.Render(fmt.Sprintf("Time of execution: %s sec", strconv.FormatFloat(elapsed.Seconds(), 'f', 3, 64))))
	return nil
}

// formatPercent renders s as a percentage rounded to two decimals, keeping at
// least one fractional digit ("100.0", "45.5", "33.33").
func formatPercent(s float64) string {
	p := strconv.FormatFloat(math.Round(s*10000)/100, 'f', -1, 64)
	if !strings.Contains(p, ".") {
		p += ".0"
	}
	return p
}
