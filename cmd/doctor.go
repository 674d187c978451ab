package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/plagiscan/internal/config"
	"github.com/kamusis/plagiscan/internal/report"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, overrides and the report directory",
	Long: `Check that plagiscan's config file, PLAGISCAN_* overrides and report directory
are usable. Run this command when a scan refuses to start or a report looks stale.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var doctorFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Remove leftovers of interrupted report writes",
	Long: `Remove temporary and backup directories left next to report_dir when a scan
was interrupted while installing its report.

Run 'plagiscan doctor' first to see what will be removed.`,
	Args: cobra.NoArgs,
	RunE: runDoctorFix,
}

func init() {
	doctorCmd.AddCommand(doctorFixCmd)
	rootCmd.AddCommand(doctorCmd)
}

func runDoctorFix(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	printSection("plagiscan doctor fix")
	if cfg.ReportDir == "" {
		printSkip("", "report_dir is not configured — nothing to fix")
		return nil
	}

	stale, err := findStaleReports(cfg.ReportDir)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		printOK("", "no leftovers found — nothing to fix")
		return nil
	}
	var failed int
	for _, p := range stale {
		if err := removeStale(p); err != nil {
			printErr("", fmt.Sprintf("cannot remove %s: %v", p, err))
			failed++
		} else {
			printOK("", fmt.Sprintf("removed %s", p))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d leftover(s) could not be removed", failed)
	}
	return nil
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("plagiscan doctor")

	// ── Check 1: config file ────────────────────────────────────────────────
	fmt.Fprintln(stdout, "\n[ plagiscan.yaml ]")
	cfgPath, err := config.ConfigPath()
	if err != nil {
		failD("cannot determine config path: %v", err)
	}
	cfg, loadErr := config.LoadOrDefault()
	switch {
	case loadErr != nil:
		failD("cannot parse %s: %v", cfgPath, loadErr)
		cfg = config.DefaultConfig()
	case fileExists(cfgPath):
		printOK("", fmt.Sprintf("valid YAML: %s", cfgPath))
	default:
		printWarn("", fmt.Sprintf("%s not found — built-in defaults apply (run 'plagiscan init')", cfgPath))
	}

	// ── Check 2: environment and .env overrides ─────────────────────────────
	fmt.Fprintln(stdout, "\n[ overrides ]")
	if err := config.ApplyEnv(cfg); err != nil {
		failD("%v", err)
	} else {
		printOK("", "PLAGISCAN_* values parse")
	}

	// ── Check 3: effective detection settings ───────────────────────────────
	fmt.Fprintln(stdout, "\n[ detection ]")
	d := cfg.Detection
	if err := cfg.DetectConfig().Validate(); err != nil {
		failD("%v", err)
	} else {
		printOK("", fmt.Sprintf("shingle_len=%d permutations=%d threshold=%v", d.ShingleLen, d.NumPermutations, d.SimilarityThreshold))
	}
	if d.Seed == 0 {
		printInfo("", "seed=0: each scan draws a random seed")
	}
	if d.Workers > runtime.NumCPU() {
		printWarn("", fmt.Sprintf("workers=%d exceeds the %d available CPUs", d.Workers, runtime.NumCPU()))
	}

	// ── Check 4: report directory ───────────────────────────────────────────
	fmt.Fprintln(stdout, "\n[ report_dir ]")
	if cfg.ReportDir == "" {
		printSkip("", "not configured; scans only print to the console")
	} else {
		if fileExists(cfg.ReportDir) {
			if r, err := report.Load(cfg.ReportDir); err != nil {
				failD("existing report is unreadable: %v", err)
			} else {
				printOK("", fmt.Sprintf("last run %s: %d documents, %d flagged", r.Manifest.RunID, len(r.Documents), len(r.Pairs)))
			}
		} else {
			printInfo("", fmt.Sprintf("%s will be created by the next scan", cfg.ReportDir))
		}
		if stale, err := findStaleReports(cfg.ReportDir); err != nil {
			failD("%v", err)
		} else if len(stale) > 0 {
			for _, p := range stale {
				printWarn("", p)
			}
			fmt.Fprintf(stdout, "\n  ⚠  %d leftover(s) of interrupted scans; run 'plagiscan doctor fix'.\n", len(stale))
			allOK = false
		}
	}

	fmt.Fprintln(stdout, "\n===================")
	if allOK {
		fmt.Fprintln(stdout, "✓  All checks passed.")
		return nil
	}
	fmt.Fprintln(stderr, "✗  One or more checks failed. See details above.")
	return fmt.Errorf("doctor found issues")
}

// findStaleReports lists the backup and temporary directories report.Install
// leaves next to reportDir when it is interrupted. A missing parent directory
// means there is nothing to list.
func findStaleReports(reportDir string) ([]string, error) {
	reportDir = filepath.Clean(reportDir)
	var found []string
	if fileExists(reportDir + ".bak") {
		found = append(found, reportDir+".bak")
	}
	parent := filepath.Dir(reportDir)
	entries, err := os.ReadDir(parent)
	if errors.Is(err, fs.ErrNotExist) {
		return found, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", parent, err)
	}
	prefix := "." + filepath.Base(reportDir) + "-"
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			found = append(found, filepath.Join(parent, e.Name()))
		}
	}
	return found, nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
