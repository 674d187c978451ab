package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kamusis/plagiscan/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "plagiscan",
	Short:        "plagiscan finds near-duplicate documents in a folder of text files",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `plagiscan compares every pair of documents in a corpus directory using
word shingles and MinHash signatures, and reports the pairs whose estimated
Jaccard similarity reaches the configured threshold.

Defaults live in ~/.plagiscan/plagiscan.yaml (see 'plagiscan init') and can be
overridden with PLAGISCAN_* variables or command flags.`,
}

var flagDebug bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log pipeline stages to stderr")
}

// Execute is called by main.go.
func Execute() {
	enableVirtualTerminal()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns the stderr logger for a command: stage events with --debug,
// warnings only otherwise.
func newLogger() *log.Logger {
	return logger.New(logger.Params{Debug: flagDebug, Quiet: !flagDebug, Output: stderr})
}
