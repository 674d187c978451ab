package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// Icon semantics:
//   ✓  success
//   ✗  error / failure          (written to stderr)
//   ⚠  warning
//   ~  neutral info
//   ○  skipped

// stdout and stderr are swapped out by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true)
	hitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// printSection prints a top-level section header, e.g. "=== Scan ===".
func printSection(title string) {
	fmt.Fprintf(stdout, "\n%s\n", sectionStyle.Render("=== "+title+" ==="))
}

// printOK prints a success line.
//   name = "" → "  ✓  msg"
//   name set  → "  ✓  [name] msg"
func printOK(name, msg string) { printLine(stdout, "✓", name, msg) }

// printErr prints an error line to stderr.
func printErr(name, msg string) { printLine(stderr, "✗", name, msg) }

// printWarn prints a warning line.
func printWarn(name, msg string) { printLine(stdout, "⚠", name, msg) }

// printInfo prints a neutral informational line.
func printInfo(name, msg string) { printLine(stdout, "~", name, msg) }

// printSkip prints a skipped / not-applicable line.
func printSkip(name, msg string) { printLine(stdout, "○", name, msg) }

func printLine(w io.Writer, icon, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  %s  %s\n", icon, msg)
	} else {
		fmt.Fprintf(w, "  %s  [%s] %s\n", icon, name, msg)
	}
}
