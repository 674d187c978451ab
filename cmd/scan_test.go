package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamusis/plagiscan/internal/config"
	"github.com/kamusis/plagiscan/internal/detect"
	"github.com/kamusis/plagiscan/internal/report"
)

// isolateHome points the plagiscan home at a temp dir and clears PLAGISCAN_* overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PLAGISCAN_HOME", home)
	for _, k := range []string{config.EnvShingleLen, config.EnvNumPermutations, config.EnvSimilarityThreshold,
		config.EnvSeed, config.EnvWorkers, config.EnvEncoding} {
		t.Setenv(k, "")
	}
	return home
}

// captureOutput redirects the output helpers into buffers for the duration of the test.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return &out, &errOut
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runScanArgs(t *testing.T, args ...string) error {
	t.Helper()
	c := newScanCmd(&scanOptions{})
	c.SetArgs(args)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	return c.Execute()
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "100.0"},
		{0.455, "45.5"},
		{0.33333, "33.33"},
		{0, "0.0"},
		{0.12345, "12.35"},
	}
	for _, tt := range tests {
		if got := formatPercent(tt.in); got != tt.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveScanConfig_Precedence(t *testing.T) {
	home := isolateHome(t)
	yml := "detection:\n  shingle_len: 4\n  num_permutations: 50\n  similarity_threshold: 0.2\n"
	if err := os.WriteFile(filepath.Join(home, "plagiscan.yaml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvNumPermutations, "60")

	o := &scanOptions{}
	c := newScanCmd(o)
	if err := c.ParseFlags([]string{"--threshold", "0.5", "--seed", "9", "--workers", "2"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveScanConfig(c, o)
	if err != nil {
		t.Fatalf("resolveScanConfig: %v", err)
	}
	d := cfg.Detection
	if d.ShingleLen != 4 {
		t.Errorf("shingle_len from file: got %d", d.ShingleLen)
	}
	if d.NumPermutations != 60 {
		t.Errorf("permutations from env: got %d", d.NumPermutations)
	}
	if d.SimilarityThreshold != 0.5 || d.Seed != 9 || d.Workers != 2 {
		t.Errorf("flags not applied: %+v", d)
	}
}

func TestResolveScanConfig_RandomSeedAndWorkers(t *testing.T) {
	isolateHome(t)
	o := &scanOptions{}
	c := newScanCmd(o)
	cfg, err := resolveScanConfig(c, o)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Detection.Seed == 0 {
		t.Errorf("seed 0 should be replaced by a random seed")
	}
	if cfg.Detection.Workers < 1 {
		t.Errorf("workers should default to the CPU count, got %d", cfg.Detection.Workers)
	}
}

func TestResolveScanConfig_LineBreaksAsSpace(t *testing.T) {
	home := isolateHome(t)
	yml := "detection:\n  shingle_len: 3\n  num_permutations: 10\n  similarity_threshold: 0.3\n  line_breaks_as_space: true\n"
	if err := os.WriteFile(filepath.Join(home, "plagiscan.yaml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	o := &scanOptions{}
	c := newScanCmd(o)
	cfg, err := resolveScanConfig(c, o)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.DetectConfig().LineBreaksAsSpace {
		t.Fatalf("line_breaks_as_space from file not applied")
	}

	o = &scanOptions{}
	c = newScanCmd(o)
	if err := c.ParseFlags([]string{"--line-breaks-as-space=false"}); err != nil {
		t.Fatal(err)
	}
	if cfg, err = resolveScanConfig(c, o); err != nil {
		t.Fatal(err)
	}
	if cfg.DetectConfig().LineBreaksAsSpace {
		t.Fatalf("flag should override file")
	}
}

func TestScan_LineBreaksJoinWordsByDefault(t *testing.T) {
	isolateHome(t)
	out, _ := captureOutput(t)
	dir := writeCorpus(t, map[string]string{
		"a.txt": "the cat\nsat on the mat",
		"b.txt": "the cat sat on the mat",
	})

	if err := runScanArgs(t, dir, "--seed", "1", "--no-report", "--threshold", "1"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out.String(), "Summary: 0 files with plagiarism.") {
		t.Fatalf("newline should join words by default:\n%s", out.String())
	}

	out.Reset()
	if err := runScanArgs(t, dir, "--seed", "1", "--no-report", "--threshold", "1", "--line-breaks-as-space"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out.String(), "Summary: 1 files with plagiarism.") {
		t.Fatalf("newline as space should make the documents identical:\n%s", out.String())
	}
}

func TestScan_EndToEnd(t *testing.T) {
	isolateHome(t)
	out, _ := captureOutput(t)

	text := "it was the best of times it was the worst of times it was the age of wisdom"
	dir := writeCorpus(t, map[string]string{
		"a.txt":     text,
		"b.txt":     text,
		"c.txt":     "a completely unrelated sentence about apples oranges and pears in baskets",
		"short.txt": "too short",
		"notes.md":  text,
	})
	reportDir := filepath.Join(t.TempDir(), "report")

	if err := runScanArgs(t, dir, "--seed", "1", "--out", reportDir); err != nil {
		t.Fatalf("scan: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Files a.txt and b.txt are plagiarism on: ",
		"100.0 %",
		"Summary: 1 files with plagiarism.",
		"Time of execution:",
		"1 document(s) had fewer than 3 words",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Files a.txt") > strings.Index(got, "Summary:") {
		t.Errorf("pair line printed after summary:\n%s", got)
	}

	r, err := report.Load(reportDir)
	if err != nil {
		t.Fatalf("report.Load: %v", err)
	}
	if r.Manifest.Seed != 1 || len(r.Documents) != 4 || len(r.Pairs) != 1 {
		t.Fatalf("unexpected report: %+v docs=%d pairs=%d", r.Manifest, len(r.Documents), len(r.Pairs))
	}

	out.Reset()
	if err := runShow(nil, []string{reportDir}); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "a.txt") || !strings.Contains(out.String(), "Summary: 1 files with plagiarism.") {
		t.Errorf("show output:\n%s", out.String())
	}

	out.Reset()
	if err := runShow(nil, []string{reportDir, "a.txt", "c.txt"}); err != nil {
		t.Fatalf("show pair: %v", err)
	}
	if !strings.Contains(out.String(), "below threshold") {
		t.Errorf("show pair output:\n%s", out.String())
	}
	if err := runShow(nil, []string{reportDir, "a.txt", "missing.txt"}); err == nil {
		t.Errorf("expected error for unknown document")
	}
}

func TestScan_EmptyCorpus(t *testing.T) {
	isolateHome(t)
	captureOutput(t)
	dir := writeCorpus(t, map[string]string{"readme.md": "not a txt file"})
	err := runScanArgs(t, dir, "--seed", "1")
	if err == nil || !strings.Contains(err.Error(), "no documents found") {
		t.Fatalf("expected empty corpus error, got %v", err)
	}
}

func TestScan_ConfigErrorBeforeCorpus(t *testing.T) {
	isolateHome(t)
	captureOutput(t)
	err := runScanArgs(t, filepath.Join(t.TempDir(), "does-not-exist"), "--threshold", "1.5")
	var cerr *detect.ConfigurationError
	if !errors.As(err, &cerr) || cerr.Field != "similarity_threshold" {
		t.Fatalf("expected similarity_threshold ConfigurationError, got %v", err)
	}
}

func TestInit_CreatesAndSkips(t *testing.T) {
	home := isolateHome(t)
	out, _ := captureOutput(t)

	if err := runInit(nil, nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, name := range []string{"plagiscan.yaml", ".env"} {
		if _, err := os.Stat(filepath.Join(home, name)); err != nil {
			t.Fatalf("%s not created: %v", name, err)
		}
	}
	if _, err := config.Load(); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}

	out.Reset()
	if err := runInit(nil, nil); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out.String(), "config already exists") {
		t.Errorf("expected skip on second init:\n%s", out.String())
	}
}
