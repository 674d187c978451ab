package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kamusis/plagiscan/internal/detect"
)

func sampleContents(t *testing.T) Contents {
	t.Helper()
	corpus := map[string]string{
		"a.txt": "the quick brown fox jumps over the lazy dog",
		"b.txt": "the quick brown fox jumps over the lazy dog",
		"c.txt": "completely different words appear in this one",
	}
	cfg := detect.DefaultConfig()
	cfg.Seed = 7
	res, err := detect.Run(context.Background(), corpus, cfg, detect.WithRunID("run-1"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return FromResult(res, cfg, "/corpus", map[string]string{"a.txt": "da"}, 1500*time.Millisecond)
}

func TestInstallLoad_RoundTrip(t *testing.T) {
	c := sampleContents(t)
	dest := filepath.Join(t.TempDir(), "out")
	if err := c.Install(dest); err != nil {
		t.Fatalf("Install: %v", err)
	}

	r, err := Load(dest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := r.Manifest
	if m.ReportVersion != Version || m.RunID != "run-1" || m.Seed != 7 || m.DurationMS != 1500 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Flagged != 1 || len(r.Pairs) != 1 {
		t.Fatalf("expected one flagged pair, got %d / %+v", m.Flagged, r.Pairs)
	}
	if p := r.Pairs[0]; p.DocA != "a.txt" || p.DocB != "b.txt" || p.Similarity != 1 {
		t.Fatalf("unexpected pair: %+v", p)
	}
	if len(r.Documents) != 3 || r.Documents[0].Digest != "da" || r.IndexOf("c.txt") != 2 {
		t.Fatalf("unexpected documents: %+v", r.Documents)
	}
	if p, ok := r.Pair("b.txt", "a.txt"); !ok || p.Similarity != 1 {
		t.Fatalf("Pair lookup in reverse order: %+v, %v", p, ok)
	}
	if _, ok := r.Pair("a.txt", "c.txt"); ok {
		t.Fatalf("unflagged pair found")
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected manifest and two listings, got %d files", len(entries))
	}
}

func TestInstall_ReplacesPrevious(t *testing.T) {
	c := sampleContents(t)
	dest := filepath.Join(t.TempDir(), "out")
	if err := c.Install(dest); err != nil {
		t.Fatal(err)
	}
	c.Manifest.RunID = "run-2"
	c.Pairs = nil
	if err := c.Install(dest); err != nil {
		t.Fatal(err)
	}
	r, err := Load(dest)
	if err != nil {
		t.Fatal(err)
	}
	if r.Manifest.RunID != "run-2" || len(r.Pairs) != 0 {
		t.Fatalf("report not replaced: %+v", r.Manifest)
	}
	if _, err := os.Stat(dest + ".bak"); !os.IsNotExist(err) {
		t.Fatalf("backup left behind: %v", err)
	}
}

func TestLoad_RejectsOtherVersion(t *testing.T) {
	c := sampleContents(t)
	dir := t.TempDir()
	if err := Write(dir, c.Manifest, c.Documents, c.Pairs); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, manifestFile)
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	b = []byte(strings.Replace(string(b), `"report_version": 1`, `"report_version": 99`, 1))
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestWrite_NoDocuments(t *testing.T) {
	if err := Write(t.TempDir(), Manifest{}, nil, nil); err == nil {
		t.Fatalf("expected error for empty document list")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
