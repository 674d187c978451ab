package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kamusis/plagiscan/internal/detect"
)

func TestLoadOrDefault_MissingFile(t *testing.T) {
	isolate(t)
	cfg, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("Load should fail without a config file")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.Detection.ShingleLen = 4
	cfg.Detection.Lowercase = true
	cfg.Corpus.Recursive = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	home := isolate(t)
	body := "detection:\n  shingle_len: 2\n"
	if err := os.WriteFile(filepath.Join(home, "plagiscan.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detection.ShingleLen != 2 {
		t.Fatalf("shingle_len not read: %d", cfg.Detection.ShingleLen)
	}
	if cfg.Detection.NumPermutations != detect.DefaultNumPermutations {
		t.Fatalf("default permutations lost: %d", cfg.Detection.NumPermutations)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := isolate(t)
	if err := os.WriteFile(filepath.Join(home, "plagiscan.yaml"), []byte("detection: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(); err == nil {
		t.Fatalf("expected YAML error")
	}
}

func TestDetectConfig_InvalidSurfacesAsConfigurationError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detection.SimilarityThreshold = 2
	var cerr *detect.ConfigurationError
	if err := cfg.DetectConfig().Validate(); !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}
