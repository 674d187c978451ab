package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kamusis/plagiscan/internal/corpus"
	"github.com/kamusis/plagiscan/internal/detect"
)

// Corpus selects and decodes the files of a scanned directory.
type Corpus struct {
	Extensions []string `yaml:"extensions,omitempty"`
	Excludes   []string `yaml:"excludes,omitempty"`
	Encoding   string   `yaml:"encoding,omitempty"`
	Recursive  bool     `yaml:"recursive,omitempty"`
}

// Detection mirrors detect.Config in YAML form.
type Detection struct {
	ShingleLen          int     `yaml:"shingle_len"`
	NumPermutations     int     `yaml:"num_permutations"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	Seed                uint64  `yaml:"seed,omitempty"`
	Lowercase           bool    `yaml:"lowercase,omitempty"`
	FoldDiacritics      bool    `yaml:"fold_diacritics,omitempty"`
	UnicodePunctuation  bool    `yaml:"unicode_punctuation,omitempty"`
	LineBreaksAsSpace   bool    `yaml:"line_breaks_as_space,omitempty"`
	Workers             int     `yaml:"workers,omitempty"`
}

// Config is the in-memory representation of ~/.plagiscan/plagiscan.yaml.
type Config struct {
	Corpus    Corpus    `yaml:"corpus"`
	Detection Detection `yaml:"detection"`
	// ReportDir is where scan writes its report when --out is not given. Empty disables it.
	ReportDir string `yaml:"report_dir,omitempty"`
}

// HomeDir returns the absolute path to ~/.plagiscan/, or $PLAGISCAN_HOME when set.
func HomeDir() (string, error) {
	if v := os.Getenv("PLAGISCAN_HOME"); v != "" {
		return ExpandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".plagiscan"), nil
}

// ConfigPath returns the absolute path to the config file.
func ConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plagiscan.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the Config written on first plagiscan init.
func DefaultConfig() *Config {
	d := detect.DefaultConfig()
	return &Config{
		Corpus: Corpus{
			Extensions: []string{".txt"},
			Excludes: []string{
				".DS_Store",
				"Thumbs.db",
				"*.tmp",
				"*.bak",
				"*~",
			},
			Encoding: corpus.EncodingAuto,
		},
		Detection: Detection{
			ShingleLen:          d.ShingleLen,
			NumPermutations:     d.NumPermutations,
			SimilarityThreshold: d.SimilarityThreshold,
		},
	}
}

// Load reads and parses the config file.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.ReportDir, err = ExpandPath(cfg.ReportDir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing config file yields DefaultConfig.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save marshals cfg and writes it to the config file, creating its directory.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// CorpusOptions converts the corpus section for corpus.Discover.
func (c *Config) CorpusOptions() corpus.Options {
	return corpus.Options{
		Extensions: c.Corpus.Extensions,
		Excludes:   c.Corpus.Excludes,
		Encoding:   c.Corpus.Encoding,
		Recursive:  c.Corpus.Recursive,
	}
}

// DetectConfig converts the detection section for detect.Run.
func (c *Config) DetectConfig() detect.Config {
	d := c.Detection
	return detect.Config{
		ShingleLen:          d.ShingleLen,
		NumPermutations:     d.NumPermutations,
		SimilarityThreshold: d.SimilarityThreshold,
		Seed:                d.Seed,
		Lowercase:           d.Lowercase,
		FoldDiacritics:      d.FoldDiacritics,
		UnicodePunctuation:  d.UnicodePunctuation,
		LineBreaksAsSpace:   d.LineBreaksAsSpace,
		Workers:             d.Workers,
	}
}
