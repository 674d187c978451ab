package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys that override the detection section.
const (
	EnvShingleLen          = "PLAGISCAN_SHINGLE_LEN"
	EnvNumPermutations     = "PLAGISCAN_NUM_PERMUTATIONS"
	EnvSimilarityThreshold = "PLAGISCAN_SIMILARITY_THRESHOLD"
	EnvSeed                = "PLAGISCAN_SEED"
	EnvWorkers             = "PLAGISCAN_WORKERS"
	EnvEncoding            = "PLAGISCAN_ENCODING"
)

// DotEnvPath returns the absolute path to the dotenv file (~/.plagiscan/.env).
func DotEnvPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv reads ~/.plagiscan/.env and returns key/value pairs.
// A missing file yields an empty map.
func LoadDotEnv() (map[string]string, error) {
	p, err := DotEnvPath()
	if err != nil {
		return nil, err
	}
	m, err := godotenv.Read(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	return m, nil
}

// GetConfigValue returns the effective value for key, using process environment variables
// first and falling back to ~/.plagiscan/.env.
func GetConfigValue(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	dotenv, err := LoadDotEnv()
	if err != nil {
		return "", err
	}
	return dotenv[key], nil
}

// ApplyEnv overrides cfg with any PLAGISCAN_* values found in the environment or dotenv file.
func ApplyEnv(cfg *Config) error {
	env := func(key string) (string, error) {
		v, err := GetConfigValue(key)
		return strings.TrimSpace(v), err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{EnvShingleLen, &cfg.Detection.ShingleLen},
		{EnvNumPermutations, &cfg.Detection.NumPermutations},
		{EnvWorkers, &cfg.Detection.Workers},
	}
	for _, it := range ints {
		v, err := env(it.key)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", it.key, v, err)
		}
		*it.dst = n
	}

	v, err := env(EnvSimilarityThreshold)
	if err != nil {
		return err
	}
	if v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvSimilarityThreshold, v, err)
		}
		cfg.Detection.SimilarityThreshold = f
	}

	if v, err = env(EnvSeed); err != nil {
		return err
	}
	if v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvSeed, v, err)
		}
		cfg.Detection.Seed = s
	}

	if v, err = env(EnvEncoding); err != nil {
		return err
	}
	if v != "" {
		cfg.Corpus.Encoding = v
	}
	return nil
}

// EnsureDotEnvTemplate creates ~/.plagiscan/.env if it does not already exist.
//
// The template lists the override keys with empty values.
func EnsureDotEnvTemplate() error {
	p, err := DotEnvPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat dotenv file %s: %w", p, err)
	}

	var b strings.Builder
	for _, k := range []string{EnvShingleLen, EnvNumPermutations, EnvSimilarityThreshold, EnvSeed, EnvWorkers, EnvEncoding} {
		b.WriteString(k + "=\n")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("cannot write dotenv template %s: %w", p, err)
	}
	return nil
}
