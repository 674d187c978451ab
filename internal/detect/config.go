package detect

import (
	"fmt"
	"math"

	"github.com/kamusis/plagiscan/internal/shingle"
)

// Defaults used by the CLI and by DefaultConfig.
const (
	DefaultShingleLen          = 3
	DefaultNumPermutations     = 200
	DefaultSimilarityThreshold = 0.33
)

// Config holds the recognized detection options.
type Config struct {
	ShingleLen          int
	NumPermutations     int
	SimilarityThreshold float64

	// Seed fixes the permutation family. Runs with equal seeds over the same corpus
	// produce identical signatures and flagged pairs.
	Seed uint64

	Lowercase          bool
	FoldDiacritics     bool
	UnicodePunctuation bool
	LineBreaksAsSpace  bool

	// Workers bounds the goroutines used by each stage; <= 0 means one.
	Workers int
}

// DefaultConfig returns the settings of the reference run: 3-token shingles,
// 200 permutations and a 0.33 threshold.
func DefaultConfig() Config {
	return Config{
		ShingleLen:          DefaultShingleLen,
		NumPermutations:     DefaultNumPermutations,
		SimilarityThreshold: DefaultSimilarityThreshold,
		Workers:             1,
	}
}

// Validate returns a *ConfigurationError for the first invalid field.
func (c Config) Validate() error {
	if c.ShingleLen <= 0 {
		return &ConfigurationError{Field: "shingle_len", Reason: fmt.Sprintf("must be positive, got %d", c.ShingleLen)}
	}
	if c.NumPermutations <= 0 {
		return &ConfigurationError{Field: "num_permutations", Reason: fmt.Sprintf("must be positive, got %d", c.NumPermutations)}
	}
	t := c.SimilarityThreshold
	if math.IsNaN(t) || t < 0 || t > 1 {
		return &ConfigurationError{Field: "similarity_threshold", Reason: fmt.Sprintf("must be within [0, 1], got %v", t)}
	}
	return nil
}

func (c Config) shingleOptions() shingle.Options {
	return shingle.Options{
		Length:             c.ShingleLen,
		Lowercase:          c.Lowercase,
		FoldDiacritics:     c.FoldDiacritics,
		UnicodePunctuation: c.UnicodePunctuation,
		LineBreaksAsSpace:  c.LineBreaksAsSpace,
	}
}
