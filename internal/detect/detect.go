// Package detect runs the near-duplicate detection pipeline:
// extract → sign → estimate → report.
//
// A run is a single batch. Configuration and corpus shape are checked before any
// work starts, every stage must finish before the next begins, and nothing is
// handed to the Sink unless all estimates were computed.
package detect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kamusis/plagiscan/internal/logger"
	"github.com/kamusis/plagiscan/internal/minhash"
	"github.com/kamusis/plagiscan/internal/shingle"
)

// Timings records the wall time of each stage.
type Timings struct {
	Extract  time.Duration
	Sign     time.Duration
	Estimate time.Duration
	Report   time.Duration
}

// Result is the outcome of a successful run.
type Result struct {
	RunID string
	Seed  uint64

	// Documents lists document ids in processing order; Flagged.I/J index into it.
	Documents      []string
	VocabularySize int
	PairsCompared  int
	Flagged        []Flagged
	Warnings       []DegenerateDocumentWarning

	// Signatures is the completed signature matrix, one row per document.
	Signatures *minhash.Matrix
	Timings    Timings
}

// Option customizes a run.
type Option func(*runner)

// WithLogger sets the logger used for stage events. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(r *runner) { r.log = l }
}

// WithSink sets the collaborator receiving each flagged pair.
func WithSink(s Sink) Option {
	return func(r *runner) { r.sink = s }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *runner) { r.runID = id }
}

type runner struct {
	log   *log.Logger
	sink  Sink
	runID string
}

// Run detects near-duplicate pairs in corpus (document id → text).
//
// Documents are processed in lexicographic id order. Returns a *ConfigurationError
// for invalid settings and ErrEmptyCorpus for an empty corpus, both before any
// processing. A cancelled ctx aborts the run before the report stage.
func Run(ctx context.Context, corpus map[string]string, cfg Config, opts ...Option) (*Result, error) {
	r := &runner{}
	for _, o := range opts {
		o(r)
	}
	if r.log == nil {
		r.log = logger.Discard()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if r.runID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("cannot generate run id: %w", err)
		}
		r.runID = id
	}
	lg := r.log.With("run", r.runID)

	ids := make([]string, 0, len(corpus))
	for id := range corpus {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	inputs := make([]shingle.Input, len(ids))
	for i, id := range ids {
		inputs[i] = shingle.Input{ID: id, Text: corpus[id]}
	}

	res := &Result{RunID: r.runID, Seed: cfg.Seed, Documents: ids}
	lg.Info("run started", "docs", len(ids), "shingle_len", cfg.ShingleLen,
		"permutations", cfg.NumPermutations, "threshold", cfg.SimilarityThreshold, "seed", cfg.Seed)

	// Extract
	t0 := time.Now()
	ext := shingle.NewExtractor(shingle.NewVocabulary(), cfg.shingleOptions(), cfg.Workers)
	docs, err := ext.ExtractAll(ctx, inputs)
	if err != nil {
		return nil, stageError("extract", err)
	}
	sets := make([]shingle.Set, len(docs))
	for i, d := range docs {
		sets[i] = d.Shingles
		if len(d.Tokens) < cfg.ShingleLen {
			w := DegenerateDocumentWarning{Document: d.ID, Tokens: len(d.Tokens), ShingleLen: cfg.ShingleLen}
			res.Warnings = append(res.Warnings, w)
			lg.Warn("degenerate document", "doc", d.ID, "tokens", w.Tokens, "shingle_len", w.ShingleLen)
		}
	}
	res.VocabularySize = ext.Vocabulary().Size()
	res.Timings.Extract = time.Since(t0)
	lg.Info("extract finished", "shingles", res.VocabularySize, "dur", res.Timings.Extract)

	// Sign
	t0 = time.Now()
	gen := minhash.NewGenerator(minhash.NewFamily(cfg.NumPermutations, cfg.Seed), cfg.Workers)
	matrix, err := gen.Sign(ctx, sets, res.VocabularySize)
	if err != nil {
		return nil, stageError("sign", err)
	}
	res.Timings.Sign = time.Since(t0)
	lg.Info("signatures built", "permutations", gen.Permutations(), "rows", matrix.Rows(), "cols", matrix.Cols(), "dur", res.Timings.Sign)

	// Estimate
	t0 = time.Now()
	pairs, err := minhash.EstimateAll(ctx, matrix, cfg.Workers)
	if err != nil {
		return nil, stageError("estimate", err)
	}
	res.PairsCompared = len(pairs)
	res.Timings.Estimate = time.Since(t0)
	lg.Info("estimates finished", "pairs", res.PairsCompared, "dur", res.Timings.Estimate)

	if err := ctx.Err(); err != nil {
		return nil, stageError("report", err)
	}

	// Report
	t0 = time.Now()
	flagged, err := Report(pairs, ids, cfg.SimilarityThreshold, r.sink)
	if err != nil {
		return nil, stageError("report", err)
	}
	res.Flagged = flagged
	res.Signatures = matrix
	res.Timings.Report = time.Since(t0)
	lg.Info("run finished", "flagged", len(flagged), "dur", res.Timings.Report)
	return res, nil
}

func stageError(stage string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("run aborted during %s: %w", stage, err)
	}
	return fmt.Errorf("%s failed: %w", stage, err)
}
