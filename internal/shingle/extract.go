// Package shingle turns raw document text into sets of vocabulary ids.
//
// Text is normalized, split into tokens and cut into overlapping k-token windows
// ("shingles"). Every distinct shingle across the corpus is given an id by a shared
// Vocabulary; a document is then represented by the sorted set of its shingle ids.
package shingle

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Input is one raw document handed to the extractor.
type Input struct {
	ID   string
	Text string
}

// Set is a sorted, duplicate-free list of shingle ids.
type Set []uint32

// Document is the extracted form of one input. Immutable after extraction.
type Document struct {
	ID       string
	Tokens   []string
	Shingles Set
}

// Extractor converts documents to shingle-id sets, growing a shared Vocabulary.
type Extractor struct {
	vocab   *Vocabulary
	opts    Options
	workers int
}

// NewExtractor returns an Extractor writing into vocab. workers <= 0 means one worker.
func NewExtractor(vocab *Vocabulary, opts Options, workers int) *Extractor {
	if workers <= 0 {
		workers = 1
	}
	return &Extractor{vocab: vocab, opts: opts, workers: workers}
}

// Vocabulary returns the vocabulary the extractor writes into.
func (e *Extractor) Vocabulary() *Vocabulary { return e.vocab }

// ExtractAll extracts every input, preserving input order in the result.
//
// Tokenization runs on up to e.workers goroutines. Ids are assigned afterwards in
// input order, so a given input order always yields the same vocabulary.
func (e *Extractor) ExtractAll(ctx context.Context, inputs []Input) ([]Document, error) {
	if e.opts.Length <= 0 {
		return nil, fmt.Errorf("invalid shingle length: %d", e.opts.Length)
	}

	tokens := make([][]string, len(inputs))
	windows := make([][]string, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens[i] = Tokenize(inputs[i].Text, e.opts)
			windows[i] = Shingles(tokens[i], e.opts.Length)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]Document, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs[i] = Document{ID: in.ID, Tokens: tokens[i], Shingles: e.assign(windows[i])}
	}
	return docs, nil
}

func (e *Extractor) assign(shingles []string) Set {
	if len(shingles) == 0 {
		return Set{}
	}
	set := make(Set, 0, len(shingles))
	for _, s := range shingles {
		set = append(set, e.vocab.IDFor(s))
	}
	slices.Sort(set)
	return slices.Compact(set)
}
