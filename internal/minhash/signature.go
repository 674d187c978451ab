// Package minhash builds MinHash signatures over shingle-id sets and estimates
// Jaccard similarity from them.
package minhash

import (
	"context"
	"fmt"

	"github.com/kamusis/plagiscan/internal/shingle"
	"golang.org/x/sync/errgroup"
)

// Matrix is a dense documents × permutations signature matrix, row-major.
// It is fully computed by Generator.Sign and never mutated afterwards.
type Matrix struct {
	rows  int
	cols  int
	cells []uint64
}

// Rows returns the number of documents.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of permutations.
func (m *Matrix) Cols() int { return m.cols }

// Row returns the signature of document i. Callers must not modify it.
func (m *Matrix) Row(i int) []uint64 {
	return m.cells[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// At returns the MinHash of document i under permutation j.
func (m *Matrix) At(i, j int) uint64 { return m.cells[i*m.cols+j] }

// Generator computes signatures with a fixed permutation family.
type Generator struct {
	family  Family
	workers int
}

// NewGenerator returns a Generator using family. workers <= 0 means one worker.
func NewGenerator(family Family, workers int) *Generator {
	if workers <= 0 {
		workers = 1
	}
	return &Generator{family: family, workers: workers}
}

// Permutations returns the number of signature columns the generator produces.
func (g *Generator) Permutations() int { return len(g.family) }

// Sign returns the signature matrix of sets, one row per set in order.
//
// vocabSize is the frozen vocabulary size; every id must lie in [1, vocabSize].
// Each row costs O(|set| * permutations): the vocabulary itself is never scanned.
// Empty sets get Unmatched in every column.
func (g *Generator) Sign(ctx context.Context, sets []shingle.Set, vocabSize int) (*Matrix, error) {
	if len(g.family) == 0 {
		return nil, fmt.Errorf("no permutations configured")
	}
	for i, set := range sets {
		for _, id := range set {
			if id == 0 || int(id) > vocabSize {
				return nil, fmt.Errorf("document %d: id %d (vocabulary size %d): %w", i, id, vocabSize, ErrIDOutOfRange)
			}
		}
	}

	m := &Matrix{rows: len(sets), cols: len(g.family), cells: make([]uint64, len(sets)*len(g.family))}

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i := range sets {
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			g.signRow(m.cells[i*m.cols:(i+1)*m.cols], sets[i])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func (g *Generator) signRow(row []uint64, set shingle.Set) {
	if len(set) == 0 {
		for j := range row {
			row[j] = Unmatched
		}
		return
	}
	for j, p := range g.family {
		lowest := p.Rank(set[0])
		for _, id := range set[1:] {
			if r := p.Rank(id); r < lowest {
				lowest = r
			}
		}
		row[j] = lowest
	}
}
