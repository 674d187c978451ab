package minhash

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Pair is the estimated similarity of documents I and J, with I < J.
type Pair struct {
	I, J       int
	Similarity float64
}

// Estimate returns the fraction of positions where a and b hold the same MinHash.
//
// Unmatched never counts as agreement, so a document without shingles scores 0
// against every document, including other empty ones. Scoring two empty
// documents as identical (1.0) was considered and rejected: they share no text,
// so nothing was copied.
func Estimate(a, b []uint64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%d vs %d: %w", len(a), len(b), ErrRowLengthMismatch)
	}
	if len(a) == 0 {
		return 0, nil
	}
	matches := 0
	for k := range a {
		if a[k] == b[k] && a[k] != Unmatched {
			matches++
		}
	}
	return float64(matches) / float64(len(a)), nil
}

// EstimateAll estimates every unordered pair (i, j), i < j, of m's rows.
// The result is in ascending (i, j) order. Rows are spread over up to workers goroutines.
func EstimateAll(ctx context.Context, m *Matrix, workers int) ([]Pair, error) {
	if workers <= 0 {
		workers = 1
	}
	n := m.Rows()
	perRow := make([][]Pair, n)

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			a := m.Row(i)
			out := make([]Pair, 0, n-i-1)
			for j := i + 1; j < n; j++ {
				sim, err := Estimate(a, m.Row(j))
				if err != nil {
					return err
				}
				out = append(out, Pair{I: i, J: j, Similarity: sim})
			}
			perRow[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := n * (n - 1) / 2
	pairs := make([]Pair, 0, total)
	for _, row := range perRow {
		pairs = append(pairs, row...)
	}
	return pairs, nil
}
