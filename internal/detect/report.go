package detect

import (
	"fmt"

	"github.com/kamusis/plagiscan/internal/minhash"
)

// Flagged is a document pair whose estimated similarity met the threshold.
type Flagged struct {
	I, J       int
	DocA, DocB string
	Similarity float64
}

// Sink receives flagged pairs in ascending (I, J) order together with the running
// count of pairs flagged so far (1 for the first pair).
type Sink interface {
	Flag(f Flagged, count int) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f Flagged, count int) error

// Flag calls fn(f, count).
func (fn SinkFunc) Flag(f Flagged, count int) error { return fn(f, count) }

// Report selects the pairs with Similarity >= threshold, keeping their order, and
// passes each one to sink (which may be nil). docs maps pair indexes to ids.
func Report(pairs []minhash.Pair, docs []string, threshold float64, sink Sink) ([]Flagged, error) {
	var out []Flagged
	for _, p := range pairs {
		if p.Similarity < threshold {
			continue
		}
		if p.I < 0 || p.J >= len(docs) || p.I >= p.J {
			return nil, fmt.Errorf("invalid pair (%d, %d) for %d documents", p.I, p.J, len(docs))
		}
		f := Flagged{I: p.I, J: p.J, DocA: docs[p.I], DocB: docs[p.J], Similarity: p.Similarity}
		out = append(out, f)
		if sink != nil {
			if err := sink.Flag(f, len(out)); err != nil {
				return nil, fmt.Errorf("sink rejected pair %s/%s: %w", f.DocA, f.DocB, err)
			}
		}
	}
	return out, nil
}
