// Package report persists the outcome of a scan: a JSON manifest plus the
// document and flagged-pair listings as JSONL. Signatures are never stored.
package report

import (
	"time"

	"github.com/kamusis/plagiscan/internal/detect"
)

// Contents is everything Write needs, assembled from a finished run.
type Contents struct {
	Manifest  Manifest
	Documents []DocumentEntry
	Pairs     []PairEntry
}

// FromResult converts a run into report contents. digests maps document ids to
// content digests and may be nil.
func FromResult(res *detect.Result, cfg detect.Config, corpusDir string, digests map[string]string, elapsed time.Duration) Contents {
	c := Contents{
		Manifest: Manifest{
			RunID:           res.RunID,
			Corpus:          corpusDir,
			Seed:            res.Seed,
			ShingleLen:      cfg.ShingleLen,
			NumPermutations: cfg.NumPermutations,
			Threshold:       cfg.SimilarityThreshold,
			VocabularySize:  res.VocabularySize,
			PairsCompared:   res.PairsCompared,
			DurationMS:      elapsed.Milliseconds(),
		},
	}
	c.Documents = make([]DocumentEntry, len(res.Documents))
	for i, id := range res.Documents {
		c.Documents[i] = DocumentEntry{ID: id, Digest: digests[id]}
	}
	c.Pairs = make([]PairEntry, len(res.Flagged))
	for i, f := range res.Flagged {
		c.Pairs[i] = PairEntry{DocA: f.DocA, DocB: f.DocB, Similarity: f.Similarity}
	}
	return c
}

// Install is the package-level Install applied to c.
func (c Contents) Install(dest string) error {
	return Install(dest, c.Manifest, c.Documents, c.Pairs)
}
