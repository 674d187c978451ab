package report

// Version is the report layout written by this build.
const Version = 1

// Manifest describes a scan run and the files that make up its report.
type Manifest struct {
	ReportVersion   int     `json:"report_version"`
	CreatedAt       string  `json:"created_at"`
	RunID           string  `json:"run_id"`
	Corpus          string  `json:"corpus"`
	Seed            uint64  `json:"seed"`
	ShingleLen      int     `json:"shingle_len"`
	NumPermutations int     `json:"num_permutations"`
	Threshold       float64 `json:"threshold"`
	VocabularySize  int     `json:"vocabulary_size"`
	PairsCompared   int     `json:"pairs_compared"`
	Flagged         int     `json:"flagged"`
	DurationMS      int64   `json:"duration_ms"`

	DocumentsFile string `json:"documents_file"`
	PairsFile     string `json:"pairs_file"`
}

// DocumentEntry is one row of documents.jsonl, in processing order.
type DocumentEntry struct {
	ID     string `json:"id"`
	Digest string `json:"digest,omitempty"`
}

// PairEntry is one row of pairs.jsonl.
type PairEntry struct {
	DocA       string  `json:"doc_a"`
	DocB       string  `json:"doc_b"`
	Similarity float64 `json:"similarity"`
}

// Report is a loaded scan report.
type Report struct {
	Manifest  Manifest
	Documents []DocumentEntry
	Pairs     []PairEntry
}

// IndexOf returns the position of document id, or -1.
func (r *Report) IndexOf(id string) int {
	for i, d := range r.Documents {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Pair returns the flagged entry for documents a and b in either order.
func (r *Report) Pair(a, b string) (PairEntry, bool) {
	for _, p := range r.Pairs {
		if (p.DocA == a && p.DocB == b) || (p.DocA == b && p.DocB == a) {
			return p, true
		}
	}
	return PairEntry{}, false
}
