package shingle

import "sync"

// Vocabulary assigns every distinct shingle a stable 1-based id in first-seen order.
// It is append-only: ids are never reassigned or reused. Safe for concurrent use.
type Vocabulary struct {
	mu  sync.Mutex
	ids map[string]uint32
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]uint32)}
}

// IDFor returns the id of shingle, assigning the next sequential id if it has not been seen.
func (v *Vocabulary) IDFor(shingle string) uint32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if id, ok := v.ids[shingle]; ok {
		return id
	}
	id := uint32(len(v.ids) + 1)
	v.ids[shingle] = id
	return id
}

// Size returns the number of distinct shingles, which is also the largest id.
func (v *Vocabulary) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.ids)
}
