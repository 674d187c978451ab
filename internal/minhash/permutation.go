package minhash

import (
	"math/bits"
	"math/rand/v2"
)

// mersenne61 is the prime 2^61-1. Ranks are computed modulo it.
const mersenne61 = 1<<61 - 1

// Unmatched is the signature value of a document with no shingles.
// Real ranks are always >= 1.
const Unmatched uint64 = 0

// Permutation emulates a random permutation of the shingle-id space with the
// universal hash rank(id) = ((a*id + b) mod p) + 1. With a != 0 the map is a
// bijection on [0, p), so distinct ids always get distinct ranks.
type Permutation struct {
	a, b uint64
}

// Rank returns the 1-based position of id under the permutation.
func (p Permutation) Rank(id uint32) uint64 {
	hi, lo := bits.Mul64(p.a, uint64(id))
	// hi*2^64 + lo == hi*8*2^61 + lo, and 2^61 ≡ 1 (mod p).
	r := (lo & mersenne61) + (lo>>61 | hi<<3)
	if r >= mersenne61 {
		r -= mersenne61
	}
	r += p.b
	if r >= mersenne61 {
		r -= mersenne61
	}
	return r + 1
}

// Family is an ordered set of independent permutations, one per signature column.
type Family []Permutation

// NewFamily draws n permutations from a PCG generator seeded with seed.
// The same (n, seed) always yields the same family.
func NewFamily(n int, seed uint64) Family {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	fam := make(Family, n)
	for i := range fam {
		fam[i] = Permutation{
			a: rng.Uint64N(mersenne61-1) + 1,
			b: rng.Uint64N(mersenne61),
		}
	}
	return fam
}
