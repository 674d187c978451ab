package minhash

import "errors"

// ErrIDOutOfRange indicates a shingle id outside [1, vocabulary size].
var ErrIDOutOfRange = errors.New("shingle id out of vocabulary range")

// ErrRowLengthMismatch indicates two signature rows of different lengths.
var ErrRowLengthMismatch = errors.New("signature row length mismatch")
