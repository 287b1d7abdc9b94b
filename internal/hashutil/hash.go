// Package hashutil provides the 64-bit FNV-1a folding used to build the
// expression content hash. spec.md §1 places the generic utility layer
// ("hash, arena/refcounted containers, ...") out of scope and tells
// implementers to "assume equivalents from the target ecosystem's
// standard library" — this package is that equivalent, a thin wrapper
// over hash/fnv rather than a ported hash.h.
package hashutil

import "hash/fnv"

const offsetBasis uint64 = 14695981039346656037
const prime uint64 = 1099511628211

// String returns the FNV-1a hash of s.
func String(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Combine folds an additional 64-bit value into an accumulated hash,
// FNV-1a style, byte by byte over v's little-endian representation.
func Combine(acc uint64, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		acc ^= v & 0xff
		acc *= prime
		v >>= 8
	}
	return acc
}

// Seed returns the FNV-1a offset basis to start a fold from.
func Seed() uint64 { return offsetBasis }

// Bool folds a boolean into acc.
func Bool(acc uint64, b bool) uint64 {
	if b {
		return Combine(acc, 1)
	}
	return Combine(acc, 0)
}
