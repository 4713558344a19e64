// internal/game/shuffle.go
//
// Seeded board layout. A resumed session must reconstruct the exact word
// arrangement it was saved with, so the shuffle is a pure function of
// (sequence, seed): Fisher–Yates driven by a fixed 32-bit linear
// congruential generator. Changing the LCG constants changes every stored
// layout, so they are frozen here.

package game

import "time"

// Numerical Recipes LCG: state = state*1664525 + 1013904223 mod 2^32.
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// Shuffle returns a new slice with seq permuted deterministically by seed.
// The input is never mutated; empty and single-element inputs come back as
// an unchanged copy.
func Shuffle[T any](seq []T, seed int64) []T {
	out := append([]T(nil), seq...)
	if len(out) < 2 {
		return out
	}
	state := uint64(seed) % lcgModulus
	for i := len(out) - 1; i > 0; i-- {
		state = (state*lcgMultiplier + lcgIncrement) % lcgModulus
		j := int(float64(state) / float64(lcgModulus) * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NewSeed produces a fresh, non-reproducible seed. Callers must capture the
// value into the run so the layout can be rebuilt on resume.
func NewSeed() int64 {
	return time.Now().UnixMilli()
}
