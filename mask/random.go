package mask

import (
	"math/rand/v2"
	"time"
)

// RandSource supplies uniform integers in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// NewSource returns a deterministic PCG generator for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewClockSource seeds from the wall clock.
func NewClockSource() *rand.Rand {
	return NewSource(uint64(time.Now().UnixNano()))
}
