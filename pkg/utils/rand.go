package utils

import (
	"math/rand/v2"
	"time"
)

// RandSource is a seeded random number generator. It is not safe for
// concurrent use; derive a child with Split for each goroutine.
//
// RandSource implements rand.Source so it can drive gonum distributions
// directly (distuv.Normal{Src: rs}).
type RandSource struct {
	seed uint64
	rng  *rand.Rand
}

// NewRandSource creates a new random source with the given seed
func NewRandSource(seed uint64) *RandSource {
	return &RandSource{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewTimeSeededRandSource creates a random source seeded from the wall clock
func NewTimeSeededRandSource() *RandSource {
	return NewRandSource(uint64(time.Now().UnixNano()))
}

// Seed returns the seed the source was created with
func (r *RandSource) Seed() uint64 {
	return r.seed
}

// Uint64 returns a uniformly distributed uint64
func (r *RandSource) Uint64() uint64 {
	return r.rng.Uint64()
}

// Split derives an independent source from the next value of r
func (r *RandSource) Split() *RandSource {
	return NewRandSource(r.rng.Uint64())
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// IntN returns a random int in [0, n)
func (r *RandSource) IntN(n int) int {
	return r.rng.IntN(n)
}

// ExpFloat64 returns an exponentially distributed random number with rate lambda
func (r *RandSource) ExpFloat64(lambda float64) float64 {
	return r.rng.ExpFloat64() / lambda
}

// NormFloat64 returns a normally distributed random number with mean and stddev
func (r *RandSource) NormFloat64(mean, stddev float64) float64 {
	return r.rng.NormFloat64()*stddev + mean
}

// BernoulliBool returns true with probability p, false otherwise
func (r *RandSource) BernoulliBool(p float64) bool {
	return r.rng.Float64() < p
}
