// Package rng provides the per-worker random sources used by the pursuit engine.
//
// A Source is not safe for concurrent use. Every worker owns one, and every
// policy built during a trial receives a private child obtained with Split.
package rng

import (
	"math/rand/v2"
	"time"
)

type Source interface {
	// IntRange returns a uniform integer in [lo, hi]. It panics if hi < lo.
	IntRange(lo, hi int) int
	Bool() bool
	Uint64() uint64
	// Split derives an independent child source from the parent's stream.
	Split() Source
}

type pcgSource struct {
	r *rand.Rand
}

func New(seed uint64) Source {
	return newPCG(seed, mix(seed))
}

func newPCG(seed1, seed2 uint64) *pcgSource {
	return &pcgSource{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *pcgSource) IntRange(lo, hi int) int {
	if hi < lo {
		panic("rng: invalid range")
	}
	return lo + s.r.IntN(hi-lo+1)
}

func (s *pcgSource) Bool() bool {
	return s.r.Uint64()&1 == 1
}

func (s *pcgSource) Uint64() uint64 {
	return s.r.Uint64()
}

func (s *pcgSource) Split() Source {
	return newPCG(s.r.Uint64(), s.r.Uint64())
}

// ForWorker returns the source owned by worker i of a run seeded with seed.
// The same (seed, i) pair always yields the same stream.
func ForWorker(seed int64, i int) Source {
	return New(mix(uint64(seed) + uint64(i+1)*0x9e3779b97f4a7c15))
}

// SeedFromClock picks a non-zero seed for runs that did not ask for one.
func SeedFromClock() int64 {
	seed := int64(mix(uint64(time.Now().UnixNano())) >> 1)
	if seed == 0 {
		return 1
	}
	return seed
}

// splitmix64 finalizer
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
