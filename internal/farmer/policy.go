// Package farmer implements the search policies that guess the fox's position.
//
// A search policy never sees the fox. It yields one guess per time step and is
// discarded when the trial ends.
package farmer

import (
	"foxhunt/internal/rng"
	"foxhunt/internal/track"
)

type Policy interface {
	Next() track.Position
}

// Factory builds a fresh policy for one trial. src is owned by the caller's
// worker; implementations must keep any state private to the returned value.
type Factory func(trackSize int, src rng.Source) Policy

// RandomSearch guesses uniformly over the whole track.
type RandomSearch struct {
	n   int
	src rng.Source
}

func NewRandomSearch(trackSize int, src rng.Source) Policy {
	return &RandomSearch{n: trackSize, src: src.Split()}
}

func (p *RandomSearch) Next() track.Position {
	return track.Position(p.src.IntRange(1, p.n))
}

// Sweep cycles through a fixed guess sequence, one element per call.
type Sweep struct {
	sequence []track.Position
	cursor   int
}

// NewOptimalSweep visits 2..n-1 and then n-1..2, a period of 2n-4 guesses.
// Against a fox restricted to adjacent moves with bouncing ends this catches
// the fox within one period. A two-cell track has no interior, so the sweep
// keeps guessing cell 1, which the alternating fox reaches within two steps.
func NewOptimalSweep(trackSize int, _ rng.Source) Policy {
	return &Sweep{sequence: OptimalSweepSequence(trackSize)}
}

// NewAscendingSweep visits 2..n-1 and wraps back to 2. It is not guaranteed to
// catch the fox: a fox on the wrong parity can slip past every pass.
func NewAscendingSweep(trackSize int, _ rng.Source) Policy {
	return &Sweep{sequence: AscendingSweepSequence(trackSize)}
}

func (p *Sweep) Next() track.Position {
	guess := p.sequence[p.cursor]
	p.cursor++
	if p.cursor == len(p.sequence) {
		p.cursor = 0
	}
	return guess
}

// Period is the number of guesses before the sequence repeats.
func (p *Sweep) Period() int {
	return len(p.sequence)
}

func OptimalSweepSequence(trackSize int) []track.Position {
	if trackSize <= track.MinSize {
		return []track.Position{1}
	}
	seq := make([]track.Position, 0, 2*trackSize-4)
	for pos := 2; pos <= trackSize-1; pos++ {
		seq = append(seq, track.Position(pos))
	}
	for pos := trackSize - 1; pos >= 2; pos-- {
		seq = append(seq, track.Position(pos))
	}
	return seq
}

func AscendingSweepSequence(trackSize int) []track.Position {
	if trackSize <= track.MinSize {
		return []track.Position{1}
	}
	seq := make([]track.Position, 0, trackSize-2)
	for pos := 2; pos <= trackSize-1; pos++ {
		seq = append(seq, track.Position(pos))
	}
	return seq
}
