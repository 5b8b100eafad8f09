// Package fox implements the movement policies that drive the fox along the track.
package fox

import (
	"foxhunt/internal/rng"
	"foxhunt/internal/track"
)

// Policy chooses the fox's next position. An unplaced fox is dropped uniformly
// at random onto [1, n].
type Policy interface {
	Next(current track.Placement) track.Position
}

// Factory builds a fresh policy for one trial. src is owned by the caller's
// worker; implementations must keep any state private to the returned value.
type Factory func(trackSize int, src rng.Source) Policy

// RandomAdjacent steps left or right with equal probability and bounces off
// both ends of the track.
type RandomAdjacent struct {
	n   int
	src rng.Source
}

func NewRandomAdjacent(trackSize int, src rng.Source) Policy {
	return &RandomAdjacent{n: trackSize, src: src.Split()}
}

func (p *RandomAdjacent) Next(current track.Placement) track.Position {
	pos, ok := current.Position()
	if !ok {
		return place(p.n, p.src)
	}
	switch {
	case pos <= 1:
		return 2
	case int(pos) >= p.n:
		return track.Position(p.n - 1)
	case p.src.Bool():
		return pos + 1
	default:
		return pos - 1
	}
}

// RandomAdjacentWithStay may also hold its position. At either end it stays or
// steps inward with probability 1/2; in the interior each of -1, 0, +1 has
// probability 1/3.
type RandomAdjacentWithStay struct {
	n   int
	src rng.Source
}

func NewRandomAdjacentWithStay(trackSize int, src rng.Source) Policy {
	return &RandomAdjacentWithStay{n: trackSize, src: src.Split()}
}

func (p *RandomAdjacentWithStay) Next(current track.Placement) track.Position {
	pos, ok := current.Position()
	if !ok {
		return place(p.n, p.src)
	}
	switch {
	case pos <= 1:
		if p.src.Bool() {
			return 1
		}
		return 2
	case int(pos) >= p.n:
		if p.src.Bool() {
			return pos
		}
		return pos - 1
	default:
		return pos + track.Position(p.src.IntRange(-1, 1))
	}
}

func place(n int, src rng.Source) track.Position {
	return track.Position(src.IntRange(1, n))
}
