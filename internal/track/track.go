package track

import "fmt"

// MinSize is the smallest track on which the boundary rules are meaningful.
const MinSize = 2

// Position is a cell index in [1, n].
type Position int

// Placement is a fox location that may not have been chosen yet.
type Placement struct {
	pos    Position
	placed bool
}

func Unplaced() Placement {
	return Placement{}
}

func At(p Position) Placement {
	return Placement{pos: p, placed: true}
}

func (p Placement) Position() (Position, bool) {
	return p.pos, p.placed
}

func (p Placement) IsPlaced() bool {
	return p.placed
}

func (p Placement) String() string {
	if !p.placed {
		return "unplaced"
	}
	return fmt.Sprintf("%d", p.pos)
}

// Contains reports whether p lies on a track of size n.
func Contains(n int, p Position) bool {
	return p >= 1 && int(p) <= n
}
