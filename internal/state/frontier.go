package state

import (
	"github.com/janpfeifer/hexhive/internal/generics"
)

// DefaultSeed is the position of the first piece placed in a match.
var DefaultSeed = Pos{0, 0}

// Frontier is the border of the hive: the set of empty positions adjacent to at least one
// occupied position. Before any piece is placed it holds only the seed position.
//
// It is maintained incrementally: OnPlaced must be called after a tile is placed or moved
// in, and OnVacated after the source of a move has been lifted.
type Frontier struct {
	seed  Pos
	cells generics.Set[Pos]
}

// NewFrontier creates the frontier of an empty board, holding only the seed position.
func NewFrontier(seed Pos) *Frontier {
	return &Frontier{seed: seed, cells: generics.SetWith(seed)}
}

// ComputeFrontier scans the whole board and returns the frontier it should have.
// It is the reference implementation used to validate the incremental updates.
func ComputeFrontier(b *Board, seed Pos) *Frontier {
	if b.IsEmpty() {
		return NewFrontier(seed)
	}
	f := &Frontier{seed: seed, cells: generics.MakeSet[Pos]()}
	for pos := range b.OccupiedPositionsIter() {
		for neighbour := range b.EmptyNeighboursIter(pos) {
			f.cells.Insert(neighbour)
		}
	}
	return f
}

// Clone returns an independent copy of the frontier.
func (f *Frontier) Clone() *Frontier {
	return &Frontier{seed: f.seed, cells: f.cells.Clone()}
}

// Seed returns the position used for the first placement.
func (f *Frontier) Seed() Pos {
	return f.seed
}

// Has returns whether pos is in the frontier.
func (f *Frontier) Has(pos Pos) bool {
	return f.cells.Has(pos)
}

// Len returns the number of positions in the frontier.
func (f *Frontier) Len() int {
	return f.cells.Len()
}

// Set returns a copy of the frontier positions.
func (f *Frontier) Set() generics.Set[Pos] {
	return f.cells.Clone()
}

// Positions returns the frontier positions, sorted.
func (f *Frontier) Positions() []Pos {
	return f.cells.SortedFunc(Pos.Compare)
}

// Equal returns whether both frontiers hold the same positions.
func (f *Frontier) Equal(f2 *Frontier) bool {
	return f.cells.Equal(f2.cells)
}

// OnPlaced updates the frontier after a tile was placed or moved into pos: pos is
// no longer empty, and all its empty neighbours now border the hive.
func (f *Frontier) OnPlaced(b *Board, pos Pos) {
	f.cells.Delete(pos)
	for neighbour := range b.EmptyNeighboursIter(pos) {
		f.cells.Insert(neighbour)
	}
}

// OnVacated updates the frontier after the tile at origin was moved away, and after
// OnPlaced was called for its destination.
//
// If origin is now empty it borders the moved tile and re-enters the frontier. Each of its
// empty neighbours is re-checked independently: it may still border the hive through some
// other occupied cell.
func (f *Frontier) OnVacated(b *Board, origin Pos) {
	if b.HasPiece(origin) {
		// A Beetle left the top of a stack: occupancy didn't change.
		return
	}
	if b.IsEmpty() {
		f.cells = generics.SetWith(f.seed)
		return
	}
	if b.CountOccupiedNeighbours(origin) > 0 {
		f.cells.Insert(origin)
	} else {
		f.cells.Delete(origin)
	}
	for neighbour := range b.EmptyNeighboursIter(origin) {
		if b.CountOccupiedNeighbours(neighbour) == 0 {
			f.cells.Delete(neighbour)
		}
	}
}
