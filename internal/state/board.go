package state

import (
	"iter"
	"maps"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexhive/internal/generics"
)

// Stack of tiles occupying one cell, bottom first. Only Beetles can be stacked on top of
// other tiles: the tiles underneath are "buried" until the Beetle leaves.
type Stack []Tile

// Top returns the tile at the top of the stack, or the zero Tile if it is empty.
func (s Stack) Top() Tile {
	if len(s) == 0 {
		return Tile{}
	}
	return s[len(s)-1]
}

// Buried returns the tiles under the top tile, bottom first.
func (s Stack) Buried() []Tile {
	if len(s) <= 1 {
		return nil
	}
	return s[:len(s)-1]
}

// Board is a sparse map from position to the stack of tiles there. A position is present
// in the map if and only if there is at least one tile on it.
type Board struct {
	stacks map[Pos]Stack
}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	return &Board{stacks: make(map[Pos]Stack)}
}

// Clone makes a deep copy of the board.
func (b *Board) Clone() *Board {
	newB := &Board{stacks: make(map[Pos]Stack, len(b.stacks))}
	for pos, stack := range b.stacks {
		newB.stacks[pos] = slices.Clone(stack)
	}
	return newB
}

// HasPiece returns whether there is a piece on the given location of the board.
func (b *Board) HasPiece(pos Pos) bool {
	_, found := b.stacks[pos]
	return found
}

// TopAt returns the tile at the top of the stack at pos, and whether there is one.
func (b *Board) TopAt(pos Pos) (tile Tile, ok bool) {
	stack, ok := b.stacks[pos]
	if !ok {
		return
	}
	return stack.Top(), true
}

// StackAt returns a copy of the stack at pos, bottom first. Empty if there are no tiles.
func (b *Board) StackAt(pos Pos) Stack {
	return slices.Clone(b.stacks[pos])
}

// Height returns the number of tiles stacked at pos.
func (b *Board) Height(pos Pos) int {
	return len(b.stacks[pos])
}

// IsStacked returns whether the top tile at pos is lying on top of other tiles.
func (b *Board) IsStacked(pos Pos) bool {
	return len(b.stacks[pos]) > 1
}

// Push puts the tile on top of whatever is at pos.
//
// Only Beetles can be stacked on occupied cells: anything else is an invariant violation
// and panics.
func (b *Board) Push(pos Pos, tile Tile) {
	stack := b.stacks[pos]
	if len(stack) > 0 && tile.Species != Beetle {
		exceptions.Panicf("cannot stack %s on top of %s at %s: only Beetles climb", tile, stack.Top(), pos)
	}
	b.stacks[pos] = append(stack, tile)
}

// Pop removes the top tile at pos and returns it. The tile buried underneath, if any,
// becomes the new top. It panics if pos is empty.
func (b *Board) Pop(pos Pos) Tile {
	stack, found := b.stacks[pos]
	if !found {
		exceptions.Panicf("cannot pop tile from empty position %s", pos)
	}
	tile := stack.Top()
	if len(stack) == 1 {
		delete(b.stacks, pos)
	} else {
		b.stacks[pos] = stack[:len(stack)-1]
	}
	return tile
}

// MoveTop moves the top tile from src to tgt and returns it.
func (b *Board) MoveTop(src, tgt Pos) Tile {
	tile := b.Pop(src)
	b.Push(tgt, tile)
	return tile
}

// NumOccupied is the number of occupied positions (stacks count once).
func (b *Board) NumOccupied() int {
	return len(b.stacks)
}

// NumTiles is the total number of tiles on the board, including buried ones.
func (b *Board) NumTiles() (count int) {
	for _, stack := range b.stacks {
		count += len(stack)
	}
	return
}

// IsEmpty returns whether there are no tiles on the board.
func (b *Board) IsEmpty() bool {
	return len(b.stacks) == 0
}

// OccupiedPositions returns all the positions used, sorted.
func (b *Board) OccupiedPositions() []Pos {
	positions := slices.Collect(maps.Keys(b.stacks))
	SortPositions(positions)
	return positions
}

// OccupiedPositionsIter iterates over all positions used, in no particular order.
func (b *Board) OccupiedPositionsIter() iter.Seq[Pos] {
	return maps.Keys(b.stacks)
}

// Stacks iterates over all occupied positions and their stacks, in no particular order.
// The stacks yielded must not be modified.
func (b *Board) Stacks() iter.Seq2[Pos, Stack] {
	return maps.All(b.stacks)
}

// OccupiedNeighbours returns the neighbouring positions with pieces.
func (b *Board) OccupiedNeighbours(pos Pos) (positions []Pos) {
	positions = make([]Pos, 0, NumNeighbors)
	for neighbour := range pos.NeighboursIter() {
		if b.HasPiece(neighbour) {
			positions = append(positions, neighbour)
		}
	}
	return
}

// OccupiedNeighboursIter iterates over the occupied neighbours.
func (b *Board) OccupiedNeighboursIter(pos Pos) iter.Seq[Pos] {
	return generics.IterFilter(pos.NeighboursIter(), b.HasPiece)
}

// CountOccupiedNeighbours returns how many of the 6 neighbours of pos have pieces.
func (b *Board) CountOccupiedNeighbours(pos Pos) (count int) {
	for neighbour := range pos.NeighboursIter() {
		if b.HasPiece(neighbour) {
			count++
		}
	}
	return
}

// EmptyNeighbours returns the neighbouring positions without pieces.
func (b *Board) EmptyNeighbours(pos Pos) (positions []Pos) {
	positions = make([]Pos, 0, NumNeighbors)
	for neighbour := range pos.NeighboursIter() {
		if !b.HasPiece(neighbour) {
			positions = append(positions, neighbour)
		}
	}
	return
}

// EmptyNeighboursIter iterates over the empty neighbours.
func (b *Board) EmptyNeighboursIter(pos Pos) iter.Seq[Pos] {
	return generics.IterFilter(pos.NeighboursIter(), func(p Pos) bool { return !b.HasPiece(p) })
}

// HasPlayerNeighbour returns whether any neighbour of pos has a top tile owned by player.
func (b *Board) HasPlayerNeighbour(player PlayerNum, pos Pos) bool {
	for neighbour := range pos.NeighboursIter() {
		if tile, ok := b.TopAt(neighbour); ok && tile.Player == player {
			return true
		}
	}
	return false
}

// FindQueen returns the position of the player's Queen Bee, which may be buried under Beetles.
func (b *Board) FindQueen(player PlayerNum) (pos Pos, found bool) {
	queen := Tile{Species: QueenBee, Player: player}
	for pos, stack := range b.stacks {
		if slices.Contains(stack, queen) {
			return pos, true
		}
	}
	return
}

// UsedLimits returns the min/max of q and r used in the board. All zero for an empty board.
func (b *Board) UsedLimits() (minQ, maxQ, minR, maxR int) {
	first := true
	for pos := range b.stacks {
		q, r := pos.Q(), pos.R()
		if first || q > maxQ {
			maxQ = q
		}
		if first || q < minQ {
			minQ = q
		}
		if first || r > maxR {
			maxR = r
		}
		if first || r < minR {
			minR = r
		}
		first = false
	}
	return
}
