package state_test

import (
	"testing"

	. "github.com/janpfeifer/hexhive/internal/state"
	. "github.com/janpfeifer/hexhive/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPos(t *testing.T) {
	pos := Pos{2, -1}
	assert.Equal(t, 2, pos.Q())
	assert.Equal(t, -1, pos.R())
	assert.Equal(t, "(2, -1)", pos.String())

	// Consecutive directions are neighbours of each other, and opposite directions cancel out.
	for direction := range NumNeighbors {
		next := (direction + 1) % NumNeighbors
		opposite := (direction + 3) % NumNeighbors
		assert.True(t, Directions[direction].IsNeighbour(Directions[next]), "direction %d", direction)
		assert.Equal(t, Pos{0, 0}, Directions[direction].Add(Directions[opposite]))
		assert.Equal(t, pos.Add(Directions[direction]), pos.Neighbour(direction))
	}

	neighbours := pos.Neighbours()
	var fromIter []Pos
	for neighbour := range pos.NeighboursIter() {
		fromIter = append(fromIter, neighbour)
		assert.Equal(t, 1, pos.Distance(neighbour))
	}
	assert.Equal(t, neighbours[:], fromIter)
	assert.Equal(t, 3, Pos{0, 0}.Distance(Pos{3, -3}))
	assert.Equal(t, 4, Pos{-1, 0}.Distance(Pos{2, 1}))
	assert.False(t, pos.IsNeighbour(pos))

	poss := []Pos{{1, 0}, {-1, 2}, {0, 0}, {-1, 1}}
	SortPositions(poss)
	assert.Equal(t, []Pos{{-1, 1}, {-1, 2}, {0, 0}, {1, 0}}, poss)
	assert.Equal(t, []string{"(-1, 1)", "(-1, 2)", "(0, 0)", "(1, 0)"}, PosStrings(poss))
}

func TestSpecies(t *testing.T) {
	for slot, species := range AllSpecies {
		assert.Equal(t, slot, species.Slot())
		assert.Equal(t, species, LetterToSpecies[species.Letter()])
	}
	assert.Equal(t, "Soldier Ant", SoldierAnt.String())
	assert.Equal(t, "Q0", Tile{Species: QueenBee, Player: PlayerFirst}.String())
	assert.Panics(t, func() { _ = NoSpecies.Slot() })
	assert.Equal(t, PlayerSecond, PlayerFirst.Opponent())
	assert.Equal(t, PlayerFirst, PlayerSecond.Opponent())
}

func TestBoardStacks(t *testing.T) {
	b := BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, QueenBee},
		{Pos{1, 0}, PlayerSecond, SoldierAnt},
		{Pos{0, 0}, PlayerSecond, Beetle},
	})
	assert.Equal(t, 2, b.NumOccupied())
	assert.Equal(t, 3, b.NumTiles())
	assert.True(t, b.IsStacked(Pos{0, 0}))
	assert.Equal(t, 2, b.Height(Pos{0, 0}))
	top, ok := b.TopAt(Pos{0, 0})
	require.True(t, ok)
	assert.Equal(t, Tile{Species: Beetle, Player: PlayerSecond}, top)

	// Buried Queen is still found.
	queenPos, found := b.FindQueen(PlayerFirst)
	require.True(t, found)
	assert.Equal(t, Pos{0, 0}, queenPos)
	_, found = b.FindQueen(PlayerSecond)
	assert.False(t, found)

	// Top tile counts for ownership of the neighbourhood.
	assert.True(t, b.HasPlayerNeighbour(PlayerSecond, Pos{-1, 0}))
	assert.False(t, b.HasPlayerNeighbour(PlayerFirst, Pos{-1, 0}))

	// Only Beetles climb.
	assert.Panics(t, func() { b.Push(Pos{1, 0}, Tile{Species: Spider, Player: PlayerFirst}) })

	// Clone is independent.
	b2 := b.Clone()
	tile := b2.MoveTop(Pos{0, 0}, Pos{-1, 0})
	assert.Equal(t, Beetle, tile.Species)
	assert.Equal(t, 1, b2.Height(Pos{0, 0}))
	assert.Equal(t, 2, b.Height(Pos{0, 0}))

	// Popping the last tile frees the position.
	b2.Pop(Pos{-1, 0})
	assert.False(t, b2.HasPiece(Pos{-1, 0}))
	assert.Panics(t, func() { b2.Pop(Pos{-1, 0}) })
	assert.Equal(t, []Pos{{0, 0}, {1, 0}}, b2.OccupiedPositions())

	minQ, maxQ, minR, maxR := b.UsedLimits()
	assert.Equal(t, []int{0, 1, 0, 0}, []int{minQ, maxQ, minR, maxR})
}

func TestInventory(t *testing.T) {
	inv := InitialInventory
	assert.Equal(t, TotalPiecesPerPlayer, inv.Count())
	assert.False(t, inv.QueenPlaced())
	inv.Take(QueenBee)
	inv.Take(SoldierAnt)
	assert.True(t, inv.QueenPlaced())
	assert.Equal(t, 2, inv.Remaining(SoldierAnt))
	assert.Panics(t, func() { inv.Take(QueenBee) })
	assert.Equal(t, "S-2, B-2, G-3, A-2", inv.String())
	slots := inv.Slots()
	require.Len(t, slots, NumSpecies)
	assert.Equal(t, InventorySlot{Species: QueenBee, Remaining: 0}, slots[0])
	assert.Equal(t, InventorySlot{Species: SoldierAnt, Remaining: 2}, slots[4])
}
