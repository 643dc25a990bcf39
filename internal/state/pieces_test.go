package state_test

import (
	"testing"

	. "github.com/janpfeifer/hexhive/internal/state"
	. "github.com/janpfeifer/hexhive/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listMoves(b *Board, pos Pos) []Pos {
	return LegalMoves(b, ComputeFrontier(b, DefaultSeed), pos).SortedFunc(Pos.Compare)
}

// lineLayout is a straight line of 3 pieces with the tested piece at its left end.
func lineLayout(species Species) []PieceOnBoard {
	return []PieceOnBoard{
		{Pos{-1, 0}, PlayerFirst, species},
		{Pos{0, 0}, PlayerSecond, QueenBee},
		{Pos{1, 0}, PlayerFirst, QueenBee},
		{Pos{2, 0}, PlayerSecond, Grasshopper},
	}
}

func TestQueenMoves(t *testing.T) {
	b := BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, QueenBee},
		{Pos{1, 0}, PlayerSecond, QueenBee},
	})
	assert.Equal(t, []Pos{{0, 1}, {1, -1}}, listMoves(b, Pos{0, 0}))

	// Partially enclosed: it can only slide out through the open side.
	b = BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, QueenBee},
		{Pos{0, -1}, PlayerFirst, SoldierAnt},
		{Pos{1, -1}, PlayerSecond, SoldierAnt},
		{Pos{1, 0}, PlayerSecond, QueenBee},
		{Pos{0, 1}, PlayerFirst, Grasshopper},
	})
	assert.Equal(t, []Pos{{-1, 0}, {-1, 1}}, listMoves(b, Pos{0, 0}))

	// With only one open cell it would have to squeeze through the gate.
	b.Push(Pos{-1, 1}, Tile{Species: Grasshopper, Player: PlayerSecond})
	assert.Empty(t, listMoves(b, Pos{0, 0}))

	// Queen holding the hive together can't move.
	b = BuildBoard([]PieceOnBoard{
		{Pos{-1, 0}, PlayerFirst, SoldierAnt},
		{Pos{0, 0}, PlayerFirst, QueenBee},
		{Pos{1, 0}, PlayerSecond, QueenBee},
	})
	assert.True(t, b.WouldDisconnect(Pos{0, 0}))
	assert.Empty(t, listMoves(b, Pos{0, 0}))
}

func TestGrasshopperMoves(t *testing.T) {
	b := BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, Grasshopper},
		{Pos{1, 0}, PlayerSecond, QueenBee},
		{Pos{2, 0}, PlayerSecond, SoldierAnt},
		{Pos{0, 1}, PlayerFirst, QueenBee},
	})
	assert.Equal(t, []Pos{{0, 2}, {3, 0}}, listMoves(b, Pos{0, 0}))

	// It jumps over stacks, and it's not subject to the gate nor to being surrounded.
	b.Push(Pos{1, 0}, Tile{Species: Beetle, Player: PlayerFirst})
	assert.Equal(t, []Pos{{0, 2}, {3, 0}}, listMoves(b, Pos{0, 0}))
}

func TestBeetleMoves(t *testing.T) {
	b := BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, Beetle},
		{Pos{1, 0}, PlayerSecond, QueenBee},
	})
	// Slides like a Queen, or climbs the neighbour.
	assert.Equal(t, []Pos{{0, 1}, {1, -1}, {1, 0}}, listMoves(b, Pos{0, 0}))

	// On top of the hive it can go to any neighbouring position.
	b = BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, SoldierAnt},
		{Pos{1, 0}, PlayerSecond, QueenBee},
		{Pos{1, 0}, PlayerFirst, Beetle},
	})
	assert.False(t, b.WouldDisconnect(Pos{1, 0}))
	assert.Equal(t, []Pos{{0, 0}, {0, 1}, {1, -1}, {1, 1}, {2, -1}, {2, 0}}, listMoves(b, Pos{1, 0}))
}

func TestSpiderMoves(t *testing.T) {
	// Exactly 3 slides, clockwise or counter-clockwise around the line.
	b := BuildBoard(lineLayout(Spider))
	assert.Equal(t, []Pos{{1, 1}, {2, -1}}, listMoves(b, Pos{-1, 0}))

	// Spider locked in the middle of the hive.
	b.Push(Pos{-2, 0}, Tile{Species: SoldierAnt, Player: PlayerFirst})
	assert.Empty(t, listMoves(b, Pos{-1, 0}))
}

func TestSoldierAntMoves(t *testing.T) {
	b := BuildBoard(lineLayout(SoldierAnt))
	want := []Pos{{-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 1}, {2, -1}, {2, 1}, {3, -1}, {3, 0}}
	assert.Equal(t, want, listMoves(b, Pos{-1, 0}))

	// Cave at (0, 0) with a narrow entrance: the ant can reach the entrance but not get in.
	b = BuildBoard([]PieceOnBoard{
		{Pos{0, -1}, PlayerFirst, QueenBee},
		{Pos{1, -1}, PlayerFirst, Grasshopper},
		{Pos{1, 0}, PlayerSecond, QueenBee},
		{Pos{0, 1}, PlayerSecond, Grasshopper},
		{Pos{-1, 1}, PlayerSecond, Spider},
		{Pos{-2, 1}, PlayerFirst, SoldierAnt},
	})
	frontier := ComputeFrontier(b, DefaultSeed)
	require.True(t, frontier.Has(Pos{0, 0}))
	moves := LegalMoves(b, frontier, Pos{-2, 1})
	assert.True(t, moves.Has(Pos{-1, 0}))
	assert.False(t, moves.Has(Pos{0, 0}))
	for pos := range moves {
		assert.True(t, frontier.Has(pos), "ant move to %s outside of the frontier", pos)
	}
}

func TestPlacementPositions(t *testing.T) {
	b := BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, SoldierAnt},
		{Pos{1, 0}, PlayerSecond, SoldierAnt},
	})
	frontier := ComputeFrontier(b, DefaultSeed)
	got := PlacementPositions(b, frontier, PlayerFirst, false, false).SortedFunc(Pos.Compare)
	assert.Equal(t, []Pos{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}}, got)
	got = PlacementPositions(b, frontier, PlayerFirst, false, true).SortedFunc(Pos.Compare)
	assert.Equal(t, []Pos{{-1, 0}, {-1, 1}, {0, -1}}, got)

	// First turn can be anywhere in the frontier.
	got = PlacementPositions(b, frontier, PlayerSecond, true, true).SortedFunc(Pos.Compare)
	assert.Equal(t, frontier.Positions(), got)

	// Beetle on top takes ownership of the position.
	b.Push(Pos{0, 0}, Tile{Species: Beetle, Player: PlayerSecond})
	assert.Equal(t, 0, PlacementPositions(b, frontier, PlayerFirst, false, false).Len())
}
