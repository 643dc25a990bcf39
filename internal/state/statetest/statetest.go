// Package statetest provides helper functions to create tests using Hive state.
package statetest

import (
	"testing"

	. "github.com/janpfeifer/hexhive/internal/state"
	"github.com/stretchr/testify/require"
)

// PieceOnBoard represents a position and ownership of a piece in the board.
// Pieces listed later at the same position are stacked on top.
type PieceOnBoard struct {
	Pos     Pos
	Player  PlayerNum
	Species Species
}

// BuildBoard from a collection of pieces, in axial coordinates.
func BuildBoard(layout []PieceOnBoard) (b *Board) {
	b = NewBoard()
	for _, p := range layout {
		b.Push(p.Pos, Tile{Species: p.Species, Player: p.Player})
	}
	return
}

// BuildGame creates a match in progress with the given layout and player to play next.
// The rules are the default ones, plus paranoid validation of every action.
func BuildGame(t testing.TB, layout []PieceOnBoard, nextPlayer PlayerNum) *Game {
	t.Helper()
	rules := DefaultRules()
	rules.Paranoid = true
	g, err := NewGameFromBoard(rules, BuildBoard(layout), nextPlayer)
	require.NoError(t, err)
	return g
}

// MustPlay plays the sequence of actions, failing the test at the first error.
func MustPlay(t testing.TB, g *Game, actions ...Action) {
	t.Helper()
	for _, action := range actions {
		require.NoErrorf(t, g.Play(action), "failed to play %s in move #%d", action, g.MoveNumber()+1)
	}
}

// Place returns the action of placing a new piece of species at pos.
func Place(species Species, pos Pos) Action {
	return Action{Species: species, TargetPos: pos}
}

// Move returns the action of moving the piece of species from src to tgt.
func Move(species Species, src, tgt Pos) Action {
	return Action{Move: true, Species: species, SourcePos: src, TargetPos: tgt}
}
