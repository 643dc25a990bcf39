package state_test

import (
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/hexhive/internal/state"
	. "github.com/janpfeifer/hexhive/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	rules, err := ParseRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)

	rules, err = ParseRules("strict_placement,max_moves=200,starting=1,seed_q=3,seed_r=-2,first_name=Ann,paranoid")
	require.NoError(t, err)
	assert.True(t, rules.StrictPlacement)
	assert.True(t, rules.Paranoid)
	assert.Equal(t, 200, rules.MaxMoves)
	assert.Equal(t, PlayerSecond, rules.StartingPlayer)
	assert.Equal(t, Pos{3, -2}, rules.Seed)
	assert.Equal(t, [NumPlayers]string{"Ann", "GRAY"}, rules.PlayerNames)

	for _, config := range []string{"max_moves=-1", "max_moves=abc", "starting=2", "strict_placement=maybe", "unknown=1"} {
		_, err = ParseRules(config)
		assert.Errorf(t, err, "config %q should fail", config)
	}

	// The seed is where the first piece goes.
	rules, err = ParseRules("seed_q=3,seed_r=-2")
	require.NoError(t, err)
	g := NewGame(rules)
	assert.Equal(t, []Pos{{3, -2}}, g.LegalDestinations(SelectSlot(QueenBee.Slot())))
}

func TestValidate(t *testing.T) {
	g := BuildGame(t, []PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, QueenBee},
		{Pos{1, 0}, PlayerSecond, QueenBee},
	}, PlayerFirst)
	require.NoError(t, g.Validate())

	// Tampering with the board breaks several invariants at once.
	g.Board().Push(Pos{5, 5}, Tile{Species: QueenBee, Player: PlayerFirst})
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontier out of sync")
	assert.Contains(t, err.Error(), "disconnected")
	assert.Contains(t, err.Error(), "Queen Bee")

	// With paranoid rules, the next action panics.
	panicked := exceptions.TryCatch[error](func() { g.Play(Place(Spider, Pos{-1, 0})) })
	assert.Error(t, panicked)
}

func TestHiveGraph(t *testing.T) {
	b := BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, PlayerFirst, QueenBee},
		{Pos{1, 0}, PlayerSecond, QueenBee},
		{Pos{0, 1}, PlayerFirst, SoldierAnt},
		{Pos{0, 1}, PlayerSecond, Beetle},
	})
	dot, err := b.HiveGraph()
	require.NoError(t, err)
	assert.Contains(t, dot, HiveGraphName)
	assert.Contains(t, dot, "A0/B1")

	parsed, err := gographviz.Read([]byte(dot))
	require.NoError(t, err)
	assert.Len(t, parsed.Nodes.Nodes, 3)
	// Triangle: each pair is adjacent.
	assert.Len(t, parsed.Edges.Edges, 3)
}
