package state_test

import (
	"math/rand/v2"
	"testing"

	. "github.com/janpfeifer/hexhive/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomMatch plays random valid actions until the match finishes or maxMoves is reached,
// calling check after every action.
func randomMatch(t *testing.T, seed uint64, maxMoves int, check func(g *Game)) *Game {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	g := NewGame(paranoidRules())
	for !g.IsFinished() && g.MoveNumber() < maxMoves {
		actions := g.ValidActions()
		require.NotEmpty(t, actions)
		action := actions[rng.IntN(len(actions))]
		require.NoErrorf(t, g.Play(action), "seed=%d, move #%d: %s", seed, g.MoveNumber()+1, action)
		check(g)
	}
	return g
}

func TestFrontierIncremental(t *testing.T) {
	for seed := range uint64(20) {
		randomMatch(t, seed, 120, func(g *Game) {
			want := ComputeFrontier(g.Board(), DefaultSeed)
			got := g.Frontier()
			require.Truef(t, want.Equal(got), "seed=%d, move #%d:\n\twant=%v\n\t got=%v", seed, g.MoveNumber(),
				PosStrings(want.Positions()), PosStrings(got.Positions()))
			require.True(t, g.Board().IsConnected())
		})
	}
}

func TestRemovableMatchesWouldDisconnect(t *testing.T) {
	for seed := range uint64(10) {
		randomMatch(t, 1000+seed, 100, func(g *Game) {
			b := g.Board()
			require.Truef(t, bruteForceRemovable(b).Equal(b.RemovablePositions()),
				"seed=%d, move #%d", seed, g.MoveNumber())
		})
	}
}

func TestFrontierOnVacated(t *testing.T) {
	b := NewBoard()
	f := NewFrontier(DefaultSeed)
	assert.Equal(t, []Pos{DefaultSeed}, f.Positions())

	b.Push(Pos{0, 0}, Tile{Species: QueenBee, Player: PlayerFirst})
	f.OnPlaced(b, Pos{0, 0})
	assert.Equal(t, 6, f.Len())
	assert.False(t, f.Has(DefaultSeed))

	b.Push(Pos{1, 0}, Tile{Species: QueenBee, Player: PlayerSecond})
	f.OnPlaced(b, Pos{1, 0})
	assert.True(t, f.Equal(ComputeFrontier(b, DefaultSeed)))

	// Slide the second Queen around: cells only bordering its old position leave the frontier.
	b.MoveTop(Pos{1, 0}, Pos{1, -1})
	f.OnPlaced(b, Pos{1, -1})
	f.OnVacated(b, Pos{1, 0})
	assert.True(t, f.Has(Pos{1, 0}))
	assert.False(t, f.Has(Pos{2, 0}))
	assert.True(t, f.Equal(ComputeFrontier(b, DefaultSeed)))

	// Beetle leaving a stack doesn't change occupancy.
	b.Push(Pos{0, 0}, Tile{Species: Beetle, Player: PlayerSecond})
	f.OnPlaced(b, Pos{0, 0})
	b.MoveTop(Pos{0, 0}, Pos{-1, 0})
	f.OnPlaced(b, Pos{-1, 0})
	f.OnVacated(b, Pos{0, 0})
	assert.False(t, f.Has(Pos{0, 0}))
	assert.True(t, f.Equal(ComputeFrontier(b, DefaultSeed)))
}

func TestValidActionsAreAllPlayable(t *testing.T) {
	g := randomMatch(t, 7, 30, func(*Game) {})
	if g.IsFinished() {
		return
	}
	for _, action := range g.ValidActions() {
		if action.IsSkipAction() {
			continue
		}
		sel := SelectPos(action.SourcePos)
		if !action.Move {
			sel = SelectSlot(action.Species.Slot())
		}
		assert.Containsf(t, g.LegalDestinations(sel), action.TargetPos, "action %s", action)
	}
}
