package state

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Validate checks the invariants of the match and returns all violations found, combined
// in one error. It returns nil if the state is consistent.
//
// It is slow, and it's called after every action only if Rules.Paranoid is set.
func (g *Game) Validate() error {
	var result *multierror.Error

	// Frontier must match the one computed from scratch.
	expected := ComputeFrontier(g.board, g.rules.Seed)
	if !g.frontier.Equal(expected) {
		result = multierror.Append(result, errors.Errorf(
			"frontier out of sync: missing %v, extra %v",
			PosStrings(expected.cells.Sub(g.frontier.cells).SortedFunc(Pos.Compare)),
			PosStrings(g.frontier.cells.Sub(expected.cells).SortedFunc(Pos.Compare))))
	}

	// Only Beetles lie on top of other tiles.
	var onBoard [NumPlayers]Inventory
	for pos, stack := range g.board.Stacks() {
		if len(stack) == 0 {
			result = multierror.Append(result, errors.Errorf("empty stack stored at %s", pos))
		}
		for height, tile := range stack {
			if height > 0 && tile.Species != Beetle {
				result = multierror.Append(result, errors.Errorf(
					"%s stacked at height %d in %s: only Beetles climb", tile, height, pos))
			}
			if tile.Species == NoSpecies || tile.Species >= LastSpecies || tile.Player >= NumPlayers {
				result = multierror.Append(result, errors.Errorf("invalid tile %+v at %s", tile, pos))
				continue
			}
			onBoard[tile.Player][tile.Species.Slot()]++
		}
	}

	// Pieces are never created nor destroyed.
	for player := range PlayerNum(NumPlayers) {
		for slot, species := range AllSpecies {
			total := int(onBoard[player][slot]) + int(g.inventories[player][slot])
			if total != int(InitialInventory[slot]) {
				result = multierror.Append(result, errors.Errorf(
					"player %s has %d %s pieces (%d on board), expected %d",
					player, total, species, onBoard[player][slot], InitialInventory[slot]))
			}
		}
	}

	if !g.board.IsConnected() {
		result = multierror.Append(result, errors.New("hive is split in disconnected groups"))
	}
	if g.status == InProgress && (g.nextPlayer != PlayerFirst && g.nextPlayer != PlayerSecond) {
		result = multierror.Append(result, errors.Errorf("invalid player on turn %d", g.nextPlayer))
	}
	return result.ErrorOrNil()
}
