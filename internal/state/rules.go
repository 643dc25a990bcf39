package state

import (
	"github.com/janpfeifer/hexhive/internal/parameters"
	"github.com/pkg/errors"
)

// QueenDeadline is the player's action number by which the Queen Bee must be on the board:
// a player that hasn't placed it in the first 3 actions must place it in the 4th.
const QueenDeadline = 4

// Rules configures a match.
type Rules struct {
	// StrictPlacement forbids placing new pieces touching an opponent's piece (tournament rule).
	// Otherwise a placement only needs to touch one of the player's own pieces.
	StrictPlacement bool

	// MaxMoves after which the match is considered a draw. 0 means unlimited.
	MaxMoves int

	// StartingPlayer makes the first action.
	StartingPlayer PlayerNum

	// Seed is the position of the first piece placed.
	Seed Pos

	// PlayerNames used in the end of match message.
	PlayerNames [NumPlayers]string

	// Paranoid validates every invariant of the game after each action, and panics if any
	// is violated. Slow, used for testing.
	Paranoid bool
}

// DefaultRules returns the rules used if nothing is configured.
func DefaultRules() Rules {
	return Rules{
		Seed:        DefaultSeed,
		PlayerNames: [NumPlayers]string{"BLACK", "GRAY"},
	}
}

// ParseRules parses a configuration string like "strict_placement,max_moves=200,starting=1".
//
// Valid keys: strict_placement, max_moves, starting (0 or 1), seed_q, seed_r, first_name,
// second_name and paranoid. Unknown keys are reported as errors.
func ParseRules(config string) (rules Rules, err error) {
	rules = DefaultRules()
	params := parameters.NewFromConfigString(config)
	if rules.StrictPlacement, err = parameters.PopParamOr(params, "strict_placement", rules.StrictPlacement); err != nil {
		return
	}
	if rules.MaxMoves, err = parameters.PopParamOr(params, "max_moves", rules.MaxMoves); err != nil {
		return
	}
	if rules.MaxMoves < 0 {
		err = errors.Errorf("invalid max_moves=%d, it must be >= 0", rules.MaxMoves)
		return
	}
	var starting int
	if starting, err = parameters.PopParamOr(params, "starting", int(rules.StartingPlayer)); err != nil {
		return
	}
	if starting != int(PlayerFirst) && starting != int(PlayerSecond) {
		err = errors.Errorf("invalid starting=%d, only 0 or 1 are valid", starting)
		return
	}
	rules.StartingPlayer = PlayerNum(starting)
	for ii, key := range []string{"seed_q", "seed_r"} {
		if rules.Seed[ii], err = parameters.PopParamOr(params, key, rules.Seed[ii]); err != nil {
			return
		}
	}
	for ii, key := range []string{"first_name", "second_name"} {
		if rules.PlayerNames[ii], err = parameters.PopParamOr(params, key, rules.PlayerNames[ii]); err != nil {
			return
		}
	}
	if rules.Paranoid, err = parameters.PopParamOr(params, "paranoid", rules.Paranoid); err != nil {
		return
	}
	err = errors.WithMessagef(parameters.CheckAllUsed(params), "invalid rules configuration %q", config)
	return
}
