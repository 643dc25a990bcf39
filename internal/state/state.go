// Package state implements the rules of Hive: the board and its stacks of pieces, the
// frontier of the hive where pieces can be placed, the one-hive connectivity rule, the
// moves of each species and the turn/win state machine of a match.
//
// Positions use axial coordinates (q, r) on an unbounded hexagonal grid.
package state

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/gomlx/exceptions"
)

// Species of a piece: currently limited to the 5 basic types plus NoSpecies, the null value.
//
// The order of the non-null values is the order of the slots in a player's Inventory.
type Species uint8

const (
	NoSpecies Species = iota
	QueenBee
	Spider
	Beetle
	Grasshopper
	SoldierAnt
	LastSpecies
)

const (
	// NumPlayers currently limited to 2.
	NumPlayers = 2

	// NumNeighbors of each position: the board is hexagonal.
	NumNeighbors = 6

	// NumSpecies doesn't include NoSpecies.
	NumSpecies = int(LastSpecies) - 1
)

var (
	SpeciesLetters  = [LastSpecies]string{"-", "Q", "S", "B", "G", "A"}
	LetterToSpecies = map[string]Species{"Q": QueenBee, "S": Spider, "B": Beetle, "G": Grasshopper, "A": SoldierAnt}
	SpeciesNames    = [LastSpecies]string{
		"None", "Queen Bee", "Spider", "Beetle", "Grasshopper", "Soldier Ant",
	}

	// AllSpecies enumerates all the species in inventory order, skipping NoSpecies.
	AllSpecies = [NumSpecies]Species{QueenBee, Spider, Beetle, Grasshopper, SoldierAnt}
)

// String returns the long species name.
func (s Species) String() string {
	if s >= LastSpecies {
		return fmt.Sprintf("Species(%d)", uint8(s))
	}
	return SpeciesNames[s]
}

// Letter returns the one letter abbreviation of the species.
func (s Species) Letter() string {
	if s >= LastSpecies {
		exceptions.Panicf("invalid species %d", uint8(s))
	}
	return SpeciesLetters[s]
}

// Slot returns the inventory slot index of the species.
func (s Species) Slot() int {
	if s == NoSpecies || s >= LastSpecies {
		exceptions.Panicf("species %s has no inventory slot", s)
	}
	return int(s) - 1
}

// PlayerNum is either 0 or 1 corresponding to the first player or the second player.
type PlayerNum uint8

const (
	PlayerFirst PlayerNum = iota
	PlayerSecond

	// PlayerInvalid represents an invalid PlayerNum.
	PlayerInvalid
)

// String returns "First", "Second" or "Invalid".
func (p PlayerNum) String() string {
	switch p {
	case PlayerFirst:
		return "First"
	case PlayerSecond:
		return "Second"
	default:
		return "Invalid"
	}
}

// Opponent returns the other player.
func (p PlayerNum) Opponent() PlayerNum {
	return 1 - p
}

// Tile is one piece in the game: its species and the player who owns it.
type Tile struct {
	Species Species
	Player  PlayerNum
}

// String returns a short representation of the tile, e.g. "Q0" for the first player's Queen.
func (t Tile) String() string {
	return fmt.Sprintf("%s%d", SpeciesLetters[t.Species], t.Player)
}

// Pos packages the axial (q, r) coordinates of a cell.
type Pos [2]int

// Q coordinate of the position.
func (pos Pos) Q() int {
	return pos[0]
}

// R coordinate of the position.
func (pos Pos) R() int {
	return pos[1]
}

// Add returns the component-wise sum of the positions.
func (pos Pos) Add(delta Pos) Pos {
	return Pos{pos[0] + delta[0], pos[1] + delta[1]}
}

// Compare orders positions lexicographically by q and then r. It returns -1, 0 or +1.
func (pos Pos) Compare(pos2 Pos) int {
	if c := cmp.Compare(pos[0], pos2[0]); c != 0 {
		return c
	}
	return cmp.Compare(pos[1], pos2[1])
}

// Distance returns the number of steps between two positions on the hexagonal grid.
func (pos Pos) Distance(pos2 Pos) int {
	dq, dr := pos[0]-pos2[0], pos[1]-pos2[1]
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// SortPositions sorts in place by q first and then r.
func SortPositions(positions []Pos) {
	slices.SortFunc(positions, Pos.Compare)
}

// PosStrings converts the positions to strings.
func PosStrings(poss []Pos) []string {
	strs := make([]string, len(poss))
	for ii, pos := range poss {
		strs[ii] = pos.String()
	}
	return strs
}

// Directions holds the six axial offsets to the neighbours of a cell, in clockwise order:
// consecutive entries (modulo 6) are themselves neighbours of each other.
var Directions = [NumNeighbors]Pos{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}}

// Neighbour returns the neighbour in the given direction (index into Directions).
func (pos Pos) Neighbour(direction int) Pos {
	return pos.Add(Directions[direction])
}

// Neighbours returns the 6 neighbour positions of the reference position, independent of
// the board contents.
//
// The list is ordered to match Directions. So if one takes Neighbours()[2] multiple
// times, one would move in straight line in the map.
func (pos Pos) Neighbours() [NumNeighbors]Pos {
	var neighbours [NumNeighbors]Pos
	for ii, delta := range Directions {
		neighbours[ii] = pos.Add(delta)
	}
	return neighbours
}

// NeighboursIter iterates over the 6 neighbour positions of the reference position, in the
// same order as Neighbours.
func (pos Pos) NeighboursIter() iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for _, delta := range Directions {
			if !yield(pos.Add(delta)) {
				return
			}
		}
	}
}

// IsNeighbour returns whether pos2 is adjacent to pos.
func (pos Pos) IsNeighbour(pos2 Pos) bool {
	return pos.Distance(pos2) == 1
}
