package state

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexhive/internal/generics"
)

// SpiderSteps is the exact number of slides of a Spider move.
const SpiderSteps = 3

// canSlide checks whether a piece at srcPos can slide one step in the given direction,
// assuming the piece left vacated (so vacated doesn't count as occupied).
//
// The two cells adjacent to both srcPos and the target form the "gate" of the move:
// if both are occupied the piece would squeeze between them, and if neither is the piece
// would lose touch with the hive during the move. Both are illegal.
func (b *Board) canSlide(srcPos Pos, direction int, vacated Pos) bool {
	occupied := func(pos Pos) bool { return pos != vacated && b.HasPiece(pos) }
	tgtPos := srcPos.Neighbour(direction)
	if occupied(tgtPos) {
		return false
	}
	leftOccupied := occupied(srcPos.Neighbour((direction + 1) % NumNeighbors))
	rightOccupied := occupied(srcPos.Neighbour((direction + NumNeighbors - 1) % NumNeighbors))
	return leftOccupied != rightOccupied
}

// SlideTargets returns the empty neighbouring positions reachable from srcPos with one
// slide, for a piece that left vacated. Positions in skip are not returned.
func (b *Board) SlideTargets(srcPos, vacated Pos, skip generics.Set[Pos]) (poss []Pos) {
	poss = make([]Pos, 0, NumNeighbors)
	for direction := range NumNeighbors {
		tgtPos := srcPos.Neighbour(direction)
		if skip.Has(tgtPos) {
			continue
		}
		if b.canSlide(srcPos, direction, vacated) {
			poss = append(poss, tgtPos)
		}
	}
	return
}

// LegalMoves returns the set of positions the top tile at srcPos can move to. It is empty
// if there is no tile, if lifting it would break the hive, or if it is not free to move.
//
// It doesn't check whose turn it is or whether the owner's Queen is already placed: see
// Game.LegalDestinations for that.
func LegalMoves(b *Board, frontier *Frontier, srcPos Pos) generics.Set[Pos] {
	tile, ok := b.TopAt(srcPos)
	if !ok || b.WouldDisconnect(srcPos) {
		return generics.MakeSet[Pos]()
	}
	var moves []Pos
	switch tile.Species {
	case QueenBee:
		moves = b.queenMoves(srcPos)
	case Beetle:
		moves = b.beetleMoves(srcPos)
	case Spider:
		moves = b.spiderMoves(srcPos)
	case Grasshopper:
		moves = b.grasshopperMoves(srcPos)
	case SoldierAnt:
		moves = b.antMoves(srcPos, frontier)
	default:
		exceptions.Panicf("no move rule for species %s at %s", tile.Species, srcPos)
	}
	return generics.SetWith(moves...)
}

// queenMoves enumerates the valid moves for the Queen located at the given position.
func (b *Board) queenMoves(srcPos Pos) []Pos {
	if b.IsSurrounded(srcPos) {
		return nil
	}
	return b.SlideTargets(srcPos, srcPos, nil)
}

// beetleMoves enumerates the valid moves for the Beetle located at the given position.
func (b *Board) beetleMoves(srcPos Pos) (poss []Pos) {
	neighbours := srcPos.Neighbours()
	if b.IsStacked(srcPos) {
		// On top of the hive it can move anywhere around.
		return neighbours[:]
	}

	// It can climb onto any other piece, and otherwise it slides like the Queen.
	poss = b.OccupiedNeighbours(srcPos)
	poss = append(poss, b.SlideTargets(srcPos, srcPos, nil)...)
	return
}

// spiderMoves enumerates the valid moves for the Spider located at the given position.
func (b *Board) spiderMoves(srcPos Pos) (poss []Pos) {
	if b.IsSurrounded(srcPos) {
		return nil
	}
	endPos := generics.MakeSet[Pos]()
	visitedPath := generics.SetWith(srcPos)
	b.spiderMovesDFS(srcPos, srcPos, SpiderSteps, endPos, visitedPath)
	return endPos.SortedFunc(Pos.Compare)
}

// spiderMovesDFS traverses the slides from pos, without revisiting positions in the current
// path, and collects in endPos the positions reached after exactly depth steps.
func (b *Board) spiderMovesDFS(pos, originalPos Pos, depth int, endPos, visitedPath generics.Set[Pos]) {
	depth--
	for _, next := range b.SlideTargets(pos, originalPos, visitedPath) {
		if depth == 0 {
			endPos.Insert(next)
			continue
		}
		visitedPath.Insert(next)
		b.spiderMovesDFS(next, originalPos, depth, endPos, visitedPath)
		// The same position can be reached through a different path.
		visitedPath.Delete(next)
	}
}

// grasshopperMoves enumerates the valid moves for the Grasshopper located at the given position.
func (b *Board) grasshopperMoves(srcPos Pos) (poss []Pos) {
	for direction := range NumNeighbors {
		steps, tgtPos := b.grasshopperNextFree(srcPos, direction)
		if steps > 0 {
			poss = append(poss, tgtPos)
		}
	}
	return
}

// grasshopperNextFree walks from srcPos in the given direction while positions are occupied,
// and returns the number of occupied positions jumped over and the first empty one.
func (b *Board) grasshopperNextFree(srcPos Pos, direction int) (steps int, tgtPos Pos) {
	for tgtPos = srcPos.Neighbour(direction); b.HasPiece(tgtPos); tgtPos = tgtPos.Neighbour(direction) {
		steps++
	}
	return
}

// antMoves enumerates the valid moves for the Soldier Ant located at the given position:
// any position reachable with a sequence of slides around the hive.
func (b *Board) antMoves(srcPos Pos, frontier *Frontier) (poss []Pos) {
	if b.IsSurrounded(srcPos) {
		return nil
	}

	// BFS over the slides, with the ant lifted from srcPos.
	visited := generics.SetWith(srcPos)
	toVisit := []Pos{srcPos}
	for len(toVisit) > 0 {
		var nextToVisit []Pos
		for _, pos := range toVisit {
			for _, next := range b.SlideTargets(pos, srcPos, visited) {
				visited.Insert(next)
				nextToVisit = append(nextToVisit, next)
			}
		}
		toVisit = nextToVisit
	}

	// Every reachable position borders the hive: it's always a subset of the frontier.
	for pos := range visited {
		if pos != srcPos && frontier.Has(pos) && !b.IsSurrounded(pos) {
			poss = append(poss, pos)
		}
	}
	SortPositions(poss)
	return
}

// PlacementPositions returns where player can place a new piece.
//
// During the first turn (firstTurn), any position in the frontier is valid. Afterwards,
// only positions in the frontier touching a tile of the player. If strict is set, the
// position must also not touch any of the opponent's tiles.
func PlacementPositions(b *Board, frontier *Frontier, player PlayerNum, firstTurn, strict bool) generics.Set[Pos] {
	if firstTurn {
		return frontier.Set()
	}
	return frontier.cells.Filter(func(pos Pos) bool {
		if !b.HasPlayerNeighbour(player, pos) {
			return false
		}
		return !strict || !b.HasPlayerNeighbour(player.Opponent(), pos)
	})
}
