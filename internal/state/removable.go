package state

import (
	"github.com/janpfeifer/hexhive/internal/generics"
)

// IsSurrounded returns whether all 6 neighbours of pos are occupied.
//
// It's used both to check whether a piece is free to move, and to check whether a Queen
// was captured.
func (b *Board) IsSurrounded(pos Pos) bool {
	return b.CountOccupiedNeighbours(pos) == NumNeighbors
}

// WouldDisconnect returns whether lifting the top tile at pos would split the hive in two
// or more disconnected groups.
//
// The board is not modified: the removed position is simply never visited by the flood fill.
// If a tile remains at pos (the top is a Beetle on a stack), or if the tile has no occupied
// neighbours, there is nothing to disconnect and it returns false.
func (b *Board) WouldDisconnect(pos Pos) bool {
	if b.Height(pos) != 1 {
		return false
	}
	neighbours := b.OccupiedNeighbours(pos)
	if len(neighbours) == 0 {
		return false
	}

	// Flood fill the hive from one of the neighbours.
	visited := generics.MakeSet[Pos](b.NumOccupied())
	visited.Insert(pos, neighbours[0])
	queue := []Pos{neighbours[0]}
	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for next := range b.OccupiedNeighboursIter(current) {
			if !visited.Has(next) {
				visited.Insert(next)
				queue = append(queue, next)
			}
		}
	}
	return visited.Len() != b.NumOccupied()
}

// articulationPoints stores the graph used to find the articulation points of the hive.
// Nodes are indices into positions, and the edges of node ii are
// allEdgesTarget[edgesPerNode[ii][0]:edgesPerNode[ii][1]].
type articulationPoints struct {
	positions      []Pos
	allEdgesTarget []int
	edgesPerNode   [][2]int
	tIn, tLow      []int
	isArticulation []bool
}

// RemovablePositions returns the set of occupied positions whose top tile can be lifted
// without breaking the hive: on a connected hive, for every occupied position p,
// RemovablePositions().Has(p) is equivalent to !b.WouldDisconnect(p).
//
// It uses the popular linear algorithm to find the articulation points in a graph, so it's
// much faster than calling WouldDisconnect for every position.
func (b *Board) RemovablePositions() generics.Set[Pos] {
	ap := &articulationPoints{positions: b.OccupiedPositions()}
	numNodes := len(ap.positions)
	posToNode := make(map[Pos]int, numNodes)
	for nodeIdx, pos := range ap.positions {
		posToNode[pos] = nodeIdx
	}

	// Build edges.
	ap.allEdgesTarget = make([]int, 0, NumNeighbors*numNodes)
	ap.edgesPerNode = make([][2]int, numNodes)
	for nodeIdx, pos := range ap.positions {
		ap.edgesPerNode[nodeIdx][0] = len(ap.allEdgesTarget)
		for neighbour := range b.OccupiedNeighboursIter(pos) {
			ap.allEdgesTarget = append(ap.allEdgesTarget, posToNode[neighbour])
		}
		ap.edgesPerNode[nodeIdx][1] = len(ap.allEdgesTarget)
	}

	// Each connected component is searched separately: normally there is only one.
	ap.tIn = make([]int, numNodes)
	ap.tLow = make([]int, numNodes)
	ap.isArticulation = make([]bool, numNodes)
	t := 1
	for root := range numNodes {
		if ap.tIn[root] == 0 {
			t = ap.searchFromRoot(root, t)
		}
	}

	removable := generics.MakeSet[Pos](numNodes)
	for nodeIdx, pos := range ap.positions {
		// Stacked positions remain occupied when the top is lifted.
		if !ap.isArticulation[nodeIdx] || b.IsStacked(pos) {
			removable.Insert(pos)
		}
	}
	return removable
}

// searchFromRoot runs the DFS from root and returns the updated time t.
//
// The root is an articulation point if the DFS had to start from it more than once: if
// it were not an articulation point, all nodes would have been reached from the first descendant.
func (ap *articulationPoints) searchFromRoot(root, t int) int {
	ap.tIn[root] = t
	ap.tLow[root] = t
	t++
	dfsChildren := 0
	for _, neighbour := range ap.edges(root) {
		if ap.tIn[neighbour] != 0 {
			continue
		}
		dfsChildren++
		t = ap.dfsVisit(root, neighbour, t)
	}
	ap.isArticulation[root] = dfsChildren > 1
	return t
}

func (ap *articulationPoints) edges(node int) []int {
	return ap.allEdgesTarget[ap.edgesPerNode[node][0]:ap.edgesPerNode[node][1]]
}

// dfsVisit implements the O(N+M) search described in https://cp-algorithms.com/graph/cutpoints.html.
//
// tIn is the time the node was visited, and tLow the time of the earliest node reachable
// through a back-edge from its DFS subtree. It returns the updated time t.
func (ap *articulationPoints) dfsVisit(from, to, t int) int {
	ap.tIn[to] = t
	ap.tLow[to] = t
	t++
	for _, neighbour := range ap.edges(to) {
		if neighbour == from {
			continue
		}
		if ap.tIn[neighbour] != 0 {
			// Back-edge.
			ap.tLow[to] = min(ap.tLow[to], ap.tIn[neighbour])
			continue
		}
		t = ap.dfsVisit(to, neighbour, t)
		ap.tLow[to] = min(ap.tLow[to], ap.tLow[neighbour])
		if ap.tLow[neighbour] >= ap.tIn[to] {
			ap.isArticulation[to] = true
		}
	}
	return t
}

// IsConnected returns whether all occupied positions form a single hive. An empty board is
// considered connected.
func (b *Board) IsConnected() bool {
	if b.IsEmpty() {
		return true
	}
	var start Pos
	for start = range b.OccupiedPositionsIter() {
		break
	}
	visited := generics.SetWith(start)
	queue := []Pos{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range b.OccupiedNeighboursIter(current) {
			if !visited.Has(next) {
				visited.Insert(next)
				queue = append(queue, next)
			}
		}
	}
	return visited.Len() == b.NumOccupied()
}
