package state

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// HiveGraphName is the name of the graph generated by HiveGraph.
const HiveGraphName = "hive"

// graphNodeName returns a quoted DOT identifier for the position.
func graphNodeName(pos Pos) string {
	return fmt.Sprintf("%q", fmt.Sprintf("%d,%d", pos.Q(), pos.R()))
}

// HiveGraph returns the adjacency graph of the occupied positions in DOT (Graphviz) format.
// Each node is labeled with its stack of tiles, bottom first. It's used for debugging: the
// hive is connected if and only if the graph is.
func (b *Board) HiveGraph() (string, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName(HiveGraphName); err != nil {
		return "", errors.Wrap(err, "failed to set graph name")
	}
	if err := graph.SetDir(false); err != nil {
		return "", errors.Wrap(err, "failed to set graph as undirected")
	}
	positions := b.OccupiedPositions()
	for _, pos := range positions {
		stack := b.stacks[pos]
		parts := make([]string, len(stack))
		for ii, tile := range stack {
			parts[ii] = tile.String()
		}
		attrs := map[string]string{
			"label": fmt.Sprintf("%q", pos.String()+" "+strings.Join(parts, "/")),
		}
		if len(stack) > 1 {
			attrs["shape"] = "box"
		}
		if err := graph.AddNode(HiveGraphName, graphNodeName(pos), attrs); err != nil {
			return "", errors.Wrapf(err, "failed to add node for %s", pos)
		}
	}
	for _, pos := range positions {
		for neighbour := range b.OccupiedNeighboursIter(pos) {
			// Undirected: only add each edge once.
			if pos.Compare(neighbour) >= 0 {
				continue
			}
			if err := graph.AddEdge(graphNodeName(pos), graphNodeName(neighbour), false, nil); err != nil {
				return "", errors.Wrapf(err, "failed to add edge %s-%s", pos, neighbour)
			}
		}
	}
	return graph.String(), nil
}
