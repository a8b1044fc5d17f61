package astar

import (
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/grid"
)

const (
	StraightCost = 10
	DiagonalCost = 14
)

// Node is one grid cell with its search bookkeeping.
type Node struct {
	Coordinates grid.Coord
	// Position is the cell center in world space.
	Position geom.Vec2
	// G is the cost from the start, H the estimate to the goal, F their sum.
	G, H, F int
	// Connection is the flat index of the predecessor, -1 for the root.
	Connection int
	Index      int
}

// NewNode builds the node for cell c.
func NewNode(c grid.Coord, g grid.Data) Node {
	return Node{
		Coordinates: c,
		Position:    g.CellCenter(c),
		Connection:  -1,
		Index:       g.FlatIndex(c),
	}
}

// NodeAt builds the node for the cell containing p.
func NodeAt(p geom.Vec2, g grid.Data) Node {
	return NewNode(g.Coordinate(p), g)
}

// invalidNode marks a neighbour slot that falls outside the grid.
var invalidNode = Node{Connection: -1, Index: -1}

// Equal compares cells. Two nodes for the same cell are equal whatever their
// costs or predecessors.
func (n Node) Equal(o Node) bool {
	return n.Coordinates == o.Coordinates
}

// Distance is the octile step cost between two cells: 14 per diagonal step
// and 10 per straight step.
func Distance(a, b Node) int {
	dx := abs(a.Coordinates.X - b.Coordinates.X)
	dy := abs(a.Coordinates.Y - b.Coordinates.Y)
	return DiagonalCost*min(dx, dy) + StraightCost*abs(dx-dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
