package grid

import (
	"fmt"
	"strconv"

	astar "github.com/pdrpinto/go-astar"
)

// Node is the per-cell search record kept in a map's arena. Parent refers
// to another node of the same arena by coordinate.
type Node[C astar.Cost] struct {
	Coord  Coord
	G      C // cost from start
	F      C // G plus the heuristic estimate
	State  astar.NodeState
	Parent Coord
}

func (n *Node[C]) String() string {
	return fmt.Sprintf("%v<-%v g:%s f:%s", n.Coord, n.Parent, formatCost(n.G), formatCost(n.F))
}

// formatCost prints six significant digits, the way cost columns are
// usually compared by eye.
func formatCost[C astar.Cost](c C) string {
	return strconv.FormatFloat(float64(c), 'g', 6, 64)
}

type nodeHandler[C astar.Cost] struct{}

func (nodeHandler[C]) LessPriority(a, b *Node[C]) bool { return astar.CostGreater(a.F, b.F) }
func (nodeHandler[C]) Priority(a *Node[C]) C           { return a.F }
func (nodeHandler[C]) SetPriority(a **Node[C], p C)    { (*a).F = p }

// NodeArray is a fixed width*height arena of nodes, allocated once and
// reset in place.
type NodeArray[C astar.Cost] struct {
	Width, Height int
	nodes         []Node[C]
}

func NewNodeArray[C astar.Cost](width, height int) *NodeArray[C] {
	a := &NodeArray[C]{Width: width, Height: height, nodes: make([]Node[C], width*height)}
	a.Reset()
	return a
}

// Reset returns every node to the unexplored state.
func (a *NodeArray[C]) Reset() {
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			a.nodes[y*a.Width+x] = Node[C]{Coord: Coord{x, y}, G: -1, F: -1, Parent: NoParent}
		}
	}
}

// Node returns the arena node of c. It panics when c is off the arena.
func (a *NodeArray[C]) Node(c Coord) *Node[C] {
	if a.Off(c) {
		panic(fmt.Sprintf("grid: node %v is off the %dx%d arena", c, a.Width, a.Height))
	}
	return &a.nodes[c.Y*a.Width+c.X]
}

func (a *NodeArray[C]) Off(c Coord) bool {
	return c.X < 0 || c.X >= a.Width || c.Y < 0 || c.Y >= a.Height
}
