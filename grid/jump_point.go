package grid

import (
	"errors"
	"fmt"

	astar "github.com/pdrpinto/go-astar"
)

// ErrWeightedTerrain is returned for matrices jump point search cannot
// prune correctly.
var ErrWeightedTerrain = errors.New("grid: jump point search needs unit weights")

var invalidNode = Coord{-1, -1}

// JumpPointMap is a Map whose edges lead to jump points only. Straight and
// diagonal runs without forced neighbors collapse into a single edge.
//
// The goal must be registered with SetGoal before searching so that it is
// recognized as a jump point; FindPath does this.
type JumpPointMap[C astar.Cost] struct {
	*Map[C]
	goal Coord
}

// NewJumpPointMap returns a jump point map over vm. Every passable cell
// must weigh exactly 1.
func NewJumpPointMap[C astar.Cost](vm VertexMatrix[C], opts ...Option) (*JumpPointMap[C], error) {
	for y := 0; y < vm.Height; y++ {
		for x := 0; x < vm.Width; x++ {
			if w := vm.Weight(Coord{x, y}); w >= 0 && w != 1 {
				return nil, fmt.Errorf("%w: cell (%d,%d) weighs %v", ErrWeightedTerrain, x, y, w)
			}
		}
	}
	opts = append(opts, WithDiagonal(true))
	return &JumpPointMap[C]{Map: New(vm, opts...), goal: invalidNode}, nil
}

func (m *JumpPointMap[C]) SetGoal(goal Coord) { m.goal = goal }

// FindPath registers goal and searches from start to it.
func (m *JumpPointMap[C]) FindPath(start, goal Coord, h func(Coord, Coord) C) []Coord {
	m.mustBePassable("start", start)
	m.mustBePassable("goal", goal)
	m.SetGoal(goal)
	return astar.Search[Coord, C](m, start, goal, h)
}

// Edges returns edges to the jump points reachable from n. The start node
// looks in all eight directions; any other node only continues the
// direction it was reached from plus the directions its forced neighbors
// open up.
func (m *JumpPointMap[C]) Edges(n Coord) []astar.Edge[Coord, C] {
	m.expanding(n)

	var edges []astar.Edge[Coord, C]
	parent := m.Node(n).Parent
	if parent == n {
		for _, c := range Neighbors8(n) {
			edges = m.pushJumpPoint(edges, c, n)
		}
		return edges
	}

	dx := (n.X - parent.X) / max(abs(n.X-parent.X), 1)
	dy := (n.Y - parent.Y) / max(abs(n.Y-parent.Y), 1)

	switch {
	case dx != 0 && dy != 0:
		//   - + +          x: obstacle
		//   x n +          +: natural neighbor
		//   p x -          -: forced neighbor
		edges = m.pushJumpPoint(edges, n.Add(dx, 0), n)
		edges = m.pushJumpPoint(edges, n.Add(0, dy), n)
		edges = m.pushJumpPoint(edges, n.Add(dx, dy), n)
		if !m.passable(n.Add(0, -dy)) {
			edges = m.pushJumpPoint(edges, n.Add(dx, -dy), n)
		}
		if !m.passable(n.Add(-dx, 0)) {
			edges = m.pushJumpPoint(edges, n.Add(-dx, dy), n)
		}
	case dx != 0:
		//   x x -
		//   p n +
		//   x x -
		edges = m.pushJumpPoint(edges, n.Add(dx, 0), n)
		if !m.passable(n.Add(0, 1)) {
			edges = m.pushJumpPoint(edges, n.Add(dx, 1), n)
		}
		if !m.passable(n.Add(0, -1)) {
			edges = m.pushJumpPoint(edges, n.Add(dx, -1), n)
		}
	default:
		//   x p x
		//   x n x
		//   - + -
		edges = m.pushJumpPoint(edges, n.Add(0, dy), n)
		if !m.passable(n.Add(1, 0)) {
			edges = m.pushJumpPoint(edges, n.Add(1, dy), n)
		}
		if !m.passable(n.Add(-1, 0)) {
			edges = m.pushJumpPoint(edges, n.Add(-1, dy), n)
		}
	}
	return edges
}

// findJumpPoint walks from p through c until it meets an obstacle, the
// goal or a cell with a forced neighbor.
func (m *JumpPointMap[C]) findJumpPoint(c, p Coord) Coord {
	for {
		if !m.passable(c) {
			return invalidNode
		}
		if c == m.goal {
			return c
		}

		dx, dy := c.X-p.X, c.Y-p.Y
		switch {
		case dx != 0 && dy != 0:
			if (m.passable(c.Add(-dx, dy)) && !m.passable(c.Add(-dx, 0))) ||
				(m.passable(c.Add(dx, -dy)) && !m.passable(c.Add(0, -dy))) {
				return c
			}
			// A straight run out of a diagonal step makes c a turning point.
			if m.findJumpPoint(c.Add(dx, 0), c) != invalidNode ||
				m.findJumpPoint(c.Add(0, dy), c) != invalidNode {
				return c
			}
		case dx != 0:
			if (m.passable(c.Add(dx, 1)) && !m.passable(c.Add(0, 1))) ||
				(m.passable(c.Add(dx, -1)) && !m.passable(c.Add(0, -1))) {
				return c
			}
		default:
			if (m.passable(c.Add(1, dy)) && !m.passable(c.Add(1, 0))) ||
				(m.passable(c.Add(-1, dy)) && !m.passable(c.Add(-1, 0))) {
				return c
			}
		}
		p, c = c, c.Add(dx, dy)
	}
}

// passable ignores weights above 1 on top of walls.
func (m *JumpPointMap[C]) passable(c Coord) bool {
	return m.matrix.IsPassableBelow(c, 1)
}

func (m *JumpPointMap[C]) pushJumpPoint(edges []astar.Edge[Coord, C], c, n Coord) []astar.Edge[Coord, C] {
	if jp := m.findJumpPoint(c, n); jp != invalidNode {
		edges = append(edges, astar.Edge[Coord, C]{From: n, To: jp, Cost: DiagonalDistance[C](n, jp)})
	}
	return edges
}
