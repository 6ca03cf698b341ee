package grid

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	astar "github.com/pdrpinto/go-astar"
	"github.com/pdrpinto/go-astar/internal/pathutil"
	"github.com/pdrpinto/go-astar/queue"
)

const (
	// DiagonalWeight is the cost of a diagonal step on a unit cell. Integral
	// cost types truncate it to 1.
	DiagonalWeight = 1.4143
	StraightWeight = 1.0
)

type options struct {
	diagonal    bool
	log         *logrus.Entry
	bucketWidth float64
}

// Option configures a Map.
type Option func(*options)

// WithDiagonal enables or disables diagonal moves. They are enabled by
// default.
func WithDiagonal(enabled bool) Option {
	return func(o *options) { o.diagonal = enabled }
}

// WithLogger sets the entry node traces are written to.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// WithBucketWidth sets the bucket width of the open list.
func WithBucketWidth(width float64) Option {
	return func(o *options) { o.bucketWidth = width }
}

func applyOptions(opts []Option) options {
	o := options{diagonal: true, bucketWidth: queue.DefaultBucketWidth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = defaultLogger()
	}
	return o
}

// Map is a square tile grid implementing astar.Map over Coord nodes.
//
// A Map serves one search from scratch. Reset prepares it for an unrelated
// search; Retarget lets a finished search continue toward another goal.
type Map[C astar.Cost] struct {
	Stats astar.SearchStats

	matrix   VertexMatrix[C]
	nodes    *NodeArray[C]
	open     *queue.HotQueue[*Node[C], C, nodeHandler[C]]
	diagonal bool
	log      *logrus.Entry

	// pending is the node last taken off the open list until it is
	// expanded. A search that stops at its goal leaves it set.
	pending *Node[C]
}

// New returns a map over vm.
func New[C astar.Cost](vm VertexMatrix[C], opts ...Option) *Map[C] {
	o := applyOptions(opts)
	return &Map[C]{
		matrix:   vm,
		nodes:    NewNodeArray[C](vm.Width, vm.Height),
		open:     queue.NewHotQueue[*Node[C], C, nodeHandler[C]](o.bucketWidth),
		diagonal: o.diagonal,
		log:      o.log,
	}
}

// ManhattanDistance is admissible for 4-connected maps.
func ManhattanDistance[C astar.Cost](n0, n1 Coord) C {
	return C(abs(n1.X-n0.X) + abs(n1.Y-n0.Y))
}

// DiagonalDistance (octile distance) is admissible and consistent for
// 8-connected maps.
func DiagonalDistance[C astar.Cost](n0, n1 Coord) C {
	dx, dy := abs(n1.X-n0.X), abs(n1.Y-n0.Y)
	dmin, dmax := min(dx, dy), max(dx, dy)
	return C(dmin)*diagonalWeight[C]() + C(dmax-dmin)*straightWeight[C]()
}

// EuclideanDistance is always admissible but looser than DiagonalDistance.
func EuclideanDistance[C astar.Cost](n0, n1 Coord) C {
	dx, dy := float64(n1.X-n0.X), float64(n1.Y-n0.Y)
	return C(math.Sqrt(dx*dx + dy*dy))
}

func diagonalWeight[C astar.Cost]() C {
	w := float64(DiagonalWeight)
	return C(w)
}

func straightWeight[C astar.Cost]() C {
	w := float64(StraightWeight)
	return C(w)
}

func edgeWeight[C astar.Cost](c0, c1 Coord) C {
	switch abs(c1.X-c0.X) + abs(c1.Y-c0.Y) {
	case 2:
		return diagonalWeight[C]()
	case 1:
		return straightWeight[C]()
	}
	panic(fmt.Sprintf("grid: %v and %v are not adjacent", c0, c1))
}

// Matrix returns the weights the map searches over.
func (m *Map[C]) Matrix() VertexMatrix[C] { return m.matrix }

// Node returns the arena node of c.
func (m *Map[C]) Node(c Coord) *Node[C] { return m.nodes.Node(c) }

// Reset forgets every node, the open list and the counters.
func (m *Map[C]) Reset() {
	m.nodes.Reset()
	m.open.Clear()
	m.Stats.Reset()
	m.pending = nil
}

func (m *Map[C]) CurrentCost(n Coord) C { return m.Node(n).G }

func (m *Map[C]) Edges(n Coord) []astar.Edge[Coord, C] {
	m.expanding(n)

	var coords []Coord
	if m.diagonal {
		coords = Neighbors8(n)
	} else {
		coords = Neighbors4(n)
	}

	edges := make([]astar.Edge[Coord, C], 0, len(coords))
	for _, c := range coords {
		if m.matrix.IsPassable(c) {
			edges = append(edges, astar.Edge[Coord, C]{From: n, To: c, Cost: m.edgeCost(n, c)})
		}
	}
	return edges
}

func (m *Map[C]) edgeCost(n0, n1 Coord) C {
	return m.matrix.Weight(n1) * edgeWeight[C](n0, n1)
}

// expanding records that n, if it is the pending node, is being expanded.
func (m *Map[C]) expanding(n Coord) {
	if m.pending != nil && m.pending.Coord == n {
		m.pending = nil
	}
}

func (m *Map[C]) NodesEqual(n0, n1 Coord) bool { return n0 == n1 }

func (m *Map[C]) OpenNodeAvailable() bool { return !m.open.IsEmpty() }

func (m *Map[C]) IsNodeUnexplored(n Coord) bool { return m.Node(n).State == astar.Unexplored }

func (m *Map[C]) IsNodeOpen(n Coord) bool { return m.Node(n).State == astar.Open }

func (m *Map[C]) OpenNode(n Coord, g, h C, parent Coord) {
	if !m.matrix.IsPassable(n) {
		panic(fmt.Sprintf("grid: cannot open impassable node %v", n))
	}
	nn := m.Node(n)
	nn.Parent = parent
	nn.G = g
	nn.F = g + h
	m.open.Insert(nn)
	nn.State = astar.Open
	m.Stats.Opened++
	m.trace("node inserted", nn)
}

func (m *Map[C]) ReopenNode(n Coord, g, h C, parent Coord) {
	nn := m.Node(n)
	nn.Parent = parent
	nn.G = g
	nn.F = g + h
	m.open.Insert(nn)
	nn.State = astar.Open
	m.Stats.Reopened++
	m.trace("node reopened", nn)
}

func (m *Map[C]) TakeOutTopNode() Coord {
	nn := m.open.RemoveFront()
	nn.State = astar.Closed
	m.pending = nn
	m.Stats.Closed++
	m.trace("front node removed", nn)
	return nn.Coord
}

func (m *Map[C]) IncreaseNodePriority(n Coord, g, h C, parent Coord) {
	nn := m.Node(n)
	nn.Parent = parent
	nn.G = g
	m.open.IncreasePriority(nn, g+h)
	m.Stats.PriorityIncreased++
	m.trace("node priority increased", nn)
}

// Path returns the goal-to-start trace of n and annotates it on the arena
// for String.
func (m *Map[C]) Path(n Coord) []Coord {
	path := pathutil.Trace(n, func(c Coord) (Coord, bool) {
		p := m.Node(c).Parent
		return p, p != NoParent
	})
	for _, c := range path {
		m.Node(c).State = astar.OnPath
	}
	m.Node(n).State = astar.Goal
	m.Node(path[len(path)-1]).State = astar.Start
	return path
}

// FindPath searches from start to goal with heuristic h. It panics when
// either end is off the map or impassable.
func (m *Map[C]) FindPath(start, goal Coord, h func(Coord, Coord) C) []Coord {
	m.mustBePassable("start", start)
	m.mustBePassable("goal", goal)
	return astar.Search[Coord, C](m, start, goal, h)
}

// Retarget re-keys the open list for a search toward goal and returns the
// last node taken out, if it was never expanded, to the open list. After a
// search has stopped at its goal this lets astar.Continue extend the same
// frontier toward goal. h must be consistent.
func (m *Map[C]) Retarget(goal Coord, h func(Coord, Coord) C) {
	var frontier []*Node[C]
	for !m.open.IsEmpty() {
		frontier = append(frontier, m.open.RemoveFront())
	}
	if m.pending != nil {
		m.pending.State = astar.Open
		frontier = append(frontier, m.pending)
		m.pending = nil
	}
	m.open.Clear()
	for _, nn := range frontier {
		nn.F = nn.G + h(nn.Coord, goal)
		m.open.Insert(nn)
	}
	if m.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		m.log.WithFields(logrus.Fields{"goal": goal, "open": len(frontier)}).Debug("open list retargeted")
	}
}

func (m *Map[C]) mustBePassable(what string, c Coord) {
	if !m.matrix.IsPassable(c) {
		panic(fmt.Sprintf("grid: %s %v is off the map or impassable", what, c))
	}
}

func (m *Map[C]) trace(msg string, nn *Node[C]) {
	if m.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		m.log.Debugf("%s: %s", msg, nn)
	}
}

var stateSymbols = [...]byte{' ', 'o', '-', '@', 'S', 'G'}

// String renders the counters followed by the map: x wall, o open,
// - closed, @ on path, S start, G goal.
func (m *Map[C]) String() string {
	var b strings.Builder
	b.WriteString(m.Stats.String())
	b.WriteByte('\n')
	for y := 0; y < m.nodes.Height; y++ {
		for x := 0; x < m.nodes.Width; x++ {
			c := Coord{x, y}
			if m.matrix.Weight(c) < 0 {
				b.WriteByte('x')
			} else {
				b.WriteByte(stateSymbols[m.nodes.Node(c).State])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
