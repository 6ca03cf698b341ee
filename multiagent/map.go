// Package multiagent plans cooperative paths for several agents sharing a
// tile grid.
//
// The search runs on partial turns: each node decides the move of one more
// agent, and the node deciding the last agent of a turn commits every move
// at once. Cooperative A* over such nodes keeps the branching factor at five
// moves per node instead of five to the power of the team size.
package multiagent

import (
	"cmp"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	astar "github.com/pdrpinto/go-astar"
	"github.com/pdrpinto/go-astar/grid"
	"github.com/pdrpinto/go-astar/internal/pathutil"
	"github.com/pdrpinto/go-astar/queue"
)

const (
	// DefaultBatchSize is the number of children an expansion generates
	// before the node goes back to the open list.
	DefaultBatchSize = 2

	openedWarnEvery = 50000
)

// HeuristicKind selects the estimate Plan searches with.
type HeuristicKind uint8

const (
	// RRAHeuristic is HeuristicRRA, the default.
	RRAHeuristic HeuristicKind = iota
	// ManhattanHeuristic is HeuristicManhattan.
	ManhattanHeuristic
	// ZeroHeuristic turns the search into Dijkstra's algorithm. It is slow
	// but optimal for every speed.
	ZeroHeuristic
)

type options struct {
	weight        float64
	heuristic     HeuristicKind
	batch         int
	log           *logrus.Entry
	bucketWidth   float64
	maxExpansions int
}

// Option configures a Map.
type Option func(*options)

// WithWeight scales both heuristics. A weight above 1 trades optimality for
// fewer expansions.
func WithWeight(w float64) Option {
	return func(o *options) { o.weight = w }
}

// WithHeuristic selects the estimate Plan searches with.
func WithHeuristic(k HeuristicKind) Option {
	return func(o *options) { o.heuristic = k }
}

// WithBatchSize sets how many children one expansion generates.
func WithBatchSize(n int) Option {
	return func(o *options) { o.batch = n }
}

func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// WithBucketWidth sets the bucket width of the open list.
func WithBucketWidth(width float64) Option {
	return func(o *options) { o.bucketWidth = width }
}

// WithMaxExpansions bounds the expansions of a Plan call. Zero means no
// limit.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

type nodeHandler struct{}

func (nodeHandler) LessPriority(a, b *Node) bool { return a.Cost > b.Cost }
func (nodeHandler) Priority(a *Node) int         { return a.Cost }
func (nodeHandler) SetPriority(a **Node, p int)  { (*a).Cost = p }

// Map implements astar.Map over *Node for a team of agents on a grid.
//
// Nodes are deduplicated by content: a node generated by Edges is only a
// key, and the Map operates on the instance it stored first.
type Map struct {
	Stats astar.SearchStats

	matrix grid.VertexMatrix[int]
	rra    *grid.RRA[int]
	open   *queue.HotQueue[*Node, int, nodeHandler]
	index  map[uint64][]*Node
	opts   options
	log    *logrus.Entry
}

// New returns a map over vm. Agents move between 4-connected passable cells
// and every step costs one turn whatever the cell weight.
func New(vm grid.VertexMatrix[int], opts ...Option) *Map {
	o := options{weight: 1, batch: DefaultBatchSize, bucketWidth: 1}
	for _, opt := range opts {
		opt(&o)
	}
	o.batch = max(o.batch, 1)
	if o.log == nil {
		o.log = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "multiagent")
	}

	m := &Map{
		matrix: vm,
		rra:    grid.NewRRA(unitMatrix(vm), grid.WithRRALogger(o.log)),
		index:  make(map[uint64][]*Node),
		opts:   o,
		log:    o.log,
	}
	m.open = queue.NewHotQueueOver[*Node, int, nodeHandler](o.bucketWidth, queue.NewStdHeap[*Node, int, nodeHandler]())
	return m
}

// unitMatrix keeps the walls of vm and sets every passable weight to 1, so
// RRA distances count steps.
func unitMatrix(vm grid.VertexMatrix[int]) grid.VertexMatrix[int] {
	cells := vm.Cells()
	for i, w := range cells {
		if w >= 0 {
			cells[i] = 1
		}
	}
	unit, err := grid.NewVertexMatrix(vm.Width, vm.Height, cells)
	if err != nil {
		panic("multiagent: " + err.Error())
	}
	return unit
}

// Reset forgets every node and counter, keeping the RRA distance caches.
func (m *Map) Reset() {
	m.open.Clear()
	m.index = make(map[uint64][]*Node)
	m.Stats.Reset()
}

// Distance returns the number of steps between goal and c, or false when c
// cannot reach goal.
func (m *Map) Distance(goal, c grid.Coord) (int, bool) {
	return m.rra.Search(goal, c, grid.ManhattanDistance[int])
}

// HeuristicRRA sums, over all agents, the exact step distance to the goal
// times the agent's speed. It never overestimates while every agent has
// speed 1. A faster agent can spend fewer than speed turns on a step when
// its cooldown is already running, so with speed above 1 the estimate may
// exceed the true cost and Plan may return a costlier plan than the best.
func (m *Map) HeuristicRRA(n, _ *Node) int {
	return m.estimate(n, func(goal, c grid.Coord) int {
		d, _ := m.Distance(goal, c)
		return d
	})
}

// HeuristicManhattan is HeuristicRRA with walls ignored.
func (m *Map) HeuristicManhattan(n, _ *Node) int {
	return m.estimate(n, grid.ManhattanDistance[int])
}

// HeuristicZero estimates nothing.
func (m *Map) HeuristicZero(_, _ *Node) int { return 0 }

func (m *Map) heuristic() func(n, goal *Node) int {
	switch m.opts.heuristic {
	case ManhattanHeuristic:
		return m.HeuristicManhattan
	case ZeroHeuristic:
		return m.HeuristicZero
	}
	return m.HeuristicRRA
}

func (m *Map) estimate(n *Node, distance func(goal, c grid.Coord) int) int {
	sum := 0
	for _, mv := range n.Planned {
		sum += distance(mv.Agent.Goal, mv.To) * mv.Agent.Speed
	}
	for _, a := range n.Unplanned {
		sum += distance(a.Goal, a.Pos) * a.Speed
	}
	return int(float64(sum) * m.opts.weight)
}

// Edges generates up to a batch of children of from, each deciding the move
// of its first unplanned agent. While candidate moves remain, from goes back
// on the open list at its current cost.
func (m *Map) Edges(from *Node) []astar.Edge[*Node, int] {
	if !from.expanded && len(from.Unplanned) > 0 {
		from.ExpansionList = m.possibleMoves(from.Unplanned[0])
		from.expanded = true
	}

	var edges []astar.Edge[*Node, int]
	for count := m.opts.batch; count > 0 && len(from.ExpansionList) > 0; {
		move := from.ExpansionList[0]
		from.ExpansionList = from.ExpansionList[1:]
		if !legal(move, from) {
			continue
		}
		edges = append(edges, astar.Edge[*Node, int]{From: from, To: child(from, move), Cost: 1})
		count--
	}

	if len(from.ExpansionList) > 0 && from.State != astar.Open {
		m.open.Insert(from)
		from.State = astar.Open
		m.trace("node requeued", from)
	}
	return edges
}

func child(from *Node, move Move) *Node {
	to := &Node{
		Planned:   append(slices.Clone(from.Planned), move),
		Unplanned: slices.Clone(from.Unplanned[1:]),
	}
	if len(to.Unplanned) == 0 {
		to.EndOfTurn = true
		to.Committed = to.Planned
		for _, mv := range to.Committed {
			a := mv.Agent
			a.Pos = mv.To
			if a.Pos != a.Start {
				a.State = Moved
			}
			if a.Pos != a.Goal {
				to.Unplanned = append(to.Unplanned, a)
			}
		}
		to.Planned = nil
	}
	to.rehash()
	return to
}

// possibleMoves lists the moves of a, most promising first. Stepping needs
// a cooled down agent; standing still is always a candidate.
func (m *Map) possibleMoves(a Agent) []Move {
	var moves []Move
	if a.Cooldown <= 0 {
		p := a.Pos
		for _, c := range []grid.Coord{p.Add(1, 0), p.Add(-1, 0), p.Add(0, 1), p.Add(0, -1)} {
			if m.matrix.IsPassable(c) {
				stepped := a
				stepped.Cooldown = a.Speed - 1
				moves = append(moves, Move{Agent: stepped, To: c})
			}
		}
	}
	still := a
	still.Cooldown = max(a.Cooldown-1, 0)
	moves = append(moves, Move{Agent: still, To: a.Pos})

	distance := func(mv Move) int {
		if d, ok := m.Distance(mv.Agent.Goal, mv.To); ok {
			return d
		}
		return math.MaxInt
	}
	slices.SortStableFunc(moves, func(x, y Move) int { return cmp.Compare(distance(x), distance(y)) })
	return moves
}

// legal reports whether move can join the moves already planned in n.
//
// Agents may share their start cell while they wait there, as long as no
// agent steps into it from elsewhere. Otherwise no two agents may end a turn
// in the same cell, two agents may not swap cells, and an agent may not act
// before its predecessor has moved.
func legal(move Move, n *Node) bool {
	if move.Stays() && move.To == move.Agent.Start {
		for _, p := range n.Planned {
			if p.To == move.To && p.To != p.Agent.Start {
				return false
			}
		}
		return true
	}

	pred := move.Agent.Predecessor
	for _, p := range n.Planned {
		if p.To == move.To {
			return false
		}
		if p.Agent.Pos == move.To && p.To == move.Agent.Pos {
			return false
		}
		if p.Agent.ID == pred && p.Agent.State == Unmoved {
			return false
		}
	}
	for _, a := range n.Unplanned {
		if a.ID == pred && a.State == Unmoved {
			return false
		}
	}
	return true
}

// stored returns the indexed node equal to n, or nil.
func (m *Map) stored(n *Node) *Node {
	bucket := m.index[n.hash]
	for _, s := range bucket {
		if s.Equal(n) {
			return s
		}
	}
	if len(bucket) > 0 && m.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		m.log.WithField("hash", n.hash).Debugf("hash collision: %s", n)
	}
	return nil
}

func (m *Map) CurrentCost(n *Node) int { return m.stored(n).G }

func (m *Map) NodesEqual(a, b *Node) bool { return a.Equal(b) }

func (m *Map) OpenNodeAvailable() bool { return !m.open.IsEmpty() }

func (m *Map) IsNodeUnexplored(n *Node) bool { return m.stored(n) == nil }

func (m *Map) IsNodeOpen(n *Node) bool { return m.stored(n).State == astar.Open }

func (m *Map) OpenNode(n *Node, g, h int, parent *Node) {
	n.Parent = parent
	n.G = g
	n.Cost = g + h
	m.open.Insert(n)
	n.State = astar.Open
	m.Stats.Opened++
	if m.stored(n) == nil {
		m.index[n.hash] = append(m.index[n.hash], n)
	}
	m.trace("node opened", n)

	if m.Stats.Opened%openedWarnEvery == 0 {
		m.log.WithFields(logrus.Fields{
			"opened":  m.Stats.Opened,
			"indexed": m.indexed(),
			"open":    m.open.Size(),
		}).Warn("search is growing large")
	}
}

func (m *Map) ReopenNode(n *Node, g, h int, parent *Node) {
	s := m.stored(n)
	s.Parent = parent
	s.G = g
	s.Cost = g + h
	s.Committed = n.Committed
	s.resetExpansion()
	m.open.Insert(s)
	s.State = astar.Open
	m.Stats.Reopened++
	m.trace("node reopened", s)
}

func (m *Map) TakeOutTopNode() *Node {
	n := m.open.RemoveFront()
	n.State = astar.Closed
	m.Stats.Closed++
	m.trace("node removed", n)
	return n
}

func (m *Map) IncreaseNodePriority(n *Node, g, h int, parent *Node) {
	s := m.stored(n)
	m.open.IncreasePriority(s, g+h)
	s.Parent = parent
	s.G = g
	s.Committed = n.Committed
	s.resetExpansion()
	m.Stats.PriorityIncreased++
	m.trace("node priority increased", s)
}

// Path returns the goal-to-start trace of n.
func (m *Map) Path(n *Node) []*Node {
	return pathutil.Trace(n, func(c *Node) (*Node, bool) {
		return c.Parent, c.Parent != nil
	})
}

// Nodes returns every node the search has indexed.
func (m *Map) Nodes() []*Node {
	var nodes []*Node
	for _, bucket := range m.index {
		nodes = append(nodes, bucket...)
	}
	return nodes
}

func (m *Map) indexed() int {
	total := 0
	for _, bucket := range m.index {
		total += len(bucket)
	}
	return total
}

func (m *Map) trace(msg string, n *Node) {
	if m.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		m.log.WithFields(logrus.Fields{"g": n.G, "cost": n.Cost, "hash": n.hash}).Debugf("%s: %s", msg, n)
	}
}

func (m *Map) String() string { return m.Stats.String() }
