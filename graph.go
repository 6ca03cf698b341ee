package astar

import (
	"github.com/pdrpinto/go-astar/internal/pathutil"
	"github.com/pdrpinto/go-astar/queue"
)

// Graph is generic over node type N.
// N must be comparable so it can be used in maps.
type Graph[N comparable] interface {
	Neighbors(node N) []Neighbor[N]
}

// Neighbor represents a reachable node with a cost.
type Neighbor[N comparable] struct {
	ID   N
	Cost float64
}

// Result contains the outcome of a FindPath call.
type Result[N comparable] struct {
	Path          []N // start to goal
	TotalCost     float64
	ExpandedNodes int
	Found         bool
	Exhausted     bool
	Stats         SearchStats
}

type graphEntry[N comparable] struct {
	node   N
	g, f   float64
	parent N
	state  NodeState
}

type graphEntryHandler[N comparable] struct{}

func (graphEntryHandler[N]) LessPriority(a, b *graphEntry[N]) bool { return CostGreater(a.f, b.f) }
func (graphEntryHandler[N]) Priority(a *graphEntry[N]) float64   { return a.f }
func (graphEntryHandler[N]) SetPriority(a **graphEntry[N], p float64) {
	(*a).f = p
}

// GraphMap implements Map for any Graph. Bookkeeping lives in a Go map
// keyed by node, so the graph can be implicit and unbounded.
type GraphMap[N comparable] struct {
	graph   Graph[N]
	entries map[N]*graphEntry[N]
	open    *queue.HotQueue[*graphEntry[N], float64, graphEntryHandler[N]]
	Stats   SearchStats
}

// NewGraphMap wraps graph. WithBucketWidth tunes the open list; other
// options are ignored.
func NewGraphMap[N comparable](graph Graph[N], options ...Option) *GraphMap[N] {
	opts := applyOptions(options)
	return &GraphMap[N]{
		graph:   graph,
		entries: make(map[N]*graphEntry[N]),
		open:    queue.NewHotQueue[*graphEntry[N], float64, graphEntryHandler[N]](opts.BucketWidth),
	}
}

// Reset forgets all search state.
func (m *GraphMap[N]) Reset() {
	clear(m.entries)
	m.open.Clear()
	m.Stats.Reset()
}

// State returns the search state of n.
func (m *GraphMap[N]) State(n N) NodeState {
	if e, ok := m.entries[n]; ok {
		return e.state
	}
	return Unexplored
}

func (m *GraphMap[N]) CurrentCost(n N) float64 {
	if e, ok := m.entries[n]; ok {
		return e.g
	}
	return 0
}

func (m *GraphMap[N]) Edges(n N) []Edge[N, float64] {
	neighbors := m.graph.Neighbors(n)
	edges := make([]Edge[N, float64], 0, len(neighbors))
	for _, neighbor := range neighbors {
		edges = append(edges, Edge[N, float64]{From: n, To: neighbor.ID, Cost: neighbor.Cost})
	}
	return edges
}

func (m *GraphMap[N]) NodesEqual(a, b N) bool { return a == b }

func (m *GraphMap[N]) OpenNodeAvailable() bool { return !m.open.IsEmpty() }

func (m *GraphMap[N]) IsNodeUnexplored(n N) bool { return m.State(n) == Unexplored }

func (m *GraphMap[N]) IsNodeOpen(n N) bool { return m.State(n) == Open }

func (m *GraphMap[N]) OpenNode(n N, g, h float64, parent N) {
	e := &graphEntry[N]{node: n, g: g, f: g + h, parent: parent, state: Open}
	m.entries[n] = e
	m.open.Insert(e)
	m.Stats.Opened++
}

func (m *GraphMap[N]) ReopenNode(n N, g, h float64, parent N) {
	e := m.entries[n]
	e.g, e.f, e.parent, e.state = g, g+h, parent, Open
	m.open.Insert(e)
	m.Stats.Reopened++
}

func (m *GraphMap[N]) TakeOutTopNode() N {
	e := m.open.RemoveFront()
	e.state = Closed
	m.Stats.Closed++
	return e.node
}

func (m *GraphMap[N]) IncreaseNodePriority(n N, g, h float64, parent N) {
	e := m.entries[n]
	m.open.IncreasePriority(e, g+h)
	e.g, e.parent = g, parent
	m.Stats.PriorityIncreased++
}

func (m *GraphMap[N]) Path(n N) []N {
	return pathutil.Trace(n, func(c N) (N, bool) {
		e, ok := m.entries[c]
		if !ok {
			return c, false
		}
		return e.parent, true
	})
}

// FindPath searches graph from start to goal and returns the path in
// execution order. WithMaxIterations bounds the search; an exhausted search
// reports Exhausted instead of Found.
func FindPath[N comparable](
	graph Graph[N],
	startNode N,
	goalNode N,
	heuristic Heuristic[N, float64],
	options ...Option,
) Result[N] {
	m := NewGraphMap(graph, options...)
	stepper := NewStepper[N, float64](m, startNode, goalNode, heuristic, options...)
	path, ok := stepper.Run()

	result := Result[N]{
		ExpandedNodes: stepper.Steps(),
		Exhausted:     !ok,
		Stats:         m.Stats,
	}
	if len(path) > 0 {
		result.Found = true
		result.Path = Reverse(path)
		result.TotalCost = m.CurrentCost(goalNode)
	}
	return result
}
