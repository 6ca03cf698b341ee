package astar

import (
	"fmt"
	"strings"
)

// Cost is the set of numeric types usable as a path cost.
type Cost interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Epsilon is the tolerance of floating point cost comparisons. Integral
// costs differ by at least one, so the same test is exact for them.
const Epsilon = 1e-5

// CostGreater reports whether c0 exceeds c1 by more than Epsilon.
func CostGreater[C Cost](c0, c1 C) bool { return float64(c0-c1) > Epsilon }

// CostLess reports whether c0 is below c1 by more than Epsilon.
func CostLess[C Cost](c0, c1 C) bool { return float64(c0-c1) < -Epsilon }

// CostEqual reports whether c0 and c1 are within Epsilon of each other.
func CostEqual[C Cost](c0, c1 C) bool { return !CostGreater(c0, c1) && !CostLess(c0, c1) }

// Edge is a directed, weighted transition.
type Edge[N any, C Cost] struct {
	From N
	To   N
	Cost C
}

// Heuristic returns the estimated cost from node a to node b.
// It must never overestimate for the result to be optimal, and must be
// consistent for nodes to never be reopened.
type Heuristic[N any, C Cost] func(from N, to N) C

// NodeState is both the algorithm state of a node and its annotation when
// a search frontier is rendered.
type NodeState uint8

const (
	Unexplored NodeState = iota
	Open
	Closed
	OnPath
	Start
	Goal
)

var nodeStateNames = [...]string{"unexplored", "open", "closed", "on path", "start", "goal"}

func (s NodeState) String() string {
	if int(s) < len(nodeStateNames) {
		return nodeStateNames[s]
	}
	return fmt.Sprintf("NodeState(%d)", s)
}

// Finalized reports whether a node in state s has been expanded or handed
// out in a result, i.e. its cost is final under a consistent heuristic.
func (s NodeState) Finalized() bool { return s >= Closed }

// Map is the search graph contract driven by Search.
//
// A Map owns all per-node bookkeeping (cost, parent, state) and its open
// list. Node identity is decided by NodesEqual, not by Go equality, so
// domains can use pointer nodes with structural identity.
type Map[N any, C Cost] interface {
	// CurrentCost returns the best known cost from start to n (g).
	CurrentCost(n N) C
	// Edges returns the valid transitions out of n.
	Edges(n N) []Edge[N, C]

	NodesEqual(a, b N) bool
	OpenNodeAvailable() bool
	IsNodeUnexplored(n N) bool
	IsNodeOpen(n N) bool

	OpenNode(n N, g, h C, parent N)
	// ReopenNode puts a closed node back on the open list. Only reachable
	// with an inconsistent heuristic.
	ReopenNode(n N, g, h C, parent N)
	// TakeOutTopNode closes and returns the open node with the lowest f.
	TakeOutTopNode() N
	IncreaseNodePriority(n N, g, h C, parent N)

	// Path traces parents from n back to the start node, inclusive.
	Path(n N) []N
}

// SearchStats are the per-search diagnostic counters of a Map.
type SearchStats struct {
	Opened            int
	Closed            int
	Reopened          int
	PriorityIncreased int
}

func (s *SearchStats) Reset() { *s = SearchStats{} }

func (s SearchStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  nodes opened:%d\n", s.Opened)
	fmt.Fprintf(&b, "  nodes closed:%d\n", s.Closed)
	fmt.Fprintf(&b, "  nodes priority increased:%d\n", s.PriorityIncreased)
	fmt.Fprintf(&b, "  nodes reopened:%d\n", s.Reopened)
	return b.String()
}
