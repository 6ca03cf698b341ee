package grid

import (
	"github.com/sirupsen/logrus"

	astar "github.com/pdrpinto/go-astar"
)

type rraOptions struct {
	diagonal bool
	log      *logrus.Entry
}

// RRAOption configures an RRA.
type RRAOption func(*rraOptions)

// WithRRADiagonal lets the per-goal searches move diagonally. They are
// 4-connected by default.
func WithRRADiagonal(enabled bool) RRAOption {
	return func(o *rraOptions) { o.diagonal = enabled }
}

func WithRRALogger(log *logrus.Entry) RRAOption {
	return func(o *rraOptions) { o.log = log }
}

type rraSearch[C astar.Cost] struct {
	m       *Map[C]
	started bool
}

// RRA (Reverse Resumable A*) answers exact distance queries toward a fixed
// goal. Each goal gets its own map, searched outward from the goal and
// never discarded: a later query toward the same goal either reads a
// finalized cost off the arena or resumes the frontier the previous query
// left behind.
//
// An RRA is not safe for concurrent use.
type RRA[C astar.Cost] struct {
	matrix   VertexMatrix[C]
	searches map[Coord]*rraSearch[C]
	opts     rraOptions
}

func NewRRA[C astar.Cost](vm VertexMatrix[C], opts ...RRAOption) *RRA[C] {
	o := rraOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "rra")
	}
	return &RRA[C]{matrix: vm, searches: make(map[Coord]*rraSearch[C]), opts: o}
}

// Search returns the cost of the cheapest path from goal to node. Each
// step pays the weight of the cell it enters, so on weighted terrain the
// result is the goal-to-node cost, which matches node-to-goal only when
// weights are uniform. h must be consistent. It reports false when node
// cannot be reached, or either end is off the map or impassable.
func (r *RRA[C]) Search(goal, node Coord, h func(Coord, Coord) C) (C, bool) {
	if !r.matrix.IsPassable(goal) || !r.matrix.IsPassable(node) {
		return 0, false
	}

	s, ok := r.searches[goal]
	if !ok {
		s = &rraSearch[C]{m: New(r.matrix, WithDiagonal(r.opts.diagonal), WithLogger(r.opts.log))}
		r.searches[goal] = s
		r.opts.log.WithField("goal", goal).Debug("RRA: new map created")
	}

	if n := s.m.Node(node); n.State.Finalized() {
		return n.G, true
	}

	var path []Coord
	if !s.started {
		s.started = true
		path = astar.Search[Coord, C](s.m, goal, node, h)
	} else {
		s.m.Retarget(node, h)
		path = astar.Continue[Coord, C](s.m, node, h)
	}
	if len(path) == 0 {
		return 0, false
	}
	return s.m.Node(node).G, true
}

// Stats returns the counters accumulated by the searches toward goal.
func (r *RRA[C]) Stats(goal Coord) astar.SearchStats {
	if s, ok := r.searches[goal]; ok {
		return s.m.Stats
	}
	return astar.SearchStats{}
}
