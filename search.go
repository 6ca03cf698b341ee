package astar

import "github.com/pdrpinto/go-astar/internal/pathutil"

// Search runs A* on m from start until goal is taken off the open list.
//
// The returned path is in goal-to-start order, both ends included. An empty
// path means the open list ran dry without reaching goal, which is a normal
// outcome rather than an error.
func Search[N any, C Cost, M Map[N, C]](m M, start, goal N, heuristic func(N, N) C) []N {
	m.OpenNode(start, 0, heuristic(start, goal), start)
	return Continue[N, C](m, goal, heuristic)
}

// Continue runs the A* loop on whatever m's open list already holds. It is
// the resume half of Search, used when a Map keeps its frontier between
// searches.
func Continue[N any, C Cost, M Map[N, C]](m M, goal N, heuristic func(N, N) C) []N {
	for m.OpenNodeAvailable() {
		if _, path, found := expand[N, C](m, goal, heuristic); found {
			return path
		}
	}
	return nil
}

// expand performs one pop+expand cycle.
func expand[N any, C Cost, M Map[N, C]](m M, goal N, heuristic func(N, N) C) (top N, path []N, found bool) {
	top = m.TakeOutTopNode()
	if m.NodesEqual(top, goal) {
		return top, m.Path(top), true
	}

	for _, edge := range m.Edges(top) {
		next := edge.To
		g := m.CurrentCost(top) + edge.Cost
		h := heuristic(next, goal)

		if m.IsNodeUnexplored(next) {
			m.OpenNode(next, g, h, top)
		} else if CostGreater(m.CurrentCost(next), g) {
			if m.IsNodeOpen(next) {
				m.IncreaseNodePriority(next, g, h, top)
			} else {
				// unreachable with a consistent heuristic
				m.ReopenNode(next, g, h, top)
			}
		}
	}
	return top, nil, false
}

// Reverse returns path in execution order (start first) without modifying
// the argument.
func Reverse[N any](path []N) []N {
	return pathutil.Reversed(path)
}
