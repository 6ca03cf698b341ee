// Package pathutil holds the path helpers shared by the search maps.
package pathutil

// Trace follows parent links from current until a node is its own parent
// (the search root) and returns the visited nodes, current first and root
// last. parentOf reports false when a node has no recorded parent, which
// also ends the trace.
func Trace[N comparable](current N, parentOf func(N) (N, bool)) []N {
	path := []N{current}
	for {
		previous, ok := parentOf(current)
		if !ok || previous == current {
			return path
		}
		path = append(path, previous)
		current = previous
	}
}

// Reversed returns a reversed copy of path.
func Reversed[N any](path []N) []N {
	out := make([]N, len(path))
	for i, j := 0, len(path)-1; j >= 0; i, j = i+1, j-1 {
		out[i] = path[j]
	}
	return out
}
