// Package astar provides a generic best-first (A*) search engine.
//
// A search domain implements the Map contract: it owns node bookkeeping and
// its open list, and the driver only sequences the operations. Three entry
// points drive a Map:
//
//   - Search: run the algorithm to completion and get the path.
//   - Continue: resume a Map whose open list survived an earlier search.
//   - Stepper: iterate the search one expansion at a time, optionally under
//     an iteration budget, to drive UIs, debugging tools or bounded planning.
//
// Paths come back goal first and end with the start node; Reverse turns one
// into execution order. An empty path means no path exists.
//
// GraphMap adapts any Graph (a neighbor function over comparable nodes) to
// the Map contract. The grid, grid/JumpPointMap, RRA and multi-agent maps
// live in the grid and multiagent packages.
package astar
