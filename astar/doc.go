// Package astar searches a uniform grid for the cheapest 8-connected route
// between two cells. A cell may be entered only when its center lies inside
// one of the navigable triangles handed to the search.
//
// It exposes two entry points:
//
//   - Search: run to completion and read a Result.
//   - Stepper: advance one expansion at a time to drive UIs or debugging tools.
//
// Every Search owns its buffers and must be released exactly once.
package astar
