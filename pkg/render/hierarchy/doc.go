// Package hierarchy draws the instance tree of a composed device as a
// node-link diagram.
//
// [ToDOT] emits Graphviz DOT with one node per device instance and an edge
// from every parent to its children. [RenderSVG] lays the graph out with the
// embedded Graphviz build from github.com/goccy/go-graphviz, so no system
// installation is needed.
//
//	dot := hierarchy.ToDOT(top, hierarchy.Options{Detailed: true, MaxDepth: 2})
//	svg, err := hierarchy.RenderSVG(dot)
//
// Sweeps produce wide trees; MaxDepth folds everything below the given depth
// into a count on the deepest drawn node.
package hierarchy
