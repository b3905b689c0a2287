// Package render names the output formats of a composed layout.
//
// The drawing itself lives in two subpackages:
//
//   - [sink]: the layout as geometry (SVG and PNG previews, JSON and
//     MessagePack snapshots)
//   - [hierarchy]: the device instance tree as a Graphviz node-link diagram
//
// This package only holds the shared [Format] vocabulary so that callers such
// as the pipeline and the CLI agree on names and file extensions.
package render
