// Package geometry is the polygon kernel underneath mask layouts.
//
// It stores layer-tagged polygons, applies rigid transforms, builds the
// rectangle and ellipse primitives used by device factories, and performs
// boolean set operations (difference, union, xor) on polygon sets.
//
// # Coordinates
//
// All coordinates are in micrometers with the y axis pointing up, which is
// the convention of mask design tools. Angles are in degrees and positive
// angles rotate counter-clockwise.
//
// # Fill Rule
//
// A [Polygon] is a list of closed [Contour] values interpreted with the
// even-odd rule: a contour nested inside another contour is a hole. Boolean
// results from [Difference] and [Union] follow the same convention, so
// polygons with holes (text glyphs, inverted alignment marks) survive any
// number of operations without a separate hole flag.
//
//	a := geometry.Rectangle(10, 10)
//	b := geometry.Rectangle(2, 2).Transform(geometry.Translate(4, 4))
//	frame := geometry.Difference([]geometry.Polygon{a}, []geometry.Polygon{b})
//	fmt.Println(frame.Area()) // 96
package geometry
