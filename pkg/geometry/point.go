package geometry

import "math"

// Eps is the tolerance used for floating-point comparisons of coordinates.
const Eps = 1e-9

// Point is a 2-D coordinate or vector.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// NearlyEqual reports whether p and q agree within tol on both axes.
func (p Point) NearlyEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Rect is an axis-aligned rectangle given by its lower-left and upper-right
// corners. A Rect obtained from a bounds computation always has Min <= Max.
type Rect struct {
	Min Point `json:"min" msgpack:"min"`
	Max Point `json:"max" msgpack:"max"`
}

// R builds a Rect from two opposite corners in any order.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: Point{math.Min(x0, x1), math.Min(y0, y1)},
		Max: Point{math.Max(x0, x1), math.Max(y0, y1)},
	}
}

func (r Rect) XMin() float64  { return r.Min.X }
func (r Rect) XMax() float64  { return r.Max.X }
func (r Rect) YMin() float64  { return r.Min.Y }
func (r Rect) YMax() float64  { return r.Max.Y }
func (r Rect) XSize() float64 { return r.Max.X - r.Min.X }
func (r Rect) YSize() float64 { return r.Max.Y - r.Min.Y }

// Center returns the centroid of the rectangle.
func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, s.Min.X), math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{math.Max(r.Max.X, s.Max.X), math.Max(r.Max.Y, s.Max.Y)},
	}
}

// Pad grows the rectangle by dx on the left and right and by dy on the
// bottom and top.
func (r Rect) Pad(dx, dy float64) Rect {
	return Rect{
		Min: Point{r.Min.X - dx, r.Min.Y - dy},
		Max: Point{r.Max.X + dx, r.Max.Y + dy},
	}
}

// Overlaps reports whether the interiors of r and s intersect. Rectangles
// that only share an edge (within Eps) do not overlap.
func (r Rect) Overlaps(s Rect) bool {
	return r.Min.X < s.Max.X-Eps && s.Min.X < r.Max.X-Eps &&
		r.Min.Y < s.Max.Y-Eps && s.Min.Y < r.Max.Y-Eps
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Polygon returns the rectangle as a single counter-clockwise contour.
func (r Rect) Polygon() Polygon {
	return Polygon{Contour{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}}
}
