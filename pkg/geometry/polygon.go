package geometry

import (
	"math"
	"slices"
)

// Layer tags geometry for a fabrication step (exposure, etch, labels).
// Layers map directly onto GDSII layer numbers.
type Layer int

// Contour is a closed ring of points. The closing edge from the last point
// back to the first is implicit.
type Contour []Point

// Polygon is a set of contours filled with the even-odd rule.
type Polygon []Contour

// Shape is a polygon placed on a layer.
type Shape struct {
	Layer   Layer   `json:"layer" msgpack:"layer"`
	Polygon Polygon `json:"polygon" msgpack:"polygon"`
}

// SignedArea returns the shoelace area of the contour; positive when the
// points run counter-clockwise.
func (c Contour) SignedArea() float64 {
	var a float64
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Contains reports whether p lies strictly inside the contour.
func (c Contour) Contains(p Point) bool {
	in := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Clone returns a deep copy of the polygon.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	for i, c := range p {
		out[i] = append(Contour(nil), c...)
	}
	return out
}

// Transform returns a copy of the polygon mapped through t.
func (p Polygon) Transform(t Affine) Polygon {
	out := make(Polygon, len(p))
	for i, c := range p {
		cc := make(Contour, len(c))
		for j, pt := range c {
			cc[j] = t.Apply(pt)
		}
		out[i] = cc
	}
	return out
}

// Bounds returns the bounding box of all contour points. ok is false when
// the polygon has no points.
func (p Polygon) Bounds() (r Rect, ok bool) {
	r = Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
	for _, c := range p {
		for _, pt := range c {
			r.Min.X = math.Min(r.Min.X, pt.X)
			r.Min.Y = math.Min(r.Min.Y, pt.Y)
			r.Max.X = math.Max(r.Max.X, pt.X)
			r.Max.Y = math.Max(r.Max.Y, pt.Y)
			ok = true
		}
	}
	if !ok {
		return Rect{}, false
	}
	return r, true
}

// Contains reports whether p is inside the filled region under the
// even-odd rule.
func (p Polygon) Contains(pt Point) bool {
	in := false
	for _, c := range p {
		if c.Contains(pt) {
			in = !in
		}
	}
	return in
}

// Area returns the filled area under the even-odd rule. Contours must not
// cross each other, which holds for kernel primitives and boolean results.
func (p Polygon) Area() float64 {
	var total float64
	for i, c := range p {
		if len(c) < 3 {
			continue
		}
		a := math.Abs(c.SignedArea())
		if p.depth(i)%2 == 1 {
			a = -a
		}
		total += a
	}
	return total
}

// Oriented returns a copy of p with outer contours counter-clockwise and
// holes clockwise, so that nonzero-winding fills agree with even-odd.
func (p Polygon) Oriented() Polygon {
	out := p.Clone()
	for i, c := range out {
		hole := p.depth(i)%2 == 1
		if (c.SignedArea() < 0) != hole {
			slices.Reverse(c)
		}
	}
	return out
}

// depth counts the contours of p enclosing contour i.
func (p Polygon) depth(i int) int {
	n := 0
	for j, other := range p {
		if i != j && containsContour(other, p[i]) {
			n++
		}
	}
	return n
}

// containsContour tests whether inner lies inside outer by probing a point
// just off the first edge of inner.
func containsContour(outer, inner Contour) bool {
	for _, pt := range inner {
		if !onBoundary(outer, pt) {
			return outer.Contains(pt)
		}
	}
	return false
}

func onBoundary(c Contour, p Point) bool {
	for i := range c {
		a, b := c[i], c[(i+1)%len(c)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if math.Abs(cross) > 1e-12*math.Max(1, a.Dist(b)) {
			continue
		}
		if p.X >= math.Min(a.X, b.X)-Eps && p.X <= math.Max(a.X, b.X)+Eps &&
			p.Y >= math.Min(a.Y, b.Y)-Eps && p.Y <= math.Max(a.Y, b.Y)+Eps {
			return true
		}
	}
	return false
}

// BoundsOf returns the union of the bounding boxes of polys.
func BoundsOf(polys ...Polygon) (r Rect, ok bool) {
	for _, p := range polys {
		b, has := p.Bounds()
		if !has {
			continue
		}
		if !ok {
			r, ok = b, true
			continue
		}
		r = r.Union(b)
	}
	return r, ok
}
