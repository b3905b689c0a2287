package geometry

import "math"

// DefaultEllipseSegments is the number of vertices used to approximate an
// ellipse when no explicit count is requested.
const DefaultEllipseSegments = 64

// Rectangle returns a w×h rectangle with its lower-left corner at the origin.
func Rectangle(w, h float64) Polygon {
	return R(0, 0, w, h).Polygon()
}

// Ellipse returns an ellipse with the given center and radii approximated
// by segments vertices. Fewer than three segments falls back to
// DefaultEllipseSegments.
func Ellipse(center Point, rx, ry float64, segments int) Polygon {
	if segments < 3 {
		segments = DefaultEllipseSegments
	}
	c := make(Contour, segments)
	for i := range c {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		s, co := math.Sincos(theta)
		c[i] = Point{center.X + rx*co, center.Y + ry*s}
	}
	return Polygon{c}
}
