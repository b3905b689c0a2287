package geometry

import "math"

// Affine is a 2-D affine transform in row-major form:
//
//	[ A B C ]
//	[ D E F ]
//
// mapping (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine { return Affine{A: 1, E: 1} }

// Translate returns a translation by (dx, dy).
func Translate(dx, dy float64) Affine { return Affine{A: 1, C: dx, E: 1, F: dy} }

// Rotate returns a counter-clockwise rotation by deg degrees about center.
func Rotate(deg float64, center Point) Affine {
	s, c := sincosDeg(deg)
	return Translate(center.X, center.Y).
		Mul(Affine{A: c, B: -s, D: s, E: c}).
		Mul(Translate(-center.X, -center.Y))
}

// Apply maps p through the transform.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two transforms: the result applies u first, then t.
func (t Affine) Mul(u Affine) Affine {
	return Affine{
		A: t.A*u.A + t.B*u.D,
		B: t.A*u.B + t.B*u.E,
		C: t.A*u.C + t.B*u.F + t.C,
		D: t.D*u.A + t.E*u.D,
		E: t.D*u.B + t.E*u.E,
		F: t.D*u.C + t.E*u.F + t.F,
	}
}

// NormalizeAngle maps deg into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360-Eps {
		deg = 0
	}
	return deg
}

// sincosDeg returns exact values for multiples of 90 degrees so that
// quarter-turn rotations of manhattan geometry stay on the grid.
func sincosDeg(deg float64) (sin, cos float64) {
	switch n := NormalizeAngle(deg); n {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	default:
		return math.Sincos(n * math.Pi / 180)
	}
}
