package geometry

import (
	polyclip "github.com/ctessum/polyclip-go"
)

// Difference returns the region covered by a but not by b.
func Difference(a, b []Polygon) Polygon {
	return construct(polyclip.DIFFERENCE, a, b)
}

// Union returns the region covered by any polygon in a or b.
func Union(a, b []Polygon) Polygon {
	return construct(polyclip.UNION, a, b)
}

// Xor returns the region covered by exactly one of a and b.
func Xor(a, b []Polygon) Polygon {
	return construct(polyclip.XOR, a, b)
}

// Merge flattens polys into a single polygon with overlaps resolved, so the
// result no longer depends on the even-odd parity between input polygons.
func Merge(polys []Polygon) Polygon {
	return construct(polyclip.UNION, polys, nil)
}

func construct(op polyclip.Op, a, b []Polygon) Polygon {
	subject := mergeInto(nil, a)
	clipping := mergeInto(nil, b)
	if len(clipping) == 0 {
		if op == polyclip.INTERSECTION {
			return Polygon{}
		}
		return fromClip(subject)
	}
	if len(subject) == 0 {
		if op == polyclip.UNION || op == polyclip.XOR {
			return fromClip(clipping)
		}
		return Polygon{}
	}
	return fromClip(subject.Construct(op, clipping))
}

// mergeInto unions each polygon into acc so that overlapping inputs are
// treated as covered once rather than toggled by the even-odd rule.
func mergeInto(acc polyclip.Polygon, polys []Polygon) polyclip.Polygon {
	for _, p := range polys {
		pc := toClip(p)
		if len(pc) == 0 {
			continue
		}
		if len(acc) == 0 {
			acc = pc
			continue
		}
		acc = acc.Construct(polyclip.UNION, pc)
	}
	return acc
}

func toClip(p Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(p))
	for _, c := range p {
		if len(c) < 3 {
			continue
		}
		cc := make(polyclip.Contour, len(c))
		for i, pt := range c {
			cc[i] = polyclip.Point{X: pt.X, Y: pt.Y}
		}
		out = append(out, cc)
	}
	return out
}

func fromClip(p polyclip.Polygon) Polygon {
	out := make(Polygon, 0, len(p))
	for _, c := range p {
		if len(c) < 3 {
			continue
		}
		cc := make(Contour, len(c))
		for i, pt := range c {
			cc[i] = Point{X: pt.X, Y: pt.Y}
		}
		out = append(out, cc)
	}
	return out
}
