// Package text converts strings into filled polygons for mask labels.
//
// Glyph outlines are read from the embedded Go fonts (see package fonts),
// their quadratic and cubic Bézier segments are flattened into straight
// edges within a tolerance, and each glyph becomes one even-odd
// [geometry.Polygon] so that counters (the holes in "A", "O", "8") stay
// open.
//
// The text baseline of the first line sits on y = 0 and the pen starts at
// x = 0. Subsequent lines move down by LineSpacing × Size.
package text

import (
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/fonts"
	"github.com/maskwork/ebeam/pkg/geometry"
)

const (
	// DefaultTolerance is the maximum chord deviation, as a fraction of the
	// font size, used when flattening curves.
	DefaultTolerance = 0.005

	// DefaultLineSpacing is the baseline distance in multiples of Size.
	DefaultLineSpacing = 1.2

	maxCurveSteps = 64
)

// Options configures text rendering.
type Options struct {
	Size        float64     // em size in micrometers
	Style       fonts.Style // typeface, Normal when empty
	Tolerance   float64     // absolute flattening tolerance; Size*DefaultTolerance when zero
	LineSpacing float64     // DefaultLineSpacing when zero
}

// Render returns one polygon per visible glyph of s.
func Render(s string, opts Options) ([]geometry.Polygon, error) {
	if err := errors.ValidatePositive("font size", opts.Size); err != nil {
		return nil, err
	}
	style := opts.Style
	if style == "" {
		style = fonts.Normal
	}
	f, err := fonts.Face(style)
	if err != nil {
		return nil, err
	}

	r := renderer{
		font:  f,
		ppem:  fixed.I(int(f.UnitsPerEm())),
		scale: opts.Size / float64(f.UnitsPerEm()),
		tol:   opts.Tolerance,
	}
	if r.tol <= 0 {
		r.tol = opts.Size * DefaultTolerance
	}
	spacing := opts.LineSpacing
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}

	var out []geometry.Polygon
	for i, line := range strings.Split(s, "\n") {
		polys, err := r.line(line, -float64(i)*spacing*opts.Size)
		if err != nil {
			return nil, err
		}
		out = append(out, polys...)
	}
	return out, nil
}

type renderer struct {
	font  *sfnt.Font
	buf   sfnt.Buffer
	ppem  fixed.Int26_6
	scale float64
	tol   float64
}

func (r *renderer) line(s string, baseline float64) ([]geometry.Polygon, error) {
	var (
		out  []geometry.Polygon
		penX float64
		prev sfnt.GlyphIndex
	)
	for _, ch := range s {
		idx, err := r.font.GlyphIndex(&r.buf, ch)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "look up glyph %q", ch)
		}
		if idx == 0 {
			return nil, errors.New(errors.ErrCodeGlyphNotFound, "font has no glyph for %q", ch)
		}
		if prev != 0 {
			// Kern returns sfnt.ErrNotFound for pairs without an adjustment.
			if k, err := r.font.Kern(&r.buf, prev, idx, r.ppem, font.HintingNone); err == nil {
				penX += r.units(k)
			}
		}

		poly, err := r.glyph(idx, geometry.Pt(penX, baseline))
		if err != nil {
			return nil, err
		}
		if len(poly) > 0 {
			out = append(out, poly)
		}

		adv, err := r.font.GlyphAdvance(&r.buf, idx, r.ppem, font.HintingNone)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "advance for %q", ch)
		}
		penX += r.units(adv)
		prev = idx
	}
	return out, nil
}

func (r *renderer) glyph(idx sfnt.GlyphIndex, origin geometry.Point) (geometry.Polygon, error) {
	segs, err := r.font.LoadGlyph(&r.buf, idx, r.ppem, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load glyph %d", idx)
	}

	var (
		poly geometry.Polygon
		cur  geometry.Contour
		last geometry.Point
	)
	flush := func() {
		if len(cur) > 1 && cur[0].NearlyEqual(cur[len(cur)-1], geometry.Eps) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) >= 3 {
			poly = append(poly, cur)
		}
		cur = nil
	}

	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			last = r.point(seg.Args[0], origin)
			cur = geometry.Contour{last}
		case sfnt.SegmentOpLineTo:
			last = r.point(seg.Args[0], origin)
			cur = append(cur, last)
		case sfnt.SegmentOpQuadTo:
			c, p := r.point(seg.Args[0], origin), r.point(seg.Args[1], origin)
			cur = appendQuad(cur, last, c, p, r.tol)
			last = p
		case sfnt.SegmentOpCubeTo:
			c1, c2, p := r.point(seg.Args[0], origin), r.point(seg.Args[1], origin), r.point(seg.Args[2], origin)
			cur = appendCube(cur, last, c1, c2, p, r.tol)
			last = p
		}
	}
	flush()
	return poly, nil
}

// point converts a glyph-space point (y down) into layout space (y up).
func (r *renderer) point(p fixed.Point26_6, origin geometry.Point) geometry.Point {
	return geometry.Pt(origin.X+r.units(p.X), origin.Y-r.units(p.Y))
}

func (r *renderer) units(v fixed.Int26_6) float64 {
	return float64(v) / 64 * r.scale
}

func appendQuad(c geometry.Contour, p0, p1, p2 geometry.Point, tol float64) geometry.Contour {
	dd := p0.Sub(p1.Scale(2)).Add(p2)
	n := curveSteps(math.Hypot(dd.X, dd.Y)/4, tol)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		c = append(c, geometry.Pt(
			u*u*p0.X+2*u*t*p1.X+t*t*p2.X,
			u*u*p0.Y+2*u*t*p1.Y+t*t*p2.Y,
		))
	}
	return c
}

func appendCube(c geometry.Contour, p0, p1, p2, p3 geometry.Point, tol float64) geometry.Contour {
	d1 := p0.Sub(p1.Scale(2)).Add(p2)
	d2 := p1.Sub(p2.Scale(2)).Add(p3)
	dev := 0.75 * math.Max(math.Hypot(d1.X, d1.Y), math.Hypot(d2.X, d2.Y))
	n := curveSteps(dev, tol)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		c = append(c, geometry.Pt(
			a*p0.X+b*p1.X+cc*p2.X+d*p3.X,
			a*p0.Y+b*p1.Y+cc*p2.Y+d*p3.Y,
		))
	}
	return c
}

// curveSteps picks the segment count so that a curve whose second
// difference scales as dev stays within tol of its chords.
func curveSteps(dev, tol float64) int {
	if dev <= tol {
		return 1
	}
	n := int(math.Ceil(math.Sqrt(dev / tol)))
	return min(max(n, 1), maxCurveSteps)
}
