package devices

import (
	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

// EllipseArray places one ellipse per center. Rx and Ry hold the radii of
// each ellipse and must have the same length as Centers.
type EllipseArray struct {
	Layer    geometry.Layer
	Centers  []geometry.Point
	Rx, Ry   []float64
	Segments int // vertices per ellipse; geometry.DefaultEllipseSegments when zero
}

// Polygons returns the ellipses without building a device.
func (e EllipseArray) Polygons() ([]geometry.Polygon, error) {
	if len(e.Rx) != len(e.Centers) || len(e.Ry) != len(e.Centers) {
		return nil, errors.New(errors.ErrCodeMismatchedLengths,
			"ellipse array has %d centers, %d x-radii and %d y-radii", len(e.Centers), len(e.Rx), len(e.Ry))
	}
	out := make([]geometry.Polygon, len(e.Centers))
	for i, c := range e.Centers {
		if err := errors.ValidatePositive("ellipse x-radius", e.Rx[i]); err != nil {
			return nil, err
		}
		if err := errors.ValidatePositive("ellipse y-radius", e.Ry[i]); err != nil {
			return nil, err
		}
		out[i] = geometry.Ellipse(c, e.Rx[i], e.Ry[i], e.Segments)
	}
	return out, nil
}

// Build returns the ellipses at their given coordinates.
func (e EllipseArray) Build() (*device.Device, error) {
	polys, err := e.Polygons()
	if err != nil {
		return nil, err
	}
	d := device.New("ellipse_array")
	for _, p := range polys {
		if err := d.AddShape(e.Layer, p); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func ellipseArrayFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	xs, ys := r.floats("centers_x"), r.floats("centers_y")
	e := EllipseArray{
		Layer:    r.layer("layer"),
		Rx:       r.floats("radii_x"),
		Ry:       r.floats("radii_y"),
		Segments: r.intOr("segments", 0),
	}
	if r.err != nil {
		return nil, r.err
	}
	if len(xs) != len(ys) {
		return nil, errors.New(errors.ErrCodeMismatchedLengths, "centers_x has %d entries, centers_y has %d", len(xs), len(ys))
	}
	for i := range xs {
		e.Centers = append(e.Centers, geometry.Pt(xs[i], ys[i]))
	}
	return e.Build()
}

// PhotonicCrystal is a one-dimensional row of elliptical holes along x with
// lattice constant A. Towards the tapered end(s) the hole height shrinks
// linearly from HyInit to HyFinal over NumTaper cells.
type PhotonicCrystal struct {
	Layer    geometry.Layer // holes_layer
	HxInit   float64        // hole width
	HyInit   float64        // hole height in the mirror region
	HyFinal  float64        // hole height at a tapered end
	A        float64        // lattice constant
	NumTaper int
	NumCells int
	Both     bool    // taper both ends; only the right end otherwise
	Dx       float64 // shift of the whole row along x
}

// HoleHeight returns the height of hole i.
func (pc PhotonicCrystal) HoleHeight(i int) float64 {
	e := pc.NumCells - 1 - i
	if pc.Both {
		e = min(i, e)
	}
	if pc.NumTaper <= 0 || e >= pc.NumTaper {
		return pc.HyInit
	}
	return pc.HyFinal + (pc.HyInit-pc.HyFinal)*float64(e)/float64(pc.NumTaper)
}

func (pc PhotonicCrystal) validate() error {
	if pc.NumCells < 1 {
		return errors.New(errors.ErrCodeInvalidParams, "num_cells must be at least 1, got %d", pc.NumCells)
	}
	if pc.NumTaper < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "num_taper must be non-negative, got %d", pc.NumTaper)
	}
	for _, v := range []struct {
		name string
		v    float64
	}{{"a_const", pc.A}, {"hx_init", pc.HxInit}, {"hy_init", pc.HyInit}} {
		if err := errors.ValidatePositive(v.name, v.v); err != nil {
			return err
		}
	}
	if pc.NumTaper > 0 {
		return errors.ValidatePositive("hy_final", pc.HyFinal)
	}
	return nil
}

// Holes returns the hole row centered on (Dx, 0).
func (pc PhotonicCrystal) Holes() ([]geometry.Polygon, error) {
	if err := pc.validate(); err != nil {
		return nil, err
	}
	arr := EllipseArray{Layer: pc.Layer}
	mid := float64(pc.NumCells-1) / 2
	for i := range pc.NumCells {
		arr.Centers = append(arr.Centers, geometry.Pt((float64(i)-mid)*pc.A+pc.Dx, 0))
		arr.Rx = append(arr.Rx, pc.HxInit/2)
		arr.Ry = append(arr.Ry, pc.HoleHeight(i)/2)
	}
	return arr.Polygons()
}

// Build returns the holes as geometry on Layer.
func (pc PhotonicCrystal) Build() (*device.Device, error) {
	holes, err := pc.Holes()
	if err != nil {
		return nil, err
	}
	d := device.New("photonic_crystal")
	for _, h := range holes {
		if err := d.AddShape(pc.Layer, h); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func decodePhotonicCrystal(p params.Params) (PhotonicCrystal, error) {
	r := reader{p: p}
	pc := PhotonicCrystal{
		Layer:    r.layerOr("holes_layer", 0),
		HxInit:   r.float("hx_init"),
		HyInit:   r.float("hy_init"),
		HyFinal:  r.floatOr("hy_final", 0),
		A:        r.float("a_const"),
		NumTaper: r.intOr("num_taper", 0),
		NumCells: r.int("num_cells"),
		Both:     r.boolOr("both", true),
		Dx:       r.floatOr("dx_holes", 0),
	}
	return pc, r.err
}

func photonicCrystalFromParams(p params.Params) (*device.Device, error) {
	pc, err := decodePhotonicCrystal(p)
	if err != nil {
		return nil, err
	}
	return pc.Build()
}

// crystalParam decodes the optional nested photonic_crystal_params table.
func crystalParam(r *reader) *PhotonicCrystal {
	sub, ok := r.sub("photonic_crystal_params")
	if !ok {
		return nil
	}
	pc, err := decodePhotonicCrystal(sub)
	r.keep(err)
	return &pc
}
