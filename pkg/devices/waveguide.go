package devices

import (
	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

// Waveguide is a straight rectangular waveguide along x with ports
// "wgport1" (left, facing 180°) and "wgport2" (right, facing 0°).
type Waveguide struct {
	Layer   geometry.Layer
	Length  float64
	Height  float64
	Crystal *PhotonicCrystal // holes etched into the waveguide, optional
}

// Build returns the waveguide centered at the origin.
func (w Waveguide) Build() (*device.Device, error) {
	if err := errors.ValidatePositive("waveguide length", w.Length); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("waveguide height", w.Height); err != nil {
		return nil, err
	}
	d := device.New("waveguide")
	if err := d.AddShape(w.Layer, geometry.Rectangle(w.Length, w.Height)); err != nil {
		return nil, err
	}
	ports := []device.Port{
		{Name: "wgport1", Midpoint: geometry.Pt(0, w.Height/2), Width: w.Height, Orientation: 180},
		{Name: "wgport2", Midpoint: geometry.Pt(w.Length, w.Height/2), Width: w.Height, Orientation: 0},
	}
	for _, p := range ports {
		if err := d.AddPort(p); err != nil {
			return nil, err
		}
	}
	if err := d.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	if w.Crystal != nil {
		holes, err := w.Crystal.Holes()
		if err != nil {
			return nil, err
		}
		d.Subtract(w.Layer, holes)
	}
	return d, nil
}

func waveguideFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	w := Waveguide{
		Layer:  r.layer("layer"),
		Length: r.float("length"),
		Height: r.float("height"),
	}
	w.Crystal = crystalParam(&r)
	if r.err != nil {
		return nil, r.err
	}
	return w.Build()
}

// Taper is a linear transition from width DyMin at x = 0 to DyMax at
// x = Length, symmetric about y = DyMin/2. Its ports are "tpport1" on the
// narrow end and "tpport2" on the wide end. The taper is not recentered so
// that the narrow end stays at the origin.
type Taper struct {
	Layer  geometry.Layer
	Length float64
	DyMin  float64
	DyMax  float64
}

// Build returns the taper polygon with its ports.
func (t Taper) Build() (*device.Device, error) {
	for _, v := range []struct {
		name string
		v    float64
	}{{"taper length", t.Length}, {"dy_min", t.DyMin}, {"dy_max", t.DyMax}} {
		if err := errors.ValidatePositive(v.name, v.v); err != nil {
			return nil, err
		}
	}
	d := device.New("taper")
	grow := (t.DyMax - t.DyMin) / 2
	err := d.AddPolygon([]geometry.Point{
		{X: 0, Y: 0},
		{X: t.Length, Y: -grow},
		{X: t.Length, Y: t.DyMin + grow},
		{X: 0, Y: t.DyMin},
	}, t.Layer)
	if err != nil {
		return nil, err
	}
	ports := []device.Port{
		{Name: "tpport1", Midpoint: geometry.Pt(0, t.DyMin/2), Width: t.DyMin, Orientation: 180},
		{Name: "tpport2", Midpoint: geometry.Pt(t.Length, t.DyMin/2), Width: t.DyMax, Orientation: 0},
	}
	for _, p := range ports {
		if err := d.AddPort(p); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func taperFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	t := Taper{
		Layer:  r.layer("layer"),
		Length: r.float("length"),
		DyMin:  r.float("dy_min"),
		DyMax:  r.float("dy_max"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return t.Build()
}

// TaperedSupport is a symmetric strip that tapers from Width1 to
// WidthCenter over TaperLength1, runs straight for StraightLengthCenter and
// tapers to Width2 over TaperLength2. Ports "port1" and "port2" sit on the
// two ends.
type TaperedSupport struct {
	Layer                geometry.Layer
	StraightLengthCenter float64
	TaperLength1         float64
	TaperLength2         float64
	Width1               float64
	WidthCenter          float64
	Width2               float64
}

// Build returns the support centered at the origin.
func (s TaperedSupport) Build() (*device.Device, error) {
	for _, v := range []struct {
		name string
		v    float64
	}{{"width_1", s.Width1}, {"width_center", s.WidthCenter}, {"width_2", s.Width2}} {
		if err := errors.ValidatePositive(v.name, v.v); err != nil {
			return nil, err
		}
	}
	for _, v := range []struct {
		name string
		v    float64
	}{{"taper_length_1", s.TaperLength1}, {"taper_length_2", s.TaperLength2}, {"straight_length_center", s.StraightLengthCenter}} {
		if err := errors.ValidateNonNegative(v.name, v.v); err != nil {
			return nil, err
		}
	}
	x1 := s.TaperLength1
	x2 := x1 + s.StraightLengthCenter
	x3 := x2 + s.TaperLength2
	if x3 <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "tapered support has zero length")
	}

	lower := dedupe([]geometry.Point{
		{X: 0, Y: -s.Width1 / 2},
		{X: x1, Y: -s.WidthCenter / 2},
		{X: x2, Y: -s.WidthCenter / 2},
		{X: x3, Y: -s.Width2 / 2},
	})
	outline := append([]geometry.Point(nil), lower...)
	for i := len(lower) - 1; i >= 0; i-- {
		outline = append(outline, geometry.Pt(lower[i].X, -lower[i].Y))
	}

	d := device.New("tapered_support")
	if err := d.AddPolygon(outline, s.Layer); err != nil {
		return nil, err
	}
	ports := []device.Port{
		{Name: "port1", Midpoint: geometry.Pt(0, 0), Width: s.Width1, Orientation: 180},
		{Name: "port2", Midpoint: geometry.Pt(x3, 0), Width: s.Width2, Orientation: 0},
	}
	for _, p := range ports {
		if err := d.AddPort(p); err != nil {
			return nil, err
		}
	}
	if err := d.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	return d, nil
}

// dedupe drops consecutive points that coincide.
func dedupe(pts []geometry.Point) []geometry.Point {
	out := pts[:0:0]
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].NearlyEqual(p, geometry.Eps) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func taperedSupportFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	s := TaperedSupport{
		Layer:                r.layer("layer"),
		StraightLengthCenter: r.floatOr("straight_length_center", 0),
		TaperLength1:         r.float("taper_length_1"),
		TaperLength2:         r.float("taper_length_2"),
		Width1:               r.float("width_1"),
		WidthCenter:          r.float("width_center"),
		Width2:               r.float("width_2"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return s.Build()
}

// TaperedWaveguide is a waveguide section of LenWG with tapers of
// LenTaperLeft and LenTaperRight attached to either end by port connection,
// narrowing to WidthTip. Support anchors can be placed at multiples of
// DxAnchor from the left tip, and a photonic crystal can be etched around
// the center of the waveguide section. The outer taper ports are exposed as
// "port1" and "port2".
type TaperedWaveguide struct {
	Layer         geometry.Layer
	LenWG         float64
	HeightWG      float64
	LenTaperLeft  float64
	LenTaperRight float64
	WidthTip      float64

	Anchors        []int   // anchor positions in units of DxAnchor
	DxAnchor       float64 // anchor pitch
	WidthAnchor    float64 // anchor width at the waveguide
	WidthMaxAnchor float64 // anchor width at its outer end
	LengthAnchor   float64 // anchor length beyond the waveguide edge

	Invert  bool
	Crystal *PhotonicCrystal
}

// Build assembles the structure centered at the origin.
func (t TaperedWaveguide) Build() (*device.Device, error) {
	if err := errors.ValidatePositive("height_wg", t.HeightWG); err != nil {
		return nil, err
	}
	for _, v := range []struct {
		name string
		v    float64
	}{{"len_wg", t.LenWG}, {"len_tp_left", t.LenTaperLeft}, {"len_tp_right", t.LenTaperRight}} {
		if err := errors.ValidateNonNegative(v.name, v.v); err != nil {
			return nil, err
		}
	}

	tw := device.New("tapered_waveguide")
	left := device.Port{Name: "wgport1", Midpoint: geometry.Pt(0, 0), Width: t.HeightWG, Orientation: 180}
	right := device.Port{Name: "wgport2", Midpoint: geometry.Pt(0, 0), Width: t.HeightWG, Orientation: 0}
	if t.LenWG > 0 {
		wg, err := Waveguide{Layer: t.Layer, Length: t.LenWG, Height: t.HeightWG}.Build()
		if err != nil {
			return nil, err
		}
		tw.Add(wg)
		left, _ = wg.Port("wgport1")
		right, _ = wg.Port("wgport2")
	}
	core := geometry.Pt((left.Midpoint.X+right.Midpoint.X)/2, left.Midpoint.Y)

	for _, end := range []struct {
		length float64
		dest   device.Port
		export string
	}{{t.LenTaperLeft, left, "port1"}, {t.LenTaperRight, right, "port2"}} {
		if end.length == 0 {
			end.dest.Name = end.export
			if err := tw.AddPort(end.dest); err != nil {
				return nil, err
			}
			continue
		}
		tp, err := Taper{Layer: t.Layer, Length: end.length, DyMin: t.WidthTip, DyMax: t.HeightWG}.Build()
		if err != nil {
			return nil, err
		}
		if _, err := tw.Add(tp).Connect("tpport2", end.dest); err != nil {
			return nil, err
		}
		if err := tw.ExportPort(tp, "tpport1", end.export); err != nil {
			return nil, err
		}
	}

	if t.Crystal != nil {
		holes, err := t.Crystal.Holes()
		if err != nil {
			return nil, err
		}
		shift := geometry.Translate(core.X, core.Y)
		for i := range holes {
			holes[i] = holes[i].Transform(shift)
		}
		tw.Subtract(t.Layer, holes)
	}

	if len(t.Anchors) > 0 {
		anchors, err := t.anchors(tw, core.Y)
		if err != nil {
			return nil, err
		}
		tw.Add(anchors)
	}

	if t.Invert {
		inv, err := tw.Invert(t.Layer, 0)
		if err != nil {
			return nil, err
		}
		inv.Name = tw.Name
		for _, p := range tw.Ports() {
			if err := inv.AddPort(p); err != nil {
				return nil, err
			}
		}
		tw = inv
	}

	if err := tw.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	return tw, nil
}

// anchors builds the support tethers crossing the waveguide axis at y.
func (t TaperedWaveguide) anchors(tw *device.Device, y float64) (*device.Device, error) {
	for _, v := range []struct {
		name string
		v    float64
	}{{"dx_anchor", t.DxAnchor}, {"width_anchor", t.WidthAnchor}, {"widthmax_anchor", t.WidthMaxAnchor}, {"length_anchor", t.LengthAnchor}} {
		if err := errors.ValidatePositive(v.name, v.v); err != nil {
			return nil, err
		}
	}
	b, err := tw.Bounds()
	if err != nil {
		return nil, err
	}

	out := device.New("anchors")
	reach := t.HeightWG/2 + t.LengthAnchor
	for _, k := range t.Anchors {
		x := b.XMin() + float64(k)*t.DxAnchor
		if k < 0 || x > b.XMax()+geometry.Eps {
			return nil, errors.New(errors.ErrCodeInvalidParams, "anchor %d at x = %v lies outside the waveguide", k, x)
		}
		wa, wm := t.WidthAnchor/2, t.WidthMaxAnchor/2
		for _, sign := range []float64{1, -1} {
			err := out.AddPolygon([]geometry.Point{
				{X: x - wa, Y: y},
				{X: x + wa, Y: y},
				{X: x + wm, Y: y + sign*reach},
				{X: x - wm, Y: y + sign*reach},
			}, t.Layer)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func taperedWaveguideFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	t := TaperedWaveguide{
		Layer:          r.layer("layer"),
		LenWG:          r.floatOr("len_wg", 0),
		HeightWG:       r.float("height_wg"),
		LenTaperLeft:   r.floatOr("len_tp_left", 0),
		LenTaperRight:  r.floatOr("len_tp_right", 0),
		WidthTip:       r.floatOr("width_tp", 0),
		DxAnchor:       r.floatOr("dx_anchor", 0),
		WidthAnchor:    r.floatOr("width_anchor", 0),
		WidthMaxAnchor: r.floatOr("widthmax_anchor", 0),
		LengthAnchor:   r.floatOr("length_anchor", 0),
		Invert:         r.boolOr("invert", false),
	}
	for _, k := range r.floatsOr("which_anchors", nil) {
		if k != float64(int(k)) {
			return nil, errors.New(errors.ErrCodeInvalidParams, "which_anchors entries must be integers, got %v", k)
		}
		t.Anchors = append(t.Anchors, int(k))
	}
	t.Crystal = crystalParam(&r)
	if r.err != nil {
		return nil, r.err
	}
	return t.Build()
}
