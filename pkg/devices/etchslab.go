package devices

import (
	"fmt"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

// EtchSlab is a pair of parallel slits whose separation defines a
// suspended slab after isotropic etching.
type EtchSlab struct {
	ExposeLayer geometry.Layer
	LabelLayer  geometry.Layer
	LengthSlab  float64
	WidthSlit   float64
	WidthSlab   float64
	ID          string // grid coordinate printed in the annotation
}

// Build returns both slits centered at the origin, running along x. A
// multi-line annotation with the dimensions is attached at the top-left
// corner.
func (e EtchSlab) Build() (*device.Device, error) {
	for _, v := range []struct {
		name string
		v    float64
	}{{"length_slab", e.LengthSlab}, {"width_slit", e.WidthSlit}, {"width_slab", e.WidthSlab}} {
		if err := errors.ValidatePositive(v.name, v.v); err != nil {
			return nil, err
		}
	}
	if err := errors.ValidateLayer(int(e.LabelLayer)); err != nil {
		return nil, err
	}

	d := device.New("etchslab")
	half := e.WidthSlab / 2
	if err := d.AddRect(geometry.R(0, half, e.LengthSlab, half+e.WidthSlit), e.ExposeLayer); err != nil {
		return nil, err
	}
	if err := d.AddRect(geometry.R(0, -half-e.WidthSlit, e.LengthSlab, -half), e.ExposeLayer); err != nil {
		return nil, err
	}

	b, _ := d.Bounds()
	note := fmt.Sprintf("%s\nslab_width = %.2f\nslit_width = %.2f\nslab_length = %.2f",
		e.ID, e.WidthSlab, e.WidthSlit, e.LengthSlab)
	if err := d.Annotate(note, geometry.Pt(b.XMin(), b.YMax()), e.LabelLayer); err != nil {
		return nil, err
	}
	if err := d.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	return d, nil
}

func etchSlabFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	e := EtchSlab{
		ExposeLayer: r.layer("expose_layer"),
		LabelLayer:  r.layerOr("label_layer", 0),
		LengthSlab:  r.float("length_slab"),
		WidthSlit:   r.float("width_slit"),
		WidthSlab:   r.float("width_slab"),
		ID:          r.stringOr("id_string", ""),
	}
	if r.err != nil {
		return nil, r.err
	}
	return e.Build()
}
