package devices

import (
	"github.com/maskwork/ebeam/pkg/bitmap"
	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/fonts"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

// RenderedText is a block of text written as polygons.
type RenderedText struct {
	Name  string
	Text  string
	Size  float64
	Style fonts.Style
	Layer geometry.Layer
}

// Build returns the text centered at the origin.
func (t RenderedText) Build() (*device.Device, error) {
	name := t.Name
	if name == "" {
		name = "text"
	}
	return device.NewText(name, t.Text, t.Layer, t.Size, t.Style)
}

func decodeText(p params.Params, defText string) (RenderedText, error) {
	r := reader{p: p}
	t := RenderedText{
		Name:  r.stringOr("name", ""),
		Text:  r.stringOr("text", defText),
		Size:  r.float("fontsize"),
		Layer: r.layer("layer"),
	}
	style := r.stringOr("style", "")
	if r.err != nil {
		return t, r.err
	}
	st, err := fonts.ParseStyle(style)
	if err != nil {
		return t, err
	}
	t.Style = st
	if t.Text == "" {
		return t, errors.New(errors.ErrCodeInvalidParams, "missing parameter %q", "text")
	}
	return t, nil
}

func textFromParams(p params.Params) (*device.Device, error) {
	t, err := decodeText(p, "")
	if err != nil {
		return nil, err
	}
	return t.Build()
}

// ArrowGlyph is the text used to draw orientation arrows.
const ArrowGlyph = "→"

// Arrow is a text arrow pointing along Angle (0° points along +x).
type Arrow struct {
	Size  float64
	Style fonts.Style
	Layer geometry.Layer
	Angle float64
}

// Build returns the arrow centered at the origin.
func (a Arrow) Build() (*device.Device, error) {
	d, err := RenderedText{Name: "arrow", Text: ArrowGlyph, Size: a.Size, Style: a.Style, Layer: a.Layer}.Build()
	if err != nil {
		return nil, err
	}
	if a.Angle != 0 {
		d.Rotate(a.Angle, geometry.Point{})
	}
	return d, nil
}

func arrowFromParams(p params.Params) (*device.Device, error) {
	t, err := decodeText(p, ArrowGlyph)
	if err != nil {
		return nil, err
	}
	angle, err := p.FloatOr("angle", 0)
	if err != nil {
		return nil, err
	}
	if t.Text != ArrowGlyph {
		return RenderedText{Name: t.Name, Text: t.Text, Size: t.Size, Style: t.Style, Layer: t.Layer}.Build()
	}
	return Arrow{Size: t.Size, Style: t.Style, Layer: t.Layer, Angle: angle}.Build()
}

// ImageArray writes one PixelSize square per set pixel of a thresholded
// image.
type ImageArray struct {
	Bitmap    *bitmap.Bitmap
	PixelSize float64
	Layer     geometry.Layer
}

// Build returns the pixel array centered at the origin.
func (ia ImageArray) Build() (*device.Device, error) {
	if ia.Bitmap == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image array has no bitmap")
	}
	if err := errors.ValidatePositive("pixel_size", ia.PixelSize); err != nil {
		return nil, err
	}
	d := device.New("image")
	ps := ia.PixelSize
	for row := 0; row < ia.Bitmap.Height; row++ {
		for col := 0; col < ia.Bitmap.Width; col++ {
			if !ia.Bitmap.At(col, row) {
				continue
			}
			x, y := float64(col)*ps, float64(row)*ps
			if err := d.AddRect(geometry.R(x, y, x+ps, y+ps), ia.Layer); err != nil {
				return nil, err
			}
		}
	}
	if err := d.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	return d, nil
}

func imageArrayFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	path := r.string("image")
	opts := bitmap.Options{
		Threshold: r.intOr("threshold", bitmap.DefaultThreshold),
		MaxSize:   r.intOr("max_size", 0),
		Invert:    r.boolOr("invert", false),
	}
	ia := ImageArray{PixelSize: r.float("pixel_size"), Layer: r.layer("layer")}
	if r.err != nil {
		return nil, r.err
	}
	bm, err := bitmap.FromFile(path, opts)
	if err != nil {
		return nil, err
	}
	ia.Bitmap = bm
	return ia.Build()
}
