package sink

import (
	"fmt"
	"image/color"

	"github.com/maskwork/ebeam/pkg/geometry"
)

var palette = []color.NRGBA{
	{0x1f, 0x77, 0xb4, 0xb0},
	{0xff, 0x7f, 0x0e, 0xb0},
	{0x2c, 0xa0, 0x2c, 0xb0},
	{0xd6, 0x27, 0x28, 0xb0},
	{0x94, 0x67, 0xbd, 0xb0},
	{0x8c, 0x56, 0x4b, 0xb0},
	{0xe3, 0x77, 0xc2, 0xb0},
	{0x7f, 0x7f, 0x7f, 0xb0},
	{0xbc, 0xbd, 0x22, 0xb0},
	{0x17, 0xbe, 0xcf, 0xb0},
}

// LayerColor returns the default preview color of a layer.
func LayerColor(l geometry.Layer) color.NRGBA {
	i := int(l) % len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i]
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// frame maps layout coordinates (y up) onto image coordinates (y down).
type frame struct {
	bounds geometry.Rect
	margin float64
	scale  float64
}

func (f frame) width() float64  { return (f.bounds.XSize() + 2*f.margin) * f.scale }
func (f frame) height() float64 { return (f.bounds.YSize() + 2*f.margin) * f.scale }

func (f frame) apply(p geometry.Point) (x, y float64) {
	return (p.X - f.bounds.XMin() + f.margin) * f.scale, (f.bounds.YMax() - p.Y + f.margin) * f.scale
}

// byLayer groups shapes by layer, keeping the requested layers only when
// keep is non-empty.
func byLayer(shapes []geometry.Shape, keep []geometry.Layer) ([]geometry.Layer, map[geometry.Layer][]geometry.Polygon) {
	groups := make(map[geometry.Layer][]geometry.Polygon)
	var order []geometry.Layer
	for _, s := range shapes {
		if len(keep) > 0 && !contains(keep, s.Layer) {
			continue
		}
		if _, ok := groups[s.Layer]; !ok {
			order = append(order, s.Layer)
		}
		groups[s.Layer] = append(groups[s.Layer], s.Polygon)
	}
	sortLayers(order)
	return order, groups
}
