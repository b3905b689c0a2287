package device

import (
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
)

// Invert returns a new device holding the complement of d's polygons on
// layer within d's bounding box. The box is grown on each side by
// padding × its size along that axis. Polygons on other layers are left
// out of the subtraction.
//
// The result is empty when the layer already covers the whole box.
func (d *Device) Invert(layer geometry.Layer, padding float64) (*Device, error) {
	if err := errors.ValidateLayer(int(layer)); err != nil {
		return nil, err
	}
	if err := errors.ValidateNonNegative("padding ratio", padding); err != nil {
		return nil, err
	}
	b, err := d.Bounds()
	if err != nil {
		return nil, err
	}
	box := b.Pad(padding*b.XSize(), padding*b.YSize())

	out := New(d.Name + "_inverted")
	diff := geometry.Difference([]geometry.Polygon{box.Polygon()}, d.Polygons(layer))
	if len(diff) > 0 {
		out.shapes = append(out.shapes, geometry.Shape{Layer: layer, Polygon: diff})
	}
	return out, nil
}

// Subtract removes holes from every polygon on layer in d and its
// descendants. Shapes that vanish entirely are dropped.
func (d *Device) Subtract(layer geometry.Layer, holes []geometry.Polygon) {
	if len(holes) == 0 {
		return
	}
	d.Walk(func(n *Device, _ int) {
		kept := n.shapes[:0]
		for _, s := range n.shapes {
			if s.Layer == layer {
				s.Polygon = geometry.Difference([]geometry.Polygon{s.Polygon}, holes)
				if len(s.Polygon) == 0 {
					continue
				}
			}
			kept = append(kept, s)
		}
		n.shapes = kept
	})
}
