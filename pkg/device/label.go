package device

import (
	"strings"

	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/fonts"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/text"
)

// Side selects where a label goes relative to its host.
type Side string

const (
	Left   Side = "left"
	Right  Side = "right"
	Top    Side = "top"
	Bottom Side = "bottom"
)

// ParseSide accepts the full side names and their first letters.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "top", "t":
		return Top, nil
	case "bottom", "b":
		return Bottom, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOrientation, "unknown label side %q (must be one of: left, right, top, bottom)", s)
}

// Label describes text to attach to a device.
type Label struct {
	Text     string
	Layer    geometry.Layer
	Size     float64 // font size
	Distance float64 // gap between host and label bounding boxes
	Style    fonts.Style
}

// NewText renders s as a device named name with its bounding box centered
// at the origin.
func NewText(name, s string, layer geometry.Layer, size float64, style fonts.Style) (*Device, error) {
	if err := errors.ValidateLayer(int(layer)); err != nil {
		return nil, err
	}
	polys, err := text.Render(s, text.Options{Size: size, Style: style})
	if err != nil {
		return nil, err
	}
	out := New(name)
	for _, p := range polys {
		out.shapes = append(out.shapes, geometry.Shape{Layer: layer, Polygon: p})
	}
	if out.IsEmpty() {
		return nil, errors.New(errors.ErrCodeEmptyGeometry, "text %q renders no geometry", s)
	}
	if err := out.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	return out, nil
}

// AddLabel renders l.Text and inserts it as a child of d next to the given
// side. The label is centered on d's bounding box along the other axis and
// separated from d by l.Distance. Nothing is added when an error is
// returned.
func (d *Device) AddLabel(side Side, l Label) error {
	side, err := ParseSide(string(side))
	if err != nil {
		return err
	}
	host, err := d.Bounds()
	if err != nil {
		return err
	}
	lbl, err := NewText("label_"+l.Text, l.Text, l.Layer, l.Size, l.Style)
	if err != nil {
		return err
	}
	lb, err := lbl.Bounds()
	if err != nil {
		return err
	}

	c := host.Center()
	switch side {
	case Left:
		c.X -= (lb.XSize()+host.XSize())/2 + l.Distance
	case Right:
		c.X += (lb.XSize()+host.XSize())/2 + l.Distance
	case Top:
		c.Y += (lb.YSize()+host.YSize())/2 + l.Distance
	case Bottom:
		c.Y -= (lb.YSize()+host.YSize())/2 + l.Distance
	}
	lbl.Move(c.X, c.Y)
	d.Add(lbl)
	return nil
}
