package devices

import (
	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/fonts"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

// BoundingBox is the square outline of a write field.
type BoundingBox struct {
	Layer geometry.Layer
	Size  float64
}

// Build returns a Size × Size square centered at the origin.
func (b BoundingBox) Build() (*device.Device, error) {
	if err := errors.ValidatePositive("bounding box size", b.Size); err != nil {
		return nil, err
	}
	d := device.New("writefield_boundingbox")
	h := b.Size / 2
	if err := d.AddRect(geometry.R(-h, -h, h, h), b.Layer); err != nil {
		return nil, err
	}
	return d, nil
}

func boundingBoxFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	b := BoundingBox{Layer: r.layer("layer"), Size: r.float("size")}
	if r.err != nil {
		return nil, r.err
	}
	return b.Build()
}

// Default cross alignment mark dimensions.
const (
	DefaultMarkSmall = 1.75
	DefaultMarkLarge = 1.975
	DefaultMarkSep   = 0.275
)

// AlignmentMark is a checkerboard cross: two large and two small squares
// on the diagonals of a 2×2 grid separated by Sep.
type AlignmentMark struct {
	Layer  geometry.Layer
	Small  float64 // side of the small squares
	Large  float64 // side of the large squares
	Sep    float64 // gap between squares
	Invert bool    // write the complement of the mark within its bounds

	// ExposureBox adds a square on ExposureBoxLayer enclosing the mark with
	// a margin of ExposureBoxDx.
	ExposureBox      bool
	ExposureBoxDx    float64
	ExposureBoxLayer geometry.Layer

	// Dot adds a DotSize square at the cross center on DotLayer.
	Dot      bool
	DotSize  float64
	DotLayer geometry.Layer
}

// NewAlignmentMark returns a mark on layer with the default dimensions.
func NewAlignmentMark(layer geometry.Layer) AlignmentMark {
	return AlignmentMark{Layer: layer, Small: DefaultMarkSmall, Large: DefaultMarkLarge, Sep: DefaultMarkSep}
}

// Build assembles the mark centered at the origin.
func (m AlignmentMark) Build() (*device.Device, error) {
	for _, v := range []struct {
		name string
		v    float64
	}{{"small square", m.Small}, {"large square", m.Large}} {
		if err := errors.ValidatePositive(v.name, v.v); err != nil {
			return nil, err
		}
	}
	if err := errors.ValidateNonNegative("mark separation", m.Sep); err != nil {
		return nil, err
	}
	if m.Dot {
		if err := errors.ValidatePositive("dot size", m.DotSize); err != nil {
			return nil, err
		}
	}

	mark := device.New("alignment_mark")
	squares := []geometry.Rect{
		geometry.R(0, 0, m.Large, m.Large),
		geometry.R(m.Large+m.Sep, 0, m.Large+m.Sep+m.Small, m.Small),
		geometry.R(0, m.Large+m.Sep, m.Small, m.Large+m.Sep+m.Small),
		geometry.R(m.Small+m.Sep, m.Small+m.Sep, m.Small+m.Sep+m.Large, m.Small+m.Sep+m.Large),
	}
	for _, sq := range squares {
		if err := mark.AddRect(sq, m.Layer); err != nil {
			return nil, err
		}
	}
	if m.Invert {
		inv, err := mark.Invert(m.Layer, 0)
		if err != nil {
			return nil, err
		}
		inv.Name = mark.Name
		mark = inv
	}

	b, err := mark.Bounds()
	if err != nil {
		return nil, err
	}
	if m.ExposureBox {
		if err := mark.AddRect(b.Pad(m.ExposureBoxDx, m.ExposureBoxDx), m.ExposureBoxLayer); err != nil {
			return nil, err
		}
	}
	if m.Dot {
		c, h := b.Center(), m.DotSize/2
		if err := mark.AddRect(geometry.R(c.X-h, c.Y-h, c.X+h, c.Y+h), m.DotLayer); err != nil {
			return nil, err
		}
	}
	if err := mark.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	return mark, nil
}

func decodeAlignmentMark(p params.Params, layer geometry.Layer) (AlignmentMark, error) {
	r := reader{p: p}
	m := AlignmentMark{
		Layer:            r.layerOr("layer", layer),
		Small:            r.floatOr("d_small", DefaultMarkSmall),
		Large:            r.floatOr("d_large", DefaultMarkLarge),
		Sep:              r.floatOr("sep", DefaultMarkSep),
		Invert:           r.boolOr("invert", false),
		ExposureBox:      r.boolOr("exposure_box", false),
		ExposureBoxDx:    r.floatOr("exposure_box_dx", 0),
		ExposureBoxLayer: r.layerOr("exposure_box_layer", 0),
		Dot:              r.boolOr("make_dot", false),
		DotSize:          r.floatOr("dot_size", 0),
		DotLayer:         r.layerOr("dot_layer", 0),
	}
	return m, r.err
}

func alignmentMarkFromParams(p params.Params) (*device.Device, error) {
	m, err := decodeAlignmentMark(p, 0)
	if err != nil {
		return nil, err
	}
	return m.Build()
}

// WriteField is a bounding box with one alignment mark near each corner.
type WriteField struct {
	Size           float64
	BoxLayer       geometry.Layer
	AlignmentLayer geometry.Layer
	OffsetX        float64 // mark center distance from the left/right edges
	OffsetY        float64 // mark center distance from the top/bottom edges
	Positive       bool    // invert marks for positive-tone resist
	Mark           *AlignmentMark

	// TextLabel writes Label (or the field name) centered between the two
	// upper marks on TextLabelLayer.
	TextLabel      bool
	Label          string
	TextLabelLayer geometry.Layer
	TextLabelSize  float64
}

// DefaultWriteFieldLabelSize is the font size of a write field label.
const DefaultWriteFieldLabelSize = 10

// Build returns the write field centered at the origin.
func (w WriteField) Build() (*device.Device, error) {
	box, err := BoundingBox{Layer: w.BoxLayer, Size: w.Size}.Build()
	if err != nil {
		return nil, err
	}
	dx, dy := w.Size/2-w.OffsetX, w.Size/2-w.OffsetY
	if dx < 0 || dy < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "alignment offset (%v, %v) exceeds half the write field size %v", w.OffsetX, w.OffsetY, w.Size)
	}

	ms := NewAlignmentMark(w.AlignmentLayer)
	if w.Mark != nil {
		ms = *w.Mark
		ms.Layer = w.AlignmentLayer
	}
	if w.Positive {
		ms.Invert = true
	}
	mark, err := ms.Build()
	if err != nil {
		return nil, err
	}

	wf := device.New("writefield")
	wf.Add(box)
	for _, at := range []geometry.Point{{X: dx, Y: dy}, {X: dx, Y: -dy}, {X: -dx, Y: dy}, {X: -dx, Y: -dy}} {
		wf.AddCopy(mark).Move(at.X, at.Y)
	}

	if w.TextLabel {
		text := w.Label
		if text == "" {
			text = wf.Name
		}
		size := w.TextLabelSize
		if size == 0 {
			size = DefaultWriteFieldLabelSize
		}
		lbl, err := device.NewText("label_"+text, text, w.TextLabelLayer, size, fonts.Normal)
		if err != nil {
			return nil, err
		}
		wf.Add(lbl).Move(0, dy)
	}

	if err := wf.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	return wf, nil
}

func writeFieldFromParams(p params.Params) (*device.Device, error) {
	r := reader{p: p}
	w := WriteField{
		Size:           r.float("bounding_box_size"),
		BoxLayer:       r.layer("bounding_box_layer"),
		AlignmentLayer: r.layer("alignment_layer"),
		OffsetX:        r.float("alignment_offset_dx"),
		OffsetY:        r.float("alignment_offset_dy"),
		Positive:       r.boolOr("positive", false),
		TextLabel:      r.boolOr("add_text_label", false),
		Label:          r.stringOr("text_label", ""),
		TextLabelLayer: r.layerOr("text_label_layer", 0),
		TextLabelSize:  r.floatOr("text_label_size", DefaultWriteFieldLabelSize),
	}
	markParams, ok := r.sub("alignment_mark_params")
	if r.err != nil {
		return nil, r.err
	}
	if ok {
		m, err := decodeAlignmentMark(markParams, w.AlignmentLayer)
		if err != nil {
			return nil, err
		}
		w.Mark = &m
	} else if r.p.Has("exposure_box") {
		// Exposure box settings may also sit at the top level.
		m := NewAlignmentMark(w.AlignmentLayer)
		m.ExposureBox = r.boolOr("exposure_box", false)
		m.ExposureBoxDx = r.floatOr("exposure_box_dx", 0)
		m.ExposureBoxLayer = r.layerOr("exposure_box_layer", 0)
		if r.err != nil {
			return nil, r.err
		}
		w.Mark = &m
	}
	return w.Build()
}
