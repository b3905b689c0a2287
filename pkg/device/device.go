package device

import (
	"slices"

	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
)

// Device is a node of the layout tree. The zero value is not usable; create
// devices with [New].
type Device struct {
	Name string

	shapes   []geometry.Shape
	notes    []Annotation
	ports    map[string]*Port
	order    []string
	children []*Device
}

// Annotation is a text note anchored at a point. Annotations travel with
// the device but are not geometry: they are never written by the beam and
// do not count toward the bounding box.
type Annotation struct {
	Text     string         `json:"text" msgpack:"text"`
	Position geometry.Point `json:"position" msgpack:"position"`
	Layer    geometry.Layer `json:"layer" msgpack:"layer"`
}

// New returns an empty device.
func New(name string) *Device {
	return &Device{Name: name, ports: make(map[string]*Port)}
}

// AddShape appends a polygon on layer to the device.
func (d *Device) AddShape(layer geometry.Layer, poly geometry.Polygon) error {
	if err := errors.ValidateLayer(int(layer)); err != nil {
		return err
	}
	if len(poly) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: polygon has no contours", d.Name)
	}
	for _, c := range poly {
		if len(c) < 3 {
			return errors.New(errors.ErrCodeInvalidInput, "%s: contour has %d points, need at least 3", d.Name, len(c))
		}
	}
	d.shapes = append(d.shapes, geometry.Shape{Layer: layer, Polygon: poly.Clone()})
	return nil
}

// AddPolygon appends a simple polygon given by its vertices.
func (d *Device) AddPolygon(points []geometry.Point, layer geometry.Layer) error {
	return d.AddShape(layer, geometry.Polygon{geometry.Contour(points)})
}

// AddRect appends the rectangle r on layer.
func (d *Device) AddRect(r geometry.Rect, layer geometry.Layer) error {
	return d.AddShape(layer, r.Polygon())
}

// Annotate attaches a text note at pos on layer.
func (d *Device) Annotate(text string, pos geometry.Point, layer geometry.Layer) error {
	if err := errors.ValidateLayer(int(layer)); err != nil {
		return err
	}
	d.notes = append(d.notes, Annotation{Text: text, Position: pos, Layer: layer})
	return nil
}

// Annotations returns the notes attached directly to d.
func (d *Device) Annotations() []Annotation { return d.notes }

// Add inserts child by reference and returns it. The child keeps its current
// coordinates, which are interpreted in d's frame. Add does not look for
// cycles; use [Device.Insert] when child may already contain d.
func (d *Device) Add(child *Device) *Device {
	d.children = append(d.children, child)
	return child
}

// Insert is Add with checks: child must be non-nil and must not be d or
// contain d, since a device that holds itself has no finite extent.
func (d *Device) Insert(child *Device) (*Device, error) {
	if child == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: cannot insert a nil device", d.Name)
	}
	if child.contains(d) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: inserting %s would create a cycle", d.Name, child.Name)
	}
	return d.Add(child), nil
}

// contains reports whether target is d or one of its descendants.
func (d *Device) contains(target *Device) bool {
	if d == target {
		return true
	}
	for _, c := range d.children {
		if c.contains(target) {
			return true
		}
	}
	return false
}

// AddCopy inserts a deep copy of child and returns the copy.
func (d *Device) AddCopy(child *Device) *Device {
	return d.Add(child.Clone())
}

// Shapes returns the polygons owned directly by d.
func (d *Device) Shapes() []geometry.Shape { return d.shapes }

// Children returns the direct children of d in insertion order.
func (d *Device) Children() []*Device { return d.children }

// Flatten returns every polygon of d and its descendants.
func (d *Device) Flatten() []geometry.Shape {
	var out []geometry.Shape
	d.Walk(func(n *Device, _ int) {
		out = append(out, n.shapes...)
	})
	return out
}

// Polygons returns every polygon on layer in d and its descendants.
func (d *Device) Polygons(layer geometry.Layer) []geometry.Polygon {
	var out []geometry.Polygon
	for _, s := range d.Flatten() {
		if s.Layer == layer {
			out = append(out, s.Polygon)
		}
	}
	return out
}

// Layers returns the distinct layers used by d and its descendants in
// ascending order.
func (d *Device) Layers() []geometry.Layer {
	var out []geometry.Layer
	for _, s := range d.Flatten() {
		if !slices.Contains(out, s.Layer) {
			out = append(out, s.Layer)
		}
	}
	slices.Sort(out)
	return out
}

// Walk calls fn for d and every descendant, depth first, parents before
// children. depth is 0 for d.
func (d *Device) Walk(fn func(n *Device, depth int)) {
	d.walk(fn, 0)
}

func (d *Device) walk(fn func(*Device, int), depth int) {
	fn(d, depth)
	for _, c := range d.children {
		c.walk(fn, depth+1)
	}
}

// IsEmpty reports whether neither d nor any descendant owns geometry.
func (d *Device) IsEmpty() bool {
	_, ok := d.bounds()
	return !ok
}

// Bounds returns the bounding box of d and all descendants.
func (d *Device) Bounds() (geometry.Rect, error) {
	r, ok := d.bounds()
	if !ok {
		return geometry.Rect{}, errors.New(errors.ErrCodeEmptyGeometry, "device %q has no geometry", d.Name)
	}
	return r, nil
}

func (d *Device) bounds() (r geometry.Rect, ok bool) {
	for _, s := range d.shapes {
		if b, has := s.Polygon.Bounds(); has {
			r, ok = union(r, ok, b)
		}
	}
	for _, c := range d.children {
		if b, has := c.bounds(); has {
			r, ok = union(r, ok, b)
		}
	}
	return r, ok
}

func union(r geometry.Rect, ok bool, b geometry.Rect) (geometry.Rect, bool) {
	if !ok {
		return b, true
	}
	return r.Union(b), true
}

// Size returns the x and y extents of d.
func (d *Device) Size() (dx, dy float64, err error) {
	b, err := d.Bounds()
	if err != nil {
		return 0, 0, err
	}
	return b.XSize(), b.YSize(), nil
}

// Center returns the center of the bounding box of d.
func (d *Device) Center() (geometry.Point, error) {
	b, err := d.Bounds()
	if err != nil {
		return geometry.Point{}, err
	}
	return b.Center(), nil
}

// SetCenter moves d so that the center of its bounding box is at p.
func (d *Device) SetCenter(p geometry.Point) error {
	c, err := d.Center()
	if err != nil {
		return err
	}
	off := p.Sub(c)
	if off.NearlyEqual(geometry.Point{}, geometry.Eps) {
		return nil
	}
	d.Move(off.X, off.Y)
	return nil
}

// Move translates d, its ports and all descendants by (dx, dy).
func (d *Device) Move(dx, dy float64) *Device {
	d.transform(geometry.Translate(dx, dy), 0)
	return d
}

// Rotate rotates d, its ports and all descendants by deg degrees
// counter-clockwise about center.
func (d *Device) Rotate(deg float64, center geometry.Point) *Device {
	d.transform(geometry.Rotate(deg, center), deg)
	return d
}

// transform applies t to every coordinate below d. turn is the rotation
// contained in t, applied to port orientations.
func (d *Device) transform(t geometry.Affine, turn float64) {
	for i := range d.shapes {
		d.shapes[i].Polygon = d.shapes[i].Polygon.Transform(t)
	}
	for i := range d.notes {
		d.notes[i].Position = t.Apply(d.notes[i].Position)
	}
	for _, p := range d.ports {
		p.Midpoint = t.Apply(p.Midpoint)
		if turn != 0 {
			p.Orientation = geometry.NormalizeAngle(p.Orientation + turn)
		}
	}
	for _, c := range d.children {
		c.transform(t, turn)
	}
}

// Clone returns a deep copy of d. Shared children are copied once per
// reference.
func (d *Device) Clone() *Device {
	out := &Device{
		Name:     d.Name,
		shapes:   make([]geometry.Shape, len(d.shapes)),
		notes:    slices.Clone(d.notes),
		ports:    make(map[string]*Port, len(d.ports)),
		order:    slices.Clone(d.order),
		children: make([]*Device, len(d.children)),
	}
	for i, s := range d.shapes {
		out.shapes[i] = geometry.Shape{Layer: s.Layer, Polygon: s.Polygon.Clone()}
	}
	for name, p := range d.ports {
		cp := *p
		out.ports[name] = &cp
	}
	for i, c := range d.children {
		out.children[i] = c.Clone()
	}
	return out
}
