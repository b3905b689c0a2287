package device

import (
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
)

// Port is a named anchor on a device edge. Orientation is the direction in
// degrees the port faces, i.e. the outward normal of the connection.
type Port struct {
	Name        string         `json:"name" msgpack:"name"`
	Midpoint    geometry.Point `json:"midpoint" msgpack:"midpoint"`
	Width       float64        `json:"width" msgpack:"width"`
	Orientation float64        `json:"orientation" msgpack:"orientation"`
}

// AddPort registers p on d. Port names are unique per device.
func (d *Device) AddPort(p Port) error {
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s: port name cannot be empty", d.Name)
	}
	if _, ok := d.ports[p.Name]; ok {
		return errors.New(errors.ErrCodeDuplicatePort, "%s: port %q already exists", d.Name, p.Name)
	}
	p.Orientation = geometry.NormalizeAngle(p.Orientation)
	d.ports[p.Name] = &p
	d.order = append(d.order, p.Name)
	return nil
}

// Port returns a copy of the named port.
func (d *Device) Port(name string) (Port, error) {
	p, ok := d.ports[name]
	if !ok {
		return Port{}, errors.New(errors.ErrCodePortNotFound, "%s: no port %q", d.Name, name)
	}
	return *p, nil
}

// Ports returns copies of all ports in registration order.
func (d *Device) Ports() []Port {
	out := make([]Port, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, *d.ports[name])
	}
	return out
}

// ExportPort re-registers port name of child on d as as. The child is
// usually a descendant of d so that the port follows d's coordinates.
func (d *Device) ExportPort(child *Device, name, as string) error {
	p, err := child.Port(name)
	if err != nil {
		return err
	}
	p.Name = as
	return d.AddPort(p)
}

// Connect places d so that its port name sits on dest and faces it: the
// port midpoint moves onto dest.Midpoint and the port orientation becomes
// dest.Orientation + 180. Everything attached to d follows the same rigid
// motion. Port widths are not compared.
func (d *Device) Connect(name string, dest Port) (*Device, error) {
	p, err := d.Port(name)
	if err != nil {
		return nil, err
	}
	turn := geometry.NormalizeAngle(dest.Orientation + 180 - p.Orientation)
	if turn != 0 {
		d.Rotate(turn, p.Midpoint)
	}
	off := dest.Midpoint.Sub(p.Midpoint)
	return d.Move(off.X, off.Y), nil
}
