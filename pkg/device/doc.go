// Package device is the layout composition engine.
//
// A [Device] is a named container of layer-tagged polygons, named [Port]
// anchors, and child devices. Children are stored with their placement
// already applied: moving or rotating a device rewrites the coordinates of
// its own polygons, its ports and every descendant in place, so the whole
// tree always lives in a single coordinate frame and the bounding box is
// simply the union of everything below the device.
//
// # Composition
//
// Devices are assembled bottom-up:
//
//	wg := device.New("waveguide")
//	wg.AddShape(1, geometry.Rectangle(10, 0.5))
//	wg.AddPort(device.Port{Name: "in", Midpoint: geometry.Pt(0, 0.25), Width: 0.5, Orientation: 180})
//
//	top := device.New("top")
//	ref := top.AddCopy(wg)
//	ref.Move(5, 0)
//
// [Device.Add] inserts a child by reference and [Device.AddCopy] inserts a
// deep copy. Placing the same device at several positions requires copies,
// otherwise moving one placement moves them all.
//
// Ports are never inherited from children. A composite that wants to expose
// a child's port re-exports it under a name of its own with
// [Device.ExportPort].
//
// # Placement
//
// [Device.Connect] rotates and translates a device so that one of its ports
// lands on a destination port, facing it. [Device.SetCenter] moves a device
// so that its bounding-box center sits at a given point; composites are
// conventionally centered at the origin before being nested.
//
// # Masks
//
// [Device.Invert] produces the resist-polarity complement of a layer within
// the (optionally padded) bounding box and [Device.AddLabel] attaches
// rendered text next to one side of a device.
//
// Querying the bounds of a device without geometry fails with
// errors.ErrCodeEmptyGeometry.
package device
