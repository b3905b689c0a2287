// Package sink writes composed devices to preview and exchange formats.
//
// # Previews
//
// [RenderSVG] draws every layer as a group of even-odd filled paths, with
// layout y pointing up. [RenderPNG] rasterizes the same picture in pure Go
// with golang.org/x/image/vector, so no external tools are required.
//
//	svg, err := sink.RenderSVG(top, sink.WithScale(2), sink.WithAnnotations())
//	png, err := sink.RenderPNG(top, sink.WithPNGScale(4))
//
// # Snapshots
//
// [Export] flattens a device tree into a [Snapshot]: one [Cell] per device
// instance with its polygons, ports and annotations in layout coordinates.
// Cell IDs are name-based UUIDs derived from the instance path, so the same
// layout always exports the same IDs. Snapshots are written as JSON with
// [RenderJSON] or as MessagePack with [RenderMsgpack], and can be turned back
// into a device tree with [Snapshot.Device].
package sink
