// Package recipe describes a whole mask layout in a configuration file and
// builds it.
//
// A recipe names an optional write field, any number of parameter sweeps and
// any number of individually placed devices. Device kinds refer to the
// factories of a [devices.Registry], and every params table is handed to the
// factory unchanged, so recipe keys match the device parameter names:
//
//	name = "etch_slab_demo"
//
//	[write_field]
//	bounding_box_size = 500
//	bounding_box_layer = 255
//	alignment_layer = 1
//	alignment_offset_dx = 235
//	alignment_offset_dy = 235
//
//	[[sweep]]
//	name = "horizontal_sweep"
//	kind = "etch_slab"
//	key_x = "width_slab"
//	linspace_x = [0.5, 7, 7]
//	key_y = "width_slit"
//	linspace_y = [0.5, 7, 7]
//	pitch_x = 30
//	pitch_y = 13
//	equidistant = true
//	move = [-100, 105]
//
//	[sweep.params]
//	expose_layer = 1
//	length_slab = 20
//	label_layer = 254
//
//	[sweep.labels]
//	size = 5
//	distance = 15
//	layer = 1
//
//	[[device]]
//	kind = "arrow"
//	move = [200, 227]
//	params = { fontsize = 45, layer = 4 }
//
// TOML and YAML are both accepted; [Load] picks the decoder from the file
// extension. Unknown keys are rejected so that typos fail loudly.
//
// Placement transforms run in a fixed order: rotate about the origin, then
// recenter (when center is given), then move.
package recipe
