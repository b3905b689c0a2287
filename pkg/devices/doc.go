// Package devices is the catalogue of parametric device families.
//
// Every family is a plain struct describing one device (a waveguide, an
// alignment mark, a write field, ...) with a Build method returning a fresh
// [device.Device]. The same families are reachable by name through a
// [Registry] of [Factory] functions that decode a [params.Params]
// dictionary, which is how sweeps and recipes instantiate devices:
//
//	reg := devices.Default()
//	d, err := reg.Build("etch_slab", params.New(map[string]any{
//		"expose_layer": 1,
//		"label_layer":  254,
//		"length_slab":  20,
//		"width_slit":   1,
//		"width_slab":   2,
//	}))
//
// Parameter names follow the snake_case keys used in recipes. All lengths
// are in micrometers and all angles in degrees. Unless noted otherwise a
// built device is centered at the origin.
package devices
