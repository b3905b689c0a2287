package devices_test

import (
	"fmt"

	"github.com/maskwork/ebeam/pkg/devices"
	"github.com/maskwork/ebeam/pkg/params"
)

func ExampleRegistry_Build() {
	reg := devices.Default()
	d, err := reg.Build("etch_slab", params.New(map[string]any{
		"expose_layer": 1,
		"label_layer":  254,
		"length_slab":  20,
		"width_slit":   1,
		"width_slab":   2,
		"id_string":    "A0",
	}))
	if err != nil {
		fmt.Println(err)
		return
	}
	dx, dy, _ := d.Size()
	fmt.Printf("%s: %.0f x %.0f um\n", d.Name, dx, dy)
	// Output: etchslab: 20 x 4 um
}

func ExampleTaperedWaveguide() {
	tw := devices.TaperedWaveguide{
		Layer:         1,
		LenWG:         10,
		HeightWG:      0.4,
		LenTaperLeft:  30,
		LenTaperRight: 60,
		WidthTip:      0.1,
	}
	d, _ := tw.Build()
	for _, p := range d.Ports() {
		fmt.Printf("%s at x=%.0f facing %.0f\n", p.Name, p.Midpoint.X, p.Orientation)
	}
	// Output:
	// port1 at x=-50 facing 180
	// port2 at x=50 facing 0
}
