// Package pkg provides the libraries behind ebeam, a parametric mask layout
// engine for electron-beam lithography.
//
// # Overview
//
// A layout is a tree of devices. Each device owns polygons on numbered
// layers, named ports and nested child devices. The pkg directory is
// organized into four areas:
//
//  1. Geometry - [geometry], [device], [text], [fonts], [bitmap]
//  2. Components - [devices] (the parametric catalogue) and [sweep]
//     (parameter sweep arrays with labels)
//  3. Composition - [recipe] (TOML/YAML layout descriptions) and [pipeline]
//     (load, build, render with caching)
//  4. Infrastructure - [cache], [observability], [render], [errors], [params]
//
// # Architecture
//
// The typical data flow:
//
//	recipe.toml / recipe.yaml
//	         ↓
//	    [recipe] package (parse + validate)
//	         ↓
//	    [devices] + [sweep] packages (build the device tree)
//	         ↓
//	    [render] packages (SVG, PNG, JSON, msgpack, hierarchy)
//
// # Quick Start
//
// Building a single device:
//
//	reg := devices.Default()
//	slab, err := reg.Build("etch_slab", params.New(map[string]any{
//	    "expose_layer": 1, "length_slab": 20, "width_slit": 1, "width_slab": 2,
//	}))
//
// Running the full pipeline on a recipe file:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    RecipePath: "mask.toml",
//	    Formats:    []string{"svg", "png"},
//	})
//
// [geometry]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/geometry
// [device]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/device
// [text]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/text
// [fonts]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/fonts
// [bitmap]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/bitmap
// [devices]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/devices
// [sweep]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/sweep
// [recipe]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/recipe
// [pipeline]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/cache
// [observability]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/observability
// [render]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/render
// [errors]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/errors
// [params]: https://pkg.go.dev/github.com/maskwork/ebeam/pkg/params
package pkg
