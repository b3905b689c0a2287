package recipe

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/devices"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
	"github.com/maskwork/ebeam/pkg/sweep"
)

// imageKey is the parameter holding a bitmap path.
const imageKey = "image"

// BuildOptions configures [Build].
type BuildOptions struct {
	// Registry resolves device kinds. Defaults to [devices.Default].
	Registry *devices.Registry
	Logger   *log.Logger
}

// Build assembles the recipe into one top-level device. The write field
// is added first, then sweeps, then placed devices, in file order.
func Build(r *Recipe, opts BuildOptions) (*device.Device, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if opts.Registry == nil {
		opts.Registry = devices.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	start := time.Now()
	top := device.New(r.Name)

	if r.WriteField != nil {
		wf, err := opts.Registry.Build("write_field", params.New(r.WriteField))
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "write field")
		}
		if _, err := top.Insert(wf); err != nil {
			return nil, err
		}
	}

	for i, s := range r.Sweeps {
		d, err := r.buildSweep(s, opts)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "sweep %d (%s)", i, s.Name)
		}
		if _, err := top.Insert(d); err != nil {
			return nil, err
		}
	}

	for i, p := range r.Devices {
		d, err := r.buildPlacement(p, opts.Registry)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "device %d (%s)", i, p.Kind)
		}
		if _, err := top.Insert(d); err != nil {
			return nil, err
		}
	}

	cells := 0
	top.Walk(func(*device.Device, int) { cells++ })
	opts.Logger.Info("built recipe",
		"recipe", r.Name,
		"sweeps", len(r.Sweeps),
		"devices", len(r.Devices),
		"cells", cells,
		"duration", time.Since(start))
	return top, nil
}

func (r *Recipe) params(m map[string]any) (params.Params, error) {
	p := params.New(m)
	if !p.Has(imageKey) {
		return p, nil
	}
	path, err := p.String(imageKey)
	if err != nil {
		return p, err
	}
	resolved, err := r.resolve(path)
	if err != nil {
		return p, err
	}
	return p.With(imageKey, resolved), nil
}

func (r *Recipe) buildPlacement(pl Placement, reg *devices.Registry) (*device.Device, error) {
	p, err := r.params(pl.Params)
	if err != nil {
		return nil, err
	}
	if pl.Name != "" {
		p = p.With("name", pl.Name)
	}
	d, err := reg.Build(pl.Kind, p)
	if err != nil {
		return nil, err
	}
	return d, place(d, pl.Rotate, pl.Center, pl.Move)
}

func (r *Recipe) buildSweep(s Sweep, opts BuildOptions) (*device.Device, error) {
	if _, err := opts.Registry.Lookup(s.Kind); err != nil {
		return nil, err
	}
	p, err := r.params(s.Params)
	if err != nil {
		return nil, err
	}
	x, y, err := s.Axes()
	if err != nil {
		return nil, err
	}
	cfg := sweep.Config{
		Name:        s.Name,
		Factory:     func(p params.Params) (*device.Device, error) { return opts.Registry.Build(s.Kind, p) },
		Params:      p,
		KeyX:        s.KeyX,
		ValuesX:     x,
		KeyY:        s.KeyY,
		ValuesY:     y,
		PitchX:      s.PitchX,
		PitchY:      s.PitchY,
		Equidistant: s.Equidistant,
		IDKey:       s.IDKey,
		Logger:      opts.Logger,
	}
	if s.Labels != nil {
		if cfg.Labels, err = s.Labels.sweepLabels(); err != nil {
			return nil, err
		}
	}
	d, err := sweep.Build(cfg)
	if err != nil {
		return nil, err
	}
	return d, place(d, s.Rotate, s.Center, s.Move)
}

// place applies rotate, center and move in that order.
func place(d *device.Device, rotate float64, center, move []float64) error {
	if rotate != 0 {
		d.Rotate(rotate, geometry.Point{})
	}
	if len(center) == 2 {
		if err := d.SetCenter(geometry.Pt(center[0], center[1])); err != nil {
			return err
		}
	}
	if len(move) == 2 {
		d.Move(move[0], move[1])
	}
	return nil
}

// String summarizes the recipe for logs.
func (r *Recipe) String() string {
	return fmt.Sprintf("%s (write field: %t, sweeps: %d, devices: %d)",
		r.Name, r.WriteField != nil, len(r.Sweeps), len(r.Devices))
}
