package devices

import (
	"slices"
	"sync"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/params"
)

// Factory builds a device from a parameter dictionary.
type Factory func(params.Params) (*device.Device, error)

// Registry maps device kinds to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) error {
	if err := errors.ValidateName(kind); err != nil {
		return err
	}
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil factory for %q", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
	return nil
}

// Lookup returns the factory registered for kind.
func (r *Registry) Lookup(kind string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownDevice, "unknown device kind %q", kind)
	}
	return f, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Build looks up kind and runs its factory on p. Errors are annotated with
// the kind. A "name" parameter, when present, overrides the device name.
func (r *Registry) Build(kind string, p params.Params) (*device.Device, error) {
	f, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	d, err := f(p)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return nil, errors.Wrap(code, err, "build %s", kind)
	}
	if name, _ := p.StringOr("name", ""); name != "" {
		d.Name = name
	}
	return d, nil
}

var builtin = map[string]Factory{
	"alignment_mark":    alignmentMarkFromParams,
	"arrow":             arrowFromParams,
	"bounding_box":      boundingBoxFromParams,
	"ellipse_array":     ellipseArrayFromParams,
	"etch_slab":         etchSlabFromParams,
	"image_array":       imageArrayFromParams,
	"photonic_crystal":  photonicCrystalFromParams,
	"taper":             taperFromParams,
	"tapered_support":   taperedSupportFromParams,
	"tapered_waveguide": taperedWaveguideFromParams,
	"text":              textFromParams,
	"waveguide":         waveguideFromParams,
	"write_field":       writeFieldFromParams,
}

// Default returns a new registry holding every built-in device kind.
func Default() *Registry {
	r := NewRegistry()
	for k, f := range builtin {
		r.factories[k] = f
	}
	return r
}
