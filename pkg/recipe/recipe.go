package recipe

import (
	"math"
	"path/filepath"
	"slices"

	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/fonts"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/sweep"
)

// DefaultName is the top-level device name when a recipe has none.
const DefaultName = "layout"

// MaxAxisValues bounds the number of values on one sweep axis.
const MaxAxisValues = 10000

// Recipe is a decoded layout description.
type Recipe struct {
	Name       string         `toml:"name" yaml:"name" json:"name"`
	WriteField map[string]any `toml:"write_field" yaml:"write_field" json:"write_field,omitempty"`
	Sweeps     []Sweep        `toml:"sweep" yaml:"sweeps" json:"sweeps,omitempty"`
	Devices    []Placement    `toml:"device" yaml:"devices" json:"devices,omitempty"`

	// Base is the directory relative image paths resolve against. [Load]
	// sets it to the recipe's directory.
	Base string `toml:"-" yaml:"-" json:"-"`
}

// Placement is one device instance.
type Placement struct {
	Kind   string         `toml:"kind" yaml:"kind" json:"kind"`
	Name   string         `toml:"name" yaml:"name" json:"name,omitempty"`
	Params map[string]any `toml:"params" yaml:"params" json:"params,omitempty"`

	Rotate float64   `toml:"rotate" yaml:"rotate" json:"rotate,omitempty"`
	Center []float64 `toml:"center" yaml:"center" json:"center,omitempty"`
	Move   []float64 `toml:"move" yaml:"move" json:"move,omitempty"`
}

// Sweep is one parameter grid.
type Sweep struct {
	Name   string         `toml:"name" yaml:"name" json:"name,omitempty"`
	Kind   string         `toml:"kind" yaml:"kind" json:"kind"`
	Params map[string]any `toml:"params" yaml:"params" json:"params,omitempty"`

	KeyX      string    `toml:"key_x" yaml:"key_x" json:"key_x"`
	ValuesX   []float64 `toml:"values_x" yaml:"values_x" json:"values_x,omitempty"`
	LinspaceX []float64 `toml:"linspace_x" yaml:"linspace_x" json:"linspace_x,omitempty"`
	ReverseX  bool      `toml:"reverse_x" yaml:"reverse_x" json:"reverse_x,omitempty"`
	KeyY      string    `toml:"key_y" yaml:"key_y" json:"key_y"`
	ValuesY   []float64 `toml:"values_y" yaml:"values_y" json:"values_y,omitempty"`
	LinspaceY []float64 `toml:"linspace_y" yaml:"linspace_y" json:"linspace_y,omitempty"`
	ReverseY  bool      `toml:"reverse_y" yaml:"reverse_y" json:"reverse_y,omitempty"`

	PitchX      float64 `toml:"pitch_x" yaml:"pitch_x" json:"pitch_x"`
	PitchY      float64 `toml:"pitch_y" yaml:"pitch_y" json:"pitch_y"`
	Equidistant bool    `toml:"equidistant" yaml:"equidistant" json:"equidistant,omitempty"`
	IDKey       string  `toml:"id_key" yaml:"id_key" json:"id_key,omitempty"`

	Labels *Labels `toml:"labels" yaml:"labels" json:"labels,omitempty"`

	Rotate float64   `toml:"rotate" yaml:"rotate" json:"rotate,omitempty"`
	Center []float64 `toml:"center" yaml:"center" json:"center,omitempty"`
	Move   []float64 `toml:"move" yaml:"move" json:"move,omitempty"`
}

// Labels mirrors [sweep.Labels] with file-friendly types.
type Labels struct {
	Layer         int     `toml:"layer" yaml:"layer" json:"layer"`
	Size          float64 `toml:"size" yaml:"size" json:"size"`
	Style         string  `toml:"style" yaml:"style" json:"style,omitempty"`
	Distance      float64 `toml:"distance" yaml:"distance" json:"distance"`
	RevertNumbers bool    `toml:"revert_numbers" yaml:"revert_numbers" json:"revert_numbers,omitempty"`
	RevertLetters bool    `toml:"revert_letters" yaml:"revert_letters" json:"revert_letters,omitempty"`
}

// Validate checks the recipe and fills in defaults. It does not run any
// device factory.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		r.Name = DefaultName
	}
	if err := errors.ValidateName(r.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "recipe name")
	}
	if r.WriteField == nil && len(r.Sweeps) == 0 && len(r.Devices) == 0 {
		return errors.New(errors.ErrCodeInvalidRecipe, "recipe %s places nothing", r.Name)
	}
	for i := range r.Sweeps {
		if err := r.Sweeps[i].validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "sweep %d", i)
		}
	}
	for i, p := range r.Devices {
		if p.Kind == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "device %d: kind is required", i)
		}
		if err := checkTransform(p.Center, p.Move); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "device %d (%s)", i, p.Kind)
		}
	}
	return nil
}

func (s *Sweep) validate() error {
	if s.Kind == "" {
		return errors.New(errors.ErrCodeInvalidRecipe, "kind is required")
	}
	if s.KeyX == "" || s.KeyY == "" {
		return errors.New(errors.ErrCodeInvalidRecipe, "key_x and key_y are required")
	}
	if _, err := axis("x", s.ValuesX, s.LinspaceX, false); err != nil {
		return err
	}
	if _, err := axis("y", s.ValuesY, s.LinspaceY, false); err != nil {
		return err
	}
	if s.Labels != nil {
		if _, err := fonts.ParseStyle(s.Labels.Style); err != nil {
			return err
		}
	}
	return checkTransform(s.Center, s.Move)
}

// Axes returns the resolved value lists of the sweep.
func (s *Sweep) Axes() (x, y []float64, err error) {
	if x, err = axis("x", s.ValuesX, s.LinspaceX, s.ReverseX); err != nil {
		return nil, nil, err
	}
	if y, err = axis("y", s.ValuesY, s.LinspaceY, s.ReverseY); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func axis(name string, values, lin []float64, reverse bool) ([]float64, error) {
	switch {
	case len(values) > 0 && len(lin) > 0:
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "values_%s and linspace_%s are exclusive", name, name)
	case len(lin) > 0:
		if len(lin) != 3 || lin[2] < 1 || lin[2] != math.Trunc(lin[2]) {
			return nil, errors.New(errors.ErrCodeInvalidRecipe, "linspace_%s must be [start, stop, count] with a positive integer count", name)
		}
		if lin[2] > MaxAxisValues {
			return nil, errors.New(errors.ErrCodeInvalidRecipe, "linspace_%s count %v exceeds %d", name, lin[2], MaxAxisValues)
		}
		values = Linspace(lin[0], lin[1], int(lin[2]))
	case len(values) == 0:
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "axis %s has no values", name)
	case len(values) > MaxAxisValues:
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "values_%s has %d entries, more than %d", name, len(values), MaxAxisValues)
	default:
		values = slices.Clone(values)
	}
	if reverse {
		slices.Reverse(values)
	}
	return values, nil
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

func checkTransform(center, move []float64) error {
	if center != nil && len(center) != 2 {
		return errors.New(errors.ErrCodeInvalidRecipe, "center must be [x, y], got %d values", len(center))
	}
	if move != nil && len(move) != 2 {
		return errors.New(errors.ErrCodeInvalidRecipe, "move must be [x, y], got %d values", len(move))
	}
	return nil
}

func (l *Labels) sweepLabels() (*sweep.Labels, error) {
	style, err := fonts.ParseStyle(l.Style)
	if err != nil {
		return nil, err
	}
	return &sweep.Labels{
		Layer:         geometry.Layer(l.Layer),
		Size:          l.Size,
		Style:         style,
		Distance:      l.Distance,
		RevertNumbers: l.RevertNumbers,
		RevertLetters: l.RevertLetters,
	}, nil
}

// resolve joins a relative image path onto the recipe base. Absolute paths
// and paths escaping the base are rejected.
func (r *Recipe) resolve(path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	if r.Base == "" {
		return path, nil
	}
	return filepath.Join(r.Base, path), nil
}

// Assets returns the resolved paths of every image the recipe reads, in
// file order.
func (r *Recipe) Assets() ([]string, error) {
	var out []string
	add := func(m map[string]any) error {
		path, ok := m[imageKey].(string)
		if !ok {
			return nil
		}
		resolved, err := r.resolve(path)
		if err != nil {
			return err
		}
		out = append(out, resolved)
		return nil
	}
	for _, s := range r.Sweeps {
		if err := add(s.Params); err != nil {
			return nil, err
		}
	}
	for _, p := range r.Devices {
		if err := add(p.Params); err != nil {
			return nil, err
		}
	}
	return out, nil
}
