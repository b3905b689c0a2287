// Package params holds the parameter dictionaries that device factories
// consume.
//
// A [Params] value is never modified in place. [Params.With] returns a new
// dictionary sharing nothing with its receiver, so a sweep can derive one
// snapshot per grid cell from a template without any cell observing another
// cell's substitutions.
//
//	base := params.New(map[string]any{"length_slab": 20, "width_slit": 1})
//	cell := base.With("width_slab", 2.5).With("id_string", "A0")
//	w, _ := cell.Float("width_slab") // 2.5
//	_, err := base.Float("width_slab") // missing: base is unchanged
package params

import (
	"fmt"
	"maps"
	"slices"

	"github.com/maskwork/ebeam/pkg/errors"
)

// Params is an immutable parameter dictionary.
type Params struct {
	m map[string]any
}

// New copies m into a new Params. Nested maps are converted to Params.
func New(m map[string]any) Params {
	p := Params{m: make(map[string]any, len(m))}
	for k, v := range m {
		p.m[k] = normalize(v)
	}
	return p
}

// With returns a copy of p with key set to v.
func (p Params) With(key string, v any) Params {
	out := Params{m: maps.Clone(p.m)}
	if out.m == nil {
		out.m = make(map[string]any, 1)
	}
	out.m[key] = normalize(v)
	return out
}

// Merge returns a copy of p with every entry of o applied on top.
func (p Params) Merge(o Params) Params {
	out := Params{m: maps.Clone(p.m)}
	if out.m == nil {
		out.m = make(map[string]any, len(o.m))
	}
	maps.Copy(out.m, o.m)
	return out
}

// Has reports whether key is set.
func (p Params) Has(key string) bool {
	_, ok := p.m[key]
	return ok
}

// Keys returns the sorted parameter names.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p.m))
}

// Len returns the number of entries.
func (p Params) Len() int { return len(p.m) }

// Get returns the raw value stored under key.
func (p Params) Get(key string) (any, bool) {
	v, ok := p.m[key]
	return v, ok
}

// Map returns a copy of the underlying entries.
func (p Params) Map() map[string]any {
	return maps.Clone(p.m)
}

// Float returns key as a float64. Integer values are converted.
func (p Params) Float(key string) (float64, error) {
	v, ok := p.m[key]
	if !ok {
		return 0, missing(key)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, wrongType(key, "number", v)
	}
	return f, nil
}

// FloatOr returns key as a float64, or def when key is unset.
func (p Params) FloatOr(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key)
}

// Int returns key as an int. Floats with a fractional part are rejected.
func (p Params) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, errors.New(errors.ErrCodeInvalidParams, "parameter %q must be an integer, got %v", key, f)
	}
	return int(f), nil
}

// IntOr returns key as an int, or def when key is unset.
func (p Params) IntOr(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Int(key)
}

// Bool returns key as a bool.
func (p Params) Bool(key string) (bool, error) {
	v, ok := p.m[key]
	if !ok {
		return false, missing(key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "bool", v)
	}
	return b, nil
}

// BoolOr returns key as a bool, or def when key is unset.
func (p Params) BoolOr(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Bool(key)
}

// String returns key as a string.
func (p Params) String(key string) (string, error) {
	v, ok := p.m[key]
	if !ok {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// StringOr returns key as a string, or def when key is unset.
func (p Params) StringOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.String(key)
}

// Floats returns key as a list of numbers.
func (p Params) Floats(key string) ([]float64, error) {
	v, ok := p.m[key]
	if !ok {
		return nil, missing(key)
	}
	switch vs := v.(type) {
	case []float64:
		return slices.Clone(vs), nil
	case []any:
		out := make([]float64, len(vs))
		for i, e := range vs {
			f, ok := toFloat(e)
			if !ok {
				return nil, wrongType(fmt.Sprintf("%s[%d]", key, i), "number", e)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, wrongType(key, "list of numbers", v)
}

// FloatsOr returns key as a list of numbers, or def when key is unset.
func (p Params) FloatsOr(key string, def []float64) ([]float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Floats(key)
}

// Sub returns the nested dictionary stored under key.
func (p Params) Sub(key string) (Params, error) {
	v, ok := p.m[key]
	if !ok {
		return Params{}, missing(key)
	}
	sub, ok := v.(Params)
	if !ok {
		return Params{}, wrongType(key, "table", v)
	}
	return sub, nil
}

func missing(key string) error {
	return errors.New(errors.ErrCodeInvalidParams, "missing parameter %q", key)
}

func wrongType(key, want string, v any) error {
	return errors.New(errors.ErrCodeInvalidParams, "parameter %q must be a %s, got %T", key, want, v)
}

// normalize converts decoder-specific container types into the shapes the
// getters understand.
func normalize(v any) any {
	switch x := v.(type) {
	case Params:
		return x
	case map[string]any:
		return New(x)
	case []int:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out
	case []float64:
		return slices.Clone(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
