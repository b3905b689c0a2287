package devices

import (
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

// reader decodes parameters and keeps the first error, so factories can
// read every field before checking once.
type reader struct {
	p   params.Params
	err error
}

func (r *reader) keep(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) float(key string) float64 {
	v, err := r.p.Float(key)
	r.keep(err)
	return v
}

func (r *reader) floatOr(key string, def float64) float64 {
	v, err := r.p.FloatOr(key, def)
	r.keep(err)
	return v
}

func (r *reader) intOr(key string, def int) int {
	v, err := r.p.IntOr(key, def)
	r.keep(err)
	return v
}

func (r *reader) int(key string) int {
	v, err := r.p.Int(key)
	r.keep(err)
	return v
}

func (r *reader) boolOr(key string, def bool) bool {
	v, err := r.p.BoolOr(key, def)
	r.keep(err)
	return v
}

func (r *reader) string(key string) string {
	v, err := r.p.String(key)
	r.keep(err)
	return v
}

func (r *reader) stringOr(key, def string) string {
	v, err := r.p.StringOr(key, def)
	r.keep(err)
	return v
}

func (r *reader) floats(key string) []float64 {
	v, err := r.p.Floats(key)
	r.keep(err)
	return v
}

func (r *reader) floatsOr(key string, def []float64) []float64 {
	v, err := r.p.FloatsOr(key, def)
	r.keep(err)
	return v
}

func (r *reader) layer(key string) geometry.Layer {
	return geometry.Layer(r.int(key))
}

func (r *reader) layerOr(key string, def geometry.Layer) geometry.Layer {
	return geometry.Layer(r.intOr(key, int(def)))
}

// sub returns the nested table under key, or ok=false when it is absent.
func (r *reader) sub(key string) (params.Params, bool) {
	if !r.p.Has(key) {
		return params.Params{}, false
	}
	v, err := r.p.Sub(key)
	r.keep(err)
	return v, err == nil
}
