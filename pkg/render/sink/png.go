package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
)

const (
	// DefaultPNGScale is the default resolution in pixels per micrometer.
	DefaultPNGScale = 2.0
	// MaxPNGSide caps the longest image side; larger layouts are scaled down.
	MaxPNGSide = 8192
)

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	margin     float64
	background color.Color
	colors     map[geometry.Layer]color.Color
	layers     []geometry.Layer
}

// WithPNGScale sets the resolution in pixels per micrometer.
func WithPNGScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGMargin adds a margin around the layout, in micrometers.
func WithPNGMargin(m float64) PNGOption { return func(r *pngRenderer) { r.margin = m } }

// WithBackground sets the canvas color (default white).
func WithBackground(c color.Color) PNGOption { return func(r *pngRenderer) { r.background = c } }

// WithPNGLayerColor overrides the fill color of one layer.
func WithPNGLayerColor(l geometry.Layer, c color.Color) PNGOption {
	return func(r *pngRenderer) { r.colors[l] = c }
}

// WithPNGLayers restricts the output to the given layers.
func WithPNGLayers(ls ...geometry.Layer) PNGOption {
	return func(r *pngRenderer) { r.layers = append(r.layers, ls...) }
}

// RenderPNG rasterizes d. Layers are painted in ascending order so higher
// layers sit on top.
func RenderPNG(d *device.Device, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{
		scale:      DefaultPNGScale,
		background: color.White,
		colors:     make(map[geometry.Layer]color.Color),
	}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) || math.IsInf(r.scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidParams, "png scale must be positive, got %g", r.scale)
	}
	b, err := d.Bounds()
	if err != nil {
		return nil, err
	}
	f := frame{bounds: b, margin: r.margin, scale: r.scale}
	if side := math.Max(f.width(), f.height()); side > MaxPNGSide {
		f.scale *= MaxPNGSide / side
	}
	w, h := pixels(f.width()), pixels(f.height())

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	order, groups := byLayer(d.Flatten(), r.layers)
	for _, l := range order {
		fill, ok := r.colors[l]
		if !ok {
			fill = LayerColor(l)
		}
		z := vector.NewRasterizer(w, h)
		for _, p := range groups[l] {
			trace(z, f, p.Oriented())
		}
		z.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func pixels(v float64) int {
	return min(MaxPNGSide, max(1, int(math.Ceil(v-1e-6))))
}

func trace(z *vector.Rasterizer, f frame, p geometry.Polygon) {
	for _, c := range p {
		for i, pt := range c {
			x, y := f.apply(pt)
			if i == 0 {
				z.MoveTo(float32(x), float32(y))
			} else {
				z.LineTo(float32(x), float32(y))
			}
		}
		z.ClosePath()
	}
}
