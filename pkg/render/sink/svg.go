package sink

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/geometry"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale       float64
	margin      float64
	colors      map[geometry.Layer]string
	layers      []geometry.Layer
	annotations bool
}

// WithScale sets the number of SVG user units per micrometer (default 1).
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithMargin adds a margin around the layout, in micrometers.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithLayerColor overrides the fill color of one layer.
func WithLayerColor(l geometry.Layer, css string) SVGOption {
	return func(r *svgRenderer) { r.colors[l] = css }
}

// WithLayers restricts the output to the given layers.
func WithLayers(ls ...geometry.Layer) SVGOption {
	return func(r *svgRenderer) { r.layers = append(r.layers, ls...) }
}

// WithAnnotations draws device annotations as text.
func WithAnnotations() SVGOption { return func(r *svgRenderer) { r.annotations = true } }

// RenderSVG draws d as an SVG document.
func RenderSVG(d *device.Device, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{scale: 1, colors: make(map[geometry.Layer]string)}
	for _, opt := range opts {
		opt(&r)
	}
	b, err := d.Bounds()
	if err != nil {
		return nil, err
	}
	f := frame{bounds: b, margin: r.margin, scale: r.scale}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.3f %.3f" width="%.0f" height="%.0f">`+"\n",
		f.width(), f.height(), f.width(), f.height())
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(d.Name))

	order, groups := byLayer(d.Flatten(), r.layers)
	for _, l := range order {
		fill, ok := r.colors[l]
		if !ok {
			fill = hex(LayerColor(l))
		}
		fmt.Fprintf(&buf, `  <g id="layer-%d" fill="%s" fill-opacity="0.7" fill-rule="evenodd">`+"\n", l, fill)
		for _, p := range groups[l] {
			fmt.Fprintf(&buf, `    <path d="%s"/>`+"\n", pathData(f, p))
		}
		buf.WriteString("  </g>\n")
	}

	if r.annotations {
		renderAnnotations(&buf, f, d, r.layers)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func pathData(f frame, p geometry.Polygon) string {
	var sb strings.Builder
	for _, c := range p {
		for i, pt := range c {
			x, y := f.apply(pt)
			op := "L"
			if i == 0 {
				op = "M"
			}
			fmt.Fprintf(&sb, "%s%.4f %.4f ", op, x, y)
		}
		sb.WriteString("Z ")
	}
	return strings.TrimSpace(sb.String())
}

func renderAnnotations(buf *bytes.Buffer, f frame, d *device.Device, keep []geometry.Layer) {
	size := 2 * f.scale
	d.Walk(func(n *device.Device, _ int) {
		for _, a := range n.Annotations() {
			if len(keep) > 0 && !contains(keep, a.Layer) {
				continue
			}
			x, y := f.apply(a.Position)
			fmt.Fprintf(buf, `  <text class="annotation" x="%.3f" y="%.3f" font-size="%.2f" font-family="monospace">`, x, y, size)
			for i, line := range strings.Split(a.Text, "\n") {
				dy := "0"
				if i > 0 {
					dy = "1.2em"
				}
				fmt.Fprintf(buf, `<tspan x="%.3f" dy="%s">%s</tspan>`, x, dy, html.EscapeString(line))
			}
			buf.WriteString("</text>\n")
		}
	})
}

func contains(ls []geometry.Layer, l geometry.Layer) bool { return slices.Contains(ls, l) }

func sortLayers(ls []geometry.Layer) { slices.Sort(ls) }
