package pipeline

import (
	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/render"
	"github.com/maskwork/ebeam/pkg/render/hierarchy"
	"github.com/maskwork/ebeam/pkg/render/sink"
)

// RenderAll renders d in every format of opts.
func RenderAll(d *device.Device, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := Render(d, render.Format(f), opts)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "render %s", f)
		}
		out[f] = data
	}
	return out, nil
}

// Render renders d in one format.
func Render(d *device.Device, f render.Format, opts Options) ([]byte, error) {
	switch f {
	case render.FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithScale(opts.SVGScale), sink.WithMargin(opts.Margin)}
		if opts.Annotations {
			svgOpts = append(svgOpts, sink.WithAnnotations())
		}
		return sink.RenderSVG(d, svgOpts...)
	case render.FormatPNG:
		return sink.RenderPNG(d, sink.WithPNGScale(opts.PNGScale), sink.WithPNGMargin(opts.Margin))
	case render.FormatJSON:
		return sink.RenderJSON(d)
	case render.FormatMsgpack:
		return sink.RenderMsgpack(d)
	case render.FormatHierarchy:
		dot := hierarchy.ToDOT(d, hierarchy.Options{Detailed: opts.Detailed, MaxDepth: opts.HierarchyDepth})
		return hierarchy.RenderSVG(dot)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q has no renderer", f)
}
