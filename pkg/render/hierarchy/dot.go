package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
)

// Options configures hierarchy rendering.
type Options struct {
	// Detailed adds shape, layer and port information to node labels.
	// When false, only the device name is shown.
	Detailed bool
	// MaxDepth limits how deep the tree is drawn. Zero draws everything.
	MaxDepth int
}

// ToDOT converts the instance tree of d to Graphviz DOT format.
// Nodes that carry geometry are filled; pure containers are drawn dashed.
func ToDOT(d *device.Device, opts Options) string {
	var nodes, edges bytes.Buffer
	emit(&nodes, &edges, d, "n0", 0, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

func emit(nodes, edges *bytes.Buffer, d *device.Device, id string, depth int, opts Options) {
	hidden := 0
	if opts.MaxDepth > 0 && depth == opts.MaxDepth {
		d.Walk(func(*device.Device, int) { hidden++ })
		hidden--
	}
	label := fmtLabel(d, opts.Detailed, hidden)
	fmt.Fprintf(nodes, "  %q [%s];\n", id, strings.Join(fmtAttrs(d, label), ", "))
	if hidden > 0 {
		return
	}
	for i, c := range d.Children() {
		cid := id + "_" + strconv.Itoa(i)
		fmt.Fprintf(edges, "  %q -> %q;\n", id, cid)
		emit(nodes, edges, c, cid, depth+1, opts)
	}
}

func fmtLabel(d *device.Device, detailed bool, hidden int) string {
	lines := []string{d.Name}
	if detailed {
		if n := len(d.Shapes()); n > 0 {
			lines = append(lines, fmt.Sprintf("shapes: %d", n))
		}
		if ls := d.Layers(); len(ls) > 0 {
			parts := make([]string, len(ls))
			for i, l := range ls {
				parts[i] = strconv.Itoa(int(l))
			}
			lines = append(lines, "layers: "+strings.Join(parts, ","))
		}
		if ps := d.Ports(); len(ps) > 0 {
			names := make([]string, len(ps))
			for i, p := range ps {
				names[i] = p.Name
			}
			lines = append(lines, "ports: "+strings.Join(names, ", "))
		}
	}
	if hidden > 0 {
		lines = append(lines, fmt.Sprintf("+%d nested", hidden))
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(d *device.Device, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if len(d.Shapes()) == 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element so the drawing scales
// to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
