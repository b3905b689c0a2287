package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// rect builds a w x h rectangle, width from key "w" and height from "h"
// (defaulting to the width).
func rect(p params.Params) (*device.Device, error) {
	w, err := p.Float("w")
	if err != nil {
		return nil, err
	}
	h, err := p.FloatOr("h", w)
	if err != nil {
		return nil, err
	}
	d := device.New("rect")
	if err := d.AddRect(geometry.R(0, 0, w, h), 1); err != nil {
		return nil, err
	}
	return d, nil
}

func cellBounds(t *testing.T, grid *device.Device) []geometry.Rect {
	t.Helper()
	var out []geometry.Rect
	for _, c := range grid.Children() {
		// Measure the cell geometry only, not the labels attached to it.
		r, ok := geometry.BoundsOf(c.Polygons(1)...)
		if !ok {
			t.Fatalf("cell %s has no geometry", c.Name)
		}
		out = append(out, r)
	}
	return out
}

func TestTwoByTwoSquares(t *testing.T) {
	cfg := Config{
		Name:        "squares",
		Factory:     rect,
		Params:      params.New(nil),
		KeyX:        "row",
		ValuesX:     []float64{1, 2},
		KeyY:        "w",
		ValuesY:     []float64{1, 2},
		Equidistant: true,
	}
	plan, err := Measure(cfg)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if diff := cmp.Diff([][]float64{{0, 1.5}, {0, 1.5}}, plan.PadX, approx); diff != "" {
		t.Errorf("PadX (-want +got):\n%s", diff)
	}
	// Both rows hold a 2-high square, so rows are spaced by the tallest.
	if diff := cmp.Diff([][]float64{{0, 0}, {2, 2}}, plan.PadY, approx); diff != "" {
		t.Errorf("PadY (-want +got):\n%s", diff)
	}

	grid, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cells := cellBounds(t, grid)
	if len(cells) != 4 {
		t.Fatalf("cells = %d, want 4", len(cells))
	}
	assertNoOverlap(t, cells)

	b, _ := grid.Bounds()
	if diff := cmp.Diff(geometry.R(-1.5, -2, 1.5, 2), b, approx); diff != "" {
		t.Errorf("grid bounds:\n%s", diff)
	}
}

func assertNoOverlap(t *testing.T, cells []geometry.Rect) {
	t.Helper()
	for a := range cells {
		for b := a + 1; b < len(cells); b++ {
			if cells[a].Overlaps(cells[b]) {
				t.Errorf("cells %d %v and %d %v overlap", a, cells[a], b, cells[b])
			}
		}
	}
}

func TestEquidistantNeverOverlaps(t *testing.T) {
	// Cell width follows the column value and height the row value.
	for _, pitch := range []float64{0, 0.25, 3} {
		cfg := Config{
			Factory:     rect,
			Params:      params.New(map[string]any{"scale": 1}),
			KeyX:        "h",
			ValuesX:     []float64{0.7, 2.1, 1.4},
			KeyY:        "w",
			ValuesY:     []float64{2.6, 1.3, 5.2, 0.65},
			PitchX:      pitch,
			PitchY:      pitch,
			Equidistant: true,
		}
		grid, err := Build(cfg)
		if err != nil {
			t.Fatalf("pitch %v: %v", pitch, err)
		}
		cells := cellBounds(t, grid)
		assertNoOverlap(t, cells)

		// Neighbours in a row are separated by exactly the pitch.
		if gap := cells[1].XMin() - cells[0].XMax(); gap < pitch-1e-9 || gap > pitch+1e-9 {
			t.Errorf("pitch %v: gap = %v", pitch, gap)
		}
	}
}

func TestEquidistantMixedSizes(t *testing.T) {
	// Sizes depend on both row and column: a tall wide cell at A0 and a
	// wide cell at B1 must not meet across the diagonal.
	sizes := map[[2]int][2]float64{
		{0, 0}: {5, 10},
		{0, 1}: {1, 1},
		{1, 0}: {1, 1},
		{1, 1}: {3, 1},
	}
	factory := func(p params.Params) (*device.Device, error) {
		i, err := p.Int("row")
		if err != nil {
			return nil, err
		}
		j, err := p.Int("col")
		if err != nil {
			return nil, err
		}
		wh := sizes[[2]int{i, j}]
		d := device.New("rect")
		if err := d.AddRect(geometry.R(0, 0, wh[0], wh[1]), 1); err != nil {
			return nil, err
		}
		return d, nil
	}
	cfg := Config{
		Factory:     factory,
		KeyX:        "row",
		ValuesX:     []float64{0, 1},
		KeyY:        "col",
		ValuesY:     []float64{0, 1},
		Equidistant: true,
	}
	plan, err := Measure(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]float64{{0, 4}, {0, 4}}, plan.PadX, approx); diff != "" {
		t.Errorf("PadX (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{0, 0}, {5.5, 5.5}}, plan.PadY, approx); diff != "" {
		t.Errorf("PadY (-want +got):\n%s", diff)
	}

	grid, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	assertNoOverlap(t, cellBounds(t, grid))
}

func TestFixedPitch(t *testing.T) {
	cfg := Config{
		Factory: rect,
		KeyX:    "h",
		ValuesX: []float64{1, 2},
		KeyY:    "w",
		ValuesY: []float64{1, 2, 3},
		PitchX:  10,
		PitchY:  20,
	}
	plan, err := Measure(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]float64{{0, 10, 20}, {0, 10, 20}}, plan.PadX); diff != "" {
		t.Errorf("PadX:\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{0, 0, 0}, {20, 20, 20}}, plan.PadY); diff != "" {
		t.Errorf("PadY:\n%s", diff)
	}
	if plan.Rows() != 2 || plan.Cols() != 3 {
		t.Errorf("grid = %dx%d, want 2x3", plan.Rows(), plan.Cols())
	}
	if diff := cmp.Diff([][]float64{{1, 2, 3}, {1, 2, 3}}, plan.SizesX); diff != "" {
		t.Errorf("SizesX:\n%s", diff)
	}
}

func TestCellParamsAreSnapshots(t *testing.T) {
	var seen []string
	factory := func(p params.Params) (*device.Device, error) {
		id, _ := p.String("tag")
		w, _ := p.Float("w")
		h, _ := p.Float("h")
		seen = append(seen, id)
		d := device.New("r")
		return d, d.AddRect(geometry.R(0, 0, w, h), 1)
	}
	tmpl := params.New(map[string]any{"w": 99})
	cfg := Config{
		Factory: factory,
		Params:  tmpl,
		KeyX:    "h",
		ValuesX: []float64{1, 2},
		KeyY:    "w",
		ValuesY: []float64{3, 4},
		IDKey:   "tag",
	}
	grid, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"A0", "A1", "B0", "B1"}
	if diff := cmp.Diff(append(want, want...), seen); diff != "" {
		t.Errorf("ids seen by the factory over both passes:\n%s", diff)
	}
	if w, _ := tmpl.Float("w"); w != 99 || tmpl.Has("h") || tmpl.Has("tag") {
		t.Error("template was modified by the sweep")
	}
	if got := grid.Children()[3].Name; got != "r_B1" {
		t.Errorf("cell name = %q", got)
	}
}

func TestGridLabels(t *testing.T) {
	cfg := Config{
		Factory:     rect,
		KeyX:        "h",
		ValuesX:     []float64{10, 10},
		KeyY:        "w",
		ValuesY:     []float64{10, 10, 10},
		PitchX:      15,
		PitchY:      15,
		Equidistant: true,
		Labels:      &Labels{Layer: 9, Size: 2, Distance: 1},
	}
	grid, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	labels := func(c *device.Device) []string {
		var out []string
		for _, l := range c.Children() {
			out = append(out, l.Name)
		}
		return out
	}
	want := [][]string{
		{"label_0", "label_A"}, {"label_1"}, {"label_2", "label_A"},
		{"label_0", "label_B"}, {"label_1"}, {"label_2", "label_B"},
	}
	for k, c := range grid.Children() {
		if diff := cmp.Diff(want[k], labels(c)); diff != "" {
			t.Errorf("cell %s labels:\n%s", c.Name, diff)
		}
	}

	// The bottom label of A0 sits below the cell.
	a0 := grid.Children()[0]
	cb, _ := geometry.BoundsOf(a0.Polygons(1)...)
	lb, _ := a0.Children()[0].Bounds()
	if d := cb.YMin() - lb.YMax(); d < 1-1e-9 || d > 1+1e-9 {
		t.Errorf("label distance = %v, want 1", d)
	}
	if ls := grid.Layers(); !cmp.Equal(ls, []geometry.Layer{1, 9}) {
		t.Errorf("layers = %v", ls)
	}

	cfg.Labels.RevertLetters = true
	cfg.Labels.RevertNumbers = true
	rev, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"label_2", "label_B"}, labels(rev.Children()[0])); diff != "" {
		t.Errorf("reverted labels:\n%s", diff)
	}
	if got := rev.Children()[0].Name; got != "rect_B2" {
		t.Errorf("reverted id = %q", got)
	}
}

func TestSingleRowLabels(t *testing.T) {
	grid, err := Build(Config{
		Factory: rect,
		KeyX:    "h",
		ValuesX: []float64{1},
		KeyY:    "w",
		ValuesY: []float64{1},
		Labels:  &Labels{Layer: 9, Size: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(grid.Children()[0].Children()); n != 2 {
		t.Errorf("single cell labels = %d, want bottom and left only", n)
	}
}

func TestBuildErrors(t *testing.T) {
	failing := func(p params.Params) (*device.Device, error) {
		if id, _ := p.String(DefaultIDKey); id == "B1" {
			return nil, errors.New(errors.ErrCodeInvalidParams, "width out of range")
		}
		return rect(p)
	}
	empty := func(params.Params) (*device.Device, error) { return device.New("nothing"), nil }

	base := Config{Factory: rect, KeyX: "h", ValuesX: []float64{1, 2}, KeyY: "w", ValuesY: []float64{1, 2}}
	tests := []struct {
		name   string
		mutate func(c *Config)
		code   errors.Code
		msg    string
	}{
		{"no factory", func(c *Config) { c.Factory = nil }, errors.ErrCodeInvalidInput, ""},
		{"empty x axis", func(c *Config) { c.ValuesX = nil }, errors.ErrCodeInvalidInput, ""},
		{"empty y axis", func(c *Config) { c.ValuesY = []float64{} }, errors.ErrCodeInvalidInput, ""},
		{"missing key", func(c *Config) { c.KeyY = "" }, errors.ErrCodeInvalidInput, ""},
		{"negative pitch", func(c *Config) { c.PitchX = -1 }, errors.ErrCodeInvalidParams, ""},
		{"bad name", func(c *Config) { c.Name = "my sweep" }, errors.ErrCodeInvalidInput, ""},
		{"bad label layer", func(c *Config) { c.Labels = &Labels{Layer: -3, Size: 1} }, errors.ErrCodeInvalidLayer, ""},
		{"cell failure", func(c *Config) { c.Factory = failing }, errors.ErrCodeInvalidParams, "cell B1"},
		{"empty cell", func(c *Config) { c.Factory = empty }, errors.ErrCodeEmptyGeometry, "cell A0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := Build(cfg)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want mention of %q", err, tt.msg)
			}
		})
	}
}

func TestLetter(t *testing.T) {
	tests := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"}
	for i, want := range tests {
		if got := Letter(i); got != want {
			t.Errorf("Letter(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestBuildLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	_, err := Build(Config{
		Name: "logged", Factory: rect, KeyX: "h", ValuesX: []float64{1}, KeyY: "w", ValuesY: []float64{1, 2},
		Logger: logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"measured cell", "id=A1", "built sweep", "sweep=logged"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
